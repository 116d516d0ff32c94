package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/stocktrail/stocktrail/internal/domain"
	"github.com/stocktrail/stocktrail/internal/models"
)

// AuditLogStore is the data-access interface AuditService depends on.
type AuditLogStore interface {
	QueryTransactions(ctx context.Context, f models.TransactionFilter) ([]models.Transaction, bool, error)
	Clear(ctx context.Context, actor string) (int, error)
}

// Compile-time check: *AuditService must satisfy domain.AuditLogService.
var _ domain.AuditLogService = (*AuditService)(nil)

// AuditService wraps AuditLogStore with logging for destructive operations.
type AuditService struct {
	store AuditLogStore
	log   *logrus.Logger
}

// NewAuditService creates an AuditService.
func NewAuditService(store AuditLogStore, log *logrus.Logger) *AuditService {
	return &AuditService{store: store, log: log}
}

// QueryTransactions returns audit entries matching the filter (pass-through).
func (s *AuditService) QueryTransactions(ctx context.Context, f models.TransactionFilter) ([]models.Transaction, bool, error) {
	return s.store.QueryTransactions(ctx, f)
}

// ClearTransactions wipes the audit log and logs the result. The wipe
// itself leaves a SYSTEM event row attributed to the acting admin.
func (s *AuditService) ClearTransactions(ctx context.Context, actor string) (int, error) {
	deleted, err := s.store.Clear(ctx, actor)
	if err != nil {
		return 0, err
	}

	s.log.WithFields(logrus.Fields{
		"actor":   actor,
		"deleted": deleted,
	}).Info("audit.clear")

	return deleted, nil
}
