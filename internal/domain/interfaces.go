// Package domain defines the canonical service interfaces shared across
// the API layer and the Go client. Consumers should depend on these
// interfaces rather than re-declaring equivalent ones.
package domain

import (
	"context"
	"time"

	"github.com/stocktrail/stocktrail/internal/models"
)

// LedgerService defines all item operations. Every mutating method takes
// the resolved actor identity; the ledger trusts the value and threads
// it into the audit transaction it appends for the mutation.
type LedgerService interface {
	ListItems(ctx context.Context, nameFilter string, limit, offset int) ([]models.Item, bool, error)
	GetItem(ctx context.Context, itemID string) (*models.Item, error)
	CreateItem(ctx context.Context, actor string, req models.CreateItemRequest) (*models.Item, error)
	CreateItems(ctx context.Context, actor string, reqs []models.CreateItemRequest) ([]models.Item, error)
	UpdateItem(ctx context.Context, actor, itemID string, req models.UpdateItemRequest) (*models.Item, error)
	AdjustQuantity(ctx context.Context, actor, itemID string, req models.AdjustQuantityRequest) (*models.Item, int, error)
	DeleteItem(ctx context.Context, actor, itemID string) error
}

// AuditLogService defines audit log query and maintenance operations.
type AuditLogService interface {
	QueryTransactions(ctx context.Context, f models.TransactionFilter) ([]models.Transaction, bool, error)
	ClearTransactions(ctx context.Context, actor string) (int, error)
}

// SummaryService defines windowed aggregation over the audit log.
type SummaryService interface {
	Summarize(ctx context.Context, from, to time.Time, topLimit int) (*models.Summary, error)
	DrillDown(ctx context.Context, f models.TransactionFilter) ([]models.Transaction, bool, error)
}
