// Package service provides business logic between API handlers and data stores.
package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/stocktrail/stocktrail/internal/domain"
	"github.com/stocktrail/stocktrail/internal/metrics"
	"github.com/stocktrail/stocktrail/internal/models"
)

// LedgerStore is the data-access interface LedgerService depends on.
// Implementations must make each mutation and its audit transaction
// durable together or not at all; if a backend cannot guarantee that,
// it must return a models.PartialFailureError instead of plain success.
type LedgerStore interface {
	GetItem(ctx context.Context, itemID string) (*models.Item, error)
	ListItems(ctx context.Context, nameFilter string, limit, offset int) ([]models.Item, bool, error)
	CreateItem(ctx context.Context, actor string, req models.CreateItemRequest) (*models.Item, error)
	CreateItems(ctx context.Context, actor string, reqs []models.CreateItemRequest) ([]models.Item, error)
	UpdateItem(ctx context.Context, actor, itemID string, req models.UpdateItemRequest) (*models.Item, error)
	AdjustQuantity(ctx context.Context, actor, itemID string, req models.AdjustQuantityRequest) (*models.Item, int, error)
	DeleteItem(ctx context.Context, actor, itemID string) error
}

// Compile-time check: *LedgerService must satisfy domain.LedgerService.
var _ domain.LedgerService = (*LedgerService)(nil)

// LedgerService validates requests and applies them through the store.
// It is the only path that mutates item state; nothing bypasses it to
// write the record store directly, which is what keeps the one-mutation,
// one-transaction guarantee intact.
type LedgerService struct {
	store LedgerStore
	log   *logrus.Logger
}

// NewLedgerService creates a LedgerService.
func NewLedgerService(store LedgerStore, log *logrus.Logger) *LedgerService {
	return &LedgerService{store: store, log: log}
}

// ListItems returns a paginated list of items (pass-through).
func (s *LedgerService) ListItems(ctx context.Context, nameFilter string, limit, offset int) ([]models.Item, bool, error) {
	return s.store.ListItems(ctx, nameFilter, limit, offset)
}

// GetItem returns a single item by ID (pass-through).
func (s *LedgerService) GetItem(ctx context.Context, itemID string) (*models.Item, error) {
	return s.store.GetItem(ctx, itemID)
}

// CreateItem validates and persists a new item with its CREATE transaction.
func (s *LedgerService) CreateItem(ctx context.Context, actor string, req models.CreateItemRequest) (*models.Item, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	item, err := s.store.CreateItem(ctx, actor, req)
	if err != nil {
		return nil, s.checkPartial(err, "ledger.create", req.ID)
	}

	metrics.TransactionsTotal.WithLabelValues(string(models.TxCreate)).Inc()
	metrics.ItemCount.Inc()
	s.log.WithFields(logrus.Fields{"action": "ledger.create", "item_id": item.ID, "actor": actor}).Info("item created")

	return item, nil
}

// CreateItems validates and persists a batch of items, all-or-nothing.
func (s *LedgerService) CreateItems(ctx context.Context, actor string, reqs []models.CreateItemRequest) ([]models.Item, error) {
	if len(reqs) == 0 {
		return nil, models.ErrMissingName
	}

	for i := range reqs {
		if err := reqs[i].Validate(); err != nil {
			return nil, err
		}
	}

	items, err := s.store.CreateItems(ctx, actor, reqs)
	if err != nil {
		return nil, s.checkPartial(err, "ledger.create_batch", "")
	}

	metrics.TransactionsTotal.WithLabelValues(string(models.TxCreate)).Add(float64(len(items)))
	metrics.ItemCount.Add(float64(len(items)))
	s.log.WithFields(logrus.Fields{"action": "ledger.create_batch", "count": len(items), "actor": actor}).Info("items created")

	return items, nil
}

// UpdateItem validates and merges a partial update over the stored item.
func (s *LedgerService) UpdateItem(ctx context.Context, actor, itemID string, req models.UpdateItemRequest) (*models.Item, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	item, err := s.store.UpdateItem(ctx, actor, itemID, req)
	if err != nil {
		return nil, s.checkPartial(err, "ledger.update", itemID)
	}

	metrics.TransactionsTotal.WithLabelValues(string(models.TxUpdate)).Inc()
	s.log.WithFields(logrus.Fields{"action": "ledger.update", "item_id": itemID, "actor": actor}).Info("item updated")

	return item, nil
}

// AdjustQuantity validates and applies a stock adjustment. Returns the
// adjusted item and the applied amount, which on a deduction clamped at
// zero is smaller than the requested amount. The shortfall is accepted
// behavior, not an error; the audit transaction records the applied
// delta so the log stays truthful.
func (s *LedgerService) AdjustQuantity(ctx context.Context, actor, itemID string, req models.AdjustQuantityRequest) (*models.Item, int, error) {
	if err := req.Validate(); err != nil {
		return nil, 0, err
	}

	item, applied, err := s.store.AdjustQuantity(ctx, actor, itemID, req)
	if err != nil {
		return nil, 0, s.checkPartial(err, "ledger.adjust", itemID)
	}

	kind := models.KindForDirection(req.Direction)
	metrics.TransactionsTotal.WithLabelValues(string(kind)).Inc()
	s.log.WithFields(logrus.Fields{
		"action":  "ledger.adjust",
		"item_id": itemID,
		"actor":   actor,
		"kind":    kind,
		"applied": applied,
	}).Info("quantity adjusted")

	return item, applied, nil
}

// DeleteItem removes an item; its transactions remain in the log.
func (s *LedgerService) DeleteItem(ctx context.Context, actor, itemID string) error {
	if err := s.store.DeleteItem(ctx, actor, itemID); err != nil {
		return s.checkPartial(err, "ledger.delete", itemID)
	}

	metrics.TransactionsTotal.WithLabelValues(string(models.TxDelete)).Inc()
	metrics.ItemCount.Dec()
	s.log.WithFields(logrus.Fields{"action": "ledger.delete", "item_id": itemID, "actor": actor}).Info("item deleted")

	return nil
}

// checkPartial escalates partial failures to Error level before
// propagating; a mutation that became durable without its audit entry
// needs operator attention, not a retry.
func (s *LedgerService) checkPartial(err error, op, itemID string) error {
	if models.IsPartialFailure(err) {
		metrics.PartialFailuresTotal.Inc()
		s.log.WithError(err).WithFields(logrus.Fields{"action": op, "item_id": itemID}).Error("audit append failed after state change")
	}

	return err
}
