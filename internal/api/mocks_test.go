package api_test

import (
	"context"
	"time"

	"github.com/stocktrail/stocktrail/internal/models"
)

// mockLedgerRepo implements api.LedgerRepository for testing.
type mockLedgerRepo struct {
	listFn        func(ctx context.Context, nameFilter string, limit, offset int) ([]models.Item, bool, error)
	getFn         func(ctx context.Context, itemID string) (*models.Item, error)
	createFn      func(ctx context.Context, actor string, req models.CreateItemRequest) (*models.Item, error)
	createBatchFn func(ctx context.Context, actor string, reqs []models.CreateItemRequest) ([]models.Item, error)
	updateFn      func(ctx context.Context, actor, itemID string, req models.UpdateItemRequest) (*models.Item, error)
	adjustFn      func(ctx context.Context, actor, itemID string, req models.AdjustQuantityRequest) (*models.Item, int, error)
	deleteFn      func(ctx context.Context, actor, itemID string) error
}

func (m *mockLedgerRepo) ListItems(ctx context.Context, nameFilter string, limit, offset int) ([]models.Item, bool, error) {
	return m.listFn(ctx, nameFilter, limit, offset)
}

func (m *mockLedgerRepo) GetItem(ctx context.Context, itemID string) (*models.Item, error) {
	return m.getFn(ctx, itemID)
}

func (m *mockLedgerRepo) CreateItem(ctx context.Context, actor string, req models.CreateItemRequest) (*models.Item, error) {
	return m.createFn(ctx, actor, req)
}

func (m *mockLedgerRepo) CreateItems(ctx context.Context, actor string, reqs []models.CreateItemRequest) ([]models.Item, error) {
	return m.createBatchFn(ctx, actor, reqs)
}

func (m *mockLedgerRepo) UpdateItem(ctx context.Context, actor, itemID string, req models.UpdateItemRequest) (*models.Item, error) {
	return m.updateFn(ctx, actor, itemID, req)
}

func (m *mockLedgerRepo) AdjustQuantity(ctx context.Context, actor, itemID string, req models.AdjustQuantityRequest) (*models.Item, int, error) {
	return m.adjustFn(ctx, actor, itemID, req)
}

func (m *mockLedgerRepo) DeleteItem(ctx context.Context, actor, itemID string) error {
	return m.deleteFn(ctx, actor, itemID)
}

// mockAuditRepo implements api.AuditRepository for testing.
type mockAuditRepo struct {
	queryFn func(ctx context.Context, f models.TransactionFilter) ([]models.Transaction, bool, error)
	clearFn func(ctx context.Context, actor string) (int, error)
}

func (m *mockAuditRepo) QueryTransactions(ctx context.Context, f models.TransactionFilter) ([]models.Transaction, bool, error) {
	return m.queryFn(ctx, f)
}

func (m *mockAuditRepo) ClearTransactions(ctx context.Context, actor string) (int, error) {
	return m.clearFn(ctx, actor)
}

// mockSummaryRepo implements api.SummaryRepository for testing.
type mockSummaryRepo struct {
	summarizeFn func(ctx context.Context, from, to time.Time, topLimit int) (*models.Summary, error)
	drillDownFn func(ctx context.Context, f models.TransactionFilter) ([]models.Transaction, bool, error)
}

func (m *mockSummaryRepo) Summarize(ctx context.Context, from, to time.Time, topLimit int) (*models.Summary, error) {
	return m.summarizeFn(ctx, from, to, topLimit)
}

func (m *mockSummaryRepo) DrillDown(ctx context.Context, f models.TransactionFilter) ([]models.Transaction, bool, error) {
	return m.drillDownFn(ctx, f)
}
