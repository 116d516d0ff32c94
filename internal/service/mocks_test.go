package service

import (
	"context"
	"sync"
	"time"

	"github.com/stocktrail/stocktrail/internal/models"
)

// memLedgerStore is an in-memory LedgerStore mimicking the transactional
// backend: every mutation appends its audit transaction under the same
// lock, or reports a PartialFailureError when failAudit is set.
type memLedgerStore struct {
	mu           sync.Mutex
	items        map[string]*models.Item
	transactions []models.Transaction
	nextTxID     int64
	failAudit    bool
}

func newMemLedgerStore() *memLedgerStore {
	return &memLedgerStore{items: make(map[string]*models.Item)}
}

func (m *memLedgerStore) append(actor string, item *models.Item, kind models.TxKind, delta int, size, detail string) error {
	if m.failAudit {
		return &models.PartialFailureError{Op: string(kind), ItemID: item.ID, Err: context.DeadlineExceeded}
	}
	m.nextTxID++
	m.transactions = append(m.transactions, models.Transaction{
		ID:        m.nextTxID,
		Actor:     actor,
		ItemID:    item.ID,
		ItemName:  item.Name,
		Kind:      kind,
		Delta:     delta,
		Size:      size,
		Detail:    detail,
		CreatedAt: time.Now(),
	})
	return nil
}

func (m *memLedgerStore) GetItem(_ context.Context, itemID string) (*models.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[itemID]
	if !ok {
		return nil, models.ErrItemNotFound
	}
	cp := *item
	return &cp, nil
}

func (m *memLedgerStore) ListItems(_ context.Context, _ string, _, _ int) ([]models.Item, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Item, 0, len(m.items))
	for _, it := range m.items {
		out = append(out, *it)
	}
	return out, false, nil
}

func (m *memLedgerStore) CreateItem(_ context.Context, actor string, req models.CreateItemRequest) (*models.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items {
		if it.Name == req.Name {
			return nil, models.ErrDuplicateName
		}
	}
	item := &models.Item{
		ID:        req.ID,
		Name:      req.Name,
		Quantity:  req.Quantity,
		Sizes:     req.Sizes,
		Location:  req.Location,
		Version:   1,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	m.items[item.ID] = item
	if err := m.append(actor, item, models.TxCreate, req.Quantity, "", ""); err != nil {
		return nil, err
	}
	cp := *item
	return &cp, nil
}

func (m *memLedgerStore) CreateItems(ctx context.Context, actor string, reqs []models.CreateItemRequest) ([]models.Item, error) {
	out := make([]models.Item, 0, len(reqs))
	for i := range reqs {
		item, err := m.CreateItem(ctx, actor, reqs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *item)
	}
	return out, nil
}

func (m *memLedgerStore) UpdateItem(_ context.Context, actor, itemID string, req models.UpdateItemRequest) (*models.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[itemID]
	if !ok {
		return nil, models.ErrItemNotFound
	}
	if req.ExpectedVersion != nil && *req.ExpectedVersion != item.Version {
		return nil, models.ErrVersionConflict
	}
	delta := 0
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Quantity != nil {
		delta = *req.Quantity - item.Quantity
		item.Quantity = *req.Quantity
	}
	item.Version++
	item.UpdatedAt = time.Now()
	if err := m.append(actor, item, models.TxUpdate, delta, "", ""); err != nil {
		return nil, err
	}
	cp := *item
	return &cp, nil
}

func (m *memLedgerStore) AdjustQuantity(_ context.Context, actor, itemID string, req models.AdjustQuantityRequest) (*models.Item, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[itemID]
	if !ok {
		return nil, 0, models.ErrItemNotFound
	}
	applied := req.Amount
	if req.Direction == models.DirectionDeduct {
		if applied > item.Quantity {
			applied = item.Quantity
		}
		item.Quantity -= applied
		applied = -applied
	} else {
		item.Quantity += applied
	}
	item.Version++
	item.UpdatedAt = time.Now()
	if err := m.append(actor, item, models.KindForDirection(req.Direction), applied, req.Size, ""); err != nil {
		return nil, 0, err
	}
	cp := *item
	if applied < 0 {
		applied = -applied
	}
	return &cp, applied, nil
}

func (m *memLedgerStore) DeleteItem(_ context.Context, actor, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[itemID]
	if !ok {
		return models.ErrItemNotFound
	}
	delete(m.items, itemID)
	return m.append(actor, item, models.TxDelete, 0, "", "")
}

func (m *memLedgerStore) txByKind(kind models.TxKind) []models.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Transaction
	for _, tx := range m.transactions {
		if tx.Kind == kind {
			out = append(out, tx)
		}
	}
	return out
}

// mockSummaryReader implements SummaryReader for testing.
type mockSummaryReader struct {
	totalsFn       func(ctx context.Context, from, to time.Time) (models.QuantityCount, models.QuantityCount, error)
	topItemsFn     func(ctx context.Context, from, to time.Time, direction models.AdjustDirection, limit int) ([]models.ItemTotal, error)
	userActivityFn func(ctx context.Context, from, to time.Time) ([]models.UserActivity, error)
}

func (m *mockSummaryReader) Totals(ctx context.Context, from, to time.Time) (models.QuantityCount, models.QuantityCount, error) {
	return m.totalsFn(ctx, from, to)
}

func (m *mockSummaryReader) TopItems(ctx context.Context, from, to time.Time, direction models.AdjustDirection, limit int) ([]models.ItemTotal, error) {
	return m.topItemsFn(ctx, from, to, direction, limit)
}

func (m *mockSummaryReader) UserActivity(ctx context.Context, from, to time.Time) ([]models.UserActivity, error) {
	return m.userActivityFn(ctx, from, to)
}

// mockTransactionReader implements TransactionReader for testing.
type mockTransactionReader struct {
	queryFn func(ctx context.Context, f models.TransactionFilter) ([]models.Transaction, bool, error)
}

func (m *mockTransactionReader) QueryTransactions(ctx context.Context, f models.TransactionFilter) ([]models.Transaction, bool, error) {
	return m.queryFn(ctx, f)
}
