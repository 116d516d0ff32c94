package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/stocktrail/stocktrail/internal/models"
)

// ItemStore is the only writer of item state. Every mutation appends
// its audit transaction inside the same database transaction, so a
// mutation and its log entry become durable together or not at all.
type ItemStore struct {
	Base
}

// NewItemStore creates an ItemStore.
func NewItemStore(base Base) *ItemStore {
	return &ItemStore{Base: base}
}

// GetItem returns a single item by ID.
func (s *ItemStore) GetItem(ctx context.Context, itemID string) (*models.Item, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := s.Pool.QueryRow(ctx, "SELECT "+itemColumns+" FROM items WHERE id = $1", itemID)

	item, err := scanItem(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrItemNotFound
		}

		return nil, fmt.Errorf("scanning item: %w", err)
	}

	return item, nil
}

// ListItems returns a paginated list of items, optionally filtered by a
// case-insensitive name substring. Returns items, hasMore flag, and any error.
func (s *ItemStore) ListItems(ctx context.Context, nameFilter string, limit, offset int) ([]models.Item, bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if limit <= 0 {
		limit = 50
	}

	var (
		rows pgx.Rows
		err  error
	)

	if nameFilter != "" {
		rows, err = s.Pool.Query(ctx,
			"SELECT "+itemColumns+" FROM items WHERE name ILIKE '%' || $1 || '%' ORDER BY name LIMIT $2 OFFSET $3",
			nameFilter, limit+1, offset,
		)
	} else {
		rows, err = s.Pool.Query(ctx,
			"SELECT "+itemColumns+" FROM items ORDER BY name LIMIT $1 OFFSET $2",
			limit+1, offset,
		)
	}

	if err != nil {
		return nil, false, fmt.Errorf("querying items: %w", err)
	}

	items, err := collectItems(rows)
	if err != nil {
		return nil, false, err
	}

	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}

	return items, hasMore, nil
}

// CountItems returns the total number of items in the store.
func (s *ItemStore) CountItems(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var n int64
	if err := s.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM items").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting items: %w", err)
	}

	return n, nil
}

// CreateItem inserts a new item and its CREATE transaction atomically.
// Name uniqueness is checked inside the transaction (case-insensitive).
func (s *ItemStore) CreateItem(ctx context.Context, actor string, req models.CreateItemRequest) (*models.Item, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx)
	if err != nil {
		return nil, err
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	item, err := insertItem(ctx, tx, actor, req)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing create item: %w", err)
	}

	return item, nil
}

// CreateItems inserts several items in one transaction, each with its
// own CREATE transaction. All inserts succeed or none do.
func (s *ItemStore) CreateItems(ctx context.Context, actor string, reqs []models.CreateItemRequest) ([]models.Item, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx)
	if err != nil {
		return nil, err
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	items := make([]models.Item, 0, len(reqs))
	seen := make(map[string]bool, len(reqs))

	for _, req := range reqs {
		key := strings.ToLower(req.Name)
		if seen[key] {
			return nil, models.ErrDuplicateName
		}
		seen[key] = true

		item, err := insertItem(ctx, tx, actor, req)
		if err != nil {
			return nil, err
		}

		items = append(items, *item)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing create items: %w", err)
	}

	return items, nil
}

// insertItem performs the duplicate-name check, the insert, and the
// CREATE transaction append within the caller's transaction.
func insertItem(ctx context.Context, tx pgx.Tx, actor string, req models.CreateItemRequest) (*models.Item, error) {
	var exists bool
	if err := tx.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM items WHERE lower(name) = lower($1))", req.Name,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("checking item name: %w", err)
	}

	if exists {
		return nil, models.ErrDuplicateName
	}

	sizesJSON, err := marshalSizes(req.Sizes)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO items (id, name, quantity, sizes, location, image_ref, url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+itemColumns,
		req.ID, req.Name, req.Quantity, sizesJSON, req.Location, req.ImageRef, req.URL,
	)

	item, err := scanItem(row.Scan)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, models.ErrDuplicateName
		}

		return nil, fmt.Errorf("scanning created item: %w", err)
	}

	txn := &models.Transaction{
		Actor:    actor,
		ItemID:   item.ID,
		ItemName: item.Name,
		Kind:     models.TxCreate,
		Delta:    item.Quantity,
		Detail:   initialStateDetail(item),
	}
	if err := appendTransaction(ctx, tx, txn); err != nil {
		return nil, err
	}

	return item, nil
}

// UpdateItem merges the provided fields over the stored item and appends
// an UPDATE transaction listing every changed field, all within one
// transaction. The row is locked for the duration, so concurrent updates
// to the same item serialize; ExpectedVersion additionally lets callers
// detect races across read-modify-write round trips.
func (s *ItemStore) UpdateItem(ctx context.Context, actor, itemID string, req models.UpdateItemRequest) (*models.Item, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx)
	if err != nil {
		return nil, err
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	old, err := lockItem(ctx, tx, itemID)
	if err != nil {
		return nil, err
	}

	if req.ExpectedVersion != nil && *req.ExpectedVersion != old.Version {
		return nil, models.ErrVersionConflict
	}

	merged, changes, err := mergeItem(old, req)
	if err != nil {
		return nil, err
	}

	if len(changes) == 0 {
		return old, nil
	}

	sizesJSON, err := marshalSizes(merged.Sizes)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, `
		UPDATE items
		SET name = $1, quantity = $2, sizes = $3, location = $4, image_ref = $5, url = $6,
		    version = version + 1, updated_at = now()
		WHERE id = $7
		RETURNING `+itemColumns,
		merged.Name, merged.Quantity, sizesJSON, merged.Location, merged.ImageRef, merged.URL, itemID,
	)

	updated, err := scanItem(row.Scan)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, models.ErrDuplicateName
		}

		return nil, fmt.Errorf("scanning updated item: %w", err)
	}

	txn := &models.Transaction{
		Actor:    actor,
		ItemID:   updated.ID,
		ItemName: updated.Name,
		Kind:     models.TxUpdate,
		Delta:    updated.Quantity - old.Quantity,
		Detail:   strings.Join(changes, ", "),
	}
	if err := appendTransaction(ctx, tx, txn); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing update item: %w", err)
	}

	return updated, nil
}

// AdjustQuantity applies a stock adjustment and appends its QUANTITY_ADD
// or QUANTITY_DEDUCT transaction atomically. Deductions clamp at zero:
// the applied delta may be smaller than the requested amount, and the
// transaction records what was actually applied. The row lock taken here
// is what makes concurrent adjustments on one item lose no increments.
func (s *ItemStore) AdjustQuantity(ctx context.Context, actor, itemID string, req models.AdjustQuantityRequest) (*models.Item, int, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	item, err := lockItem(ctx, tx, itemID)
	if err != nil {
		return nil, 0, err
	}

	applied, err := applyAdjustment(item, req)
	if err != nil {
		return nil, 0, err
	}

	sizesJSON, err := marshalSizes(item.Sizes)
	if err != nil {
		return nil, 0, err
	}

	row := tx.QueryRow(ctx, `
		UPDATE items
		SET quantity = $1, sizes = $2, version = version + 1, updated_at = now()
		WHERE id = $3
		RETURNING `+itemColumns,
		item.Quantity, sizesJSON, itemID,
	)

	updated, err := scanItem(row.Scan)
	if err != nil {
		return nil, 0, fmt.Errorf("scanning adjusted item: %w", err)
	}

	delta := applied
	if req.Direction == models.DirectionDeduct {
		delta = -applied
	}

	txn := &models.Transaction{
		Actor:    actor,
		ItemID:   updated.ID,
		ItemName: updated.Name,
		Kind:     models.KindForDirection(req.Direction),
		Delta:    delta,
		Size:     req.Size,
		Detail:   fmt.Sprintf("quantity: %d → %d", updated.Quantity-delta, updated.Quantity),
	}
	if err := appendTransaction(ctx, tx, txn); err != nil {
		return nil, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, 0, fmt.Errorf("committing quantity adjustment: %w", err)
	}

	return updated, applied, nil
}

// DeleteItem removes an item and appends a DELETE transaction carrying a
// final-state snapshot, atomically. The transaction rows for the item
// are kept; logs outlive items.
func (s *ItemStore) DeleteItem(ctx context.Context, actor, itemID string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx)
	if err != nil {
		return err
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	item, err := lockItem(ctx, tx, itemID)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, "DELETE FROM items WHERE id = $1", itemID); err != nil {
		return fmt.Errorf("executing item delete: %w", err)
	}

	txn := &models.Transaction{
		Actor:    actor,
		ItemID:   item.ID,
		ItemName: item.Name,
		Kind:     models.TxDelete,
		Detail:   initialStateDetail(item),
	}
	if err := appendTransaction(ctx, tx, txn); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing delete item: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation. The items_name_lower_idx unique index backstops the
// application-level duplicate-name check against concurrent creates.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// lockItem reads an item under FOR UPDATE, serializing concurrent
// mutations on the same item id without blocking other items.
func lockItem(ctx context.Context, tx pgx.Tx, itemID string) (*models.Item, error) {
	row := tx.QueryRow(ctx, "SELECT "+itemColumns+" FROM items WHERE id = $1 FOR UPDATE", itemID)

	item, err := scanItem(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrItemNotFound
		}

		return nil, fmt.Errorf("locking item: %w", err)
	}

	return item, nil
}

// applyAdjustment mutates item in place per the request and returns the
// applied (non-negative) amount.
func applyAdjustment(item *models.Item, req models.AdjustQuantityRequest) (int, error) {
	if req.Size != "" {
		if !item.HasSizes() {
			return 0, models.ErrSizeNotTracked
		}

		current, ok := item.Sizes[req.Size]
		if !ok {
			return 0, models.ErrSizeNotTracked
		}

		applied := req.Amount
		if req.Direction == models.DirectionDeduct {
			applied = min(applied, current)
			item.Sizes[req.Size] = current - applied
			item.Quantity -= applied
		} else {
			item.Sizes[req.Size] = current + applied
			item.Quantity += applied
		}

		return applied, nil
	}

	if item.HasSizes() {
		return 0, models.ErrSizeRequired
	}

	applied := req.Amount
	if req.Direction == models.DirectionDeduct {
		applied = min(applied, item.Quantity)
		item.Quantity -= applied
	} else {
		item.Quantity += applied
	}

	return applied, nil
}

// mergeItem applies non-nil request fields over a copy of old, returning
// the merged item and a human-readable "field: old → new" change list.
func mergeItem(old *models.Item, req models.UpdateItemRequest) (*models.Item, []string, error) {
	merged := *old

	var changes []string

	if req.Name != nil && *req.Name != old.Name {
		merged.Name = *req.Name
		changes = append(changes, fmt.Sprintf("name: %s → %s", old.Name, merged.Name))
	}

	if req.Location != nil && *req.Location != old.Location {
		merged.Location = *req.Location
		changes = append(changes, fmt.Sprintf("location: %s → %s", old.Location, merged.Location))
	}

	if req.ImageRef != nil && *req.ImageRef != old.ImageRef {
		merged.ImageRef = *req.ImageRef
		changes = append(changes, fmt.Sprintf("image: %s → %s", old.ImageRef, merged.ImageRef))
	}

	if req.URL != nil && *req.URL != old.URL {
		merged.URL = *req.URL
		changes = append(changes, fmt.Sprintf("url: %s → %s", old.URL, merged.URL))
	}

	if req.Sizes != nil {
		merged.Sizes = req.Sizes
		merged.Quantity = 0
		for _, q := range req.Sizes {
			merged.Quantity += q
		}

		if sizesChanged(old.Sizes, merged.Sizes) {
			changes = append(changes, fmt.Sprintf("sizes: %s → %s", formatSizes(old.Sizes), formatSizes(merged.Sizes)))
			if merged.Quantity != old.Quantity {
				changes = append(changes, fmt.Sprintf("quantity: %d → %d", old.Quantity, merged.Quantity))
			}
		}
	} else if req.Quantity != nil && *req.Quantity != old.Quantity {
		if old.HasSizes() {
			return nil, nil, models.ErrSizeTotalMismatch
		}

		merged.Quantity = *req.Quantity
		changes = append(changes, fmt.Sprintf("quantity: %d → %d", old.Quantity, merged.Quantity))
	}

	return &merged, changes, nil
}

func sizesChanged(a, b map[string]int) bool {
	if len(a) != len(b) {
		return true
	}

	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return true
		}
	}

	return false
}

// formatSizes renders a size map in stable key order.
func formatSizes(sizes map[string]int) string {
	if len(sizes) == 0 {
		return "none"
	}

	keys := make([]string, 0, len(sizes))
	for k := range sizes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, sizes[k]))
	}

	return strings.Join(parts, " ")
}

// initialStateDetail renders an item snapshot for CREATE and DELETE details.
func initialStateDetail(item *models.Item) string {
	parts := []string{
		"name: " + item.Name,
		fmt.Sprintf("quantity: %d", item.Quantity),
	}

	if item.HasSizes() {
		parts = append(parts, "sizes: "+formatSizes(item.Sizes))
	}
	if item.Location != "" {
		parts = append(parts, "location: "+item.Location)
	}
	if item.ImageRef != "" {
		parts = append(parts, "image: "+item.ImageRef)
	}
	if item.URL != "" {
		parts = append(parts, "url: "+item.URL)
	}

	return strings.Join(parts, ", ")
}
