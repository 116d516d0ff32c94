package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/stocktrail/stocktrail/internal/models"
)

// AuditStore provides data access for the inventory_log table. Rows are
// append-only: nothing here updates or deletes individual entries, and
// the only destructive operation is the administrative Clear, which
// itself leaves a system event behind.
type AuditStore struct {
	Base
}

// NewAuditStore creates an AuditStore.
func NewAuditStore(base Base) *AuditStore {
	return &AuditStore{Base: base}
}

// appendTransaction inserts one audit log row within the caller's
// transaction and fills in the assigned ID and timestamp. Package-level
// so ItemStore can append inside its own mutation transactions.
func appendTransaction(ctx context.Context, tx pgx.Tx, t *models.Transaction) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO inventory_log (actor, item_id, item_name, kind, delta, size, detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		t.Actor, t.ItemID, t.ItemName, t.Kind, t.Delta, t.Size, t.Detail,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("appending audit transaction: %w", err)
	}

	return nil
}

// Append records a standalone transaction (system events; item mutations
// go through ItemStore so they share the mutating transaction).
func (s *AuditStore) Append(ctx context.Context, t *models.Transaction) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx)
	if err != nil {
		return err
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on early return.

	if err := appendTransaction(ctx, tx, t); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// buildTransactionFilter builds a WHERE clause and args from a filter.
func buildTransactionFilter(f models.TransactionFilter) (where string, args []any, nextArg int) {
	var conditions []string
	argIdx := 1

	if f.ItemID != "" {
		conditions = append(conditions, "item_id = $"+strconv.Itoa(argIdx))
		args = append(args, f.ItemID)
		argIdx++
	}
	if f.Actor != "" {
		conditions = append(conditions, "actor = $"+strconv.Itoa(argIdx))
		args = append(args, f.Actor)
		argIdx++
	}
	if f.Kind != "" {
		conditions = append(conditions, "kind = $"+strconv.Itoa(argIdx))
		args = append(args, string(f.Kind))
		argIdx++
	}
	if f.From != nil {
		conditions = append(conditions, "created_at >= $"+strconv.Itoa(argIdx))
		args = append(args, *f.From)
		argIdx++
	}
	if f.To != nil {
		conditions = append(conditions, "created_at <= $"+strconv.Itoa(argIdx))
		args = append(args, *f.To)
		argIdx++
	}

	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	return where, args, argIdx
}

// QueryTransactions returns audit entries matching the filter, ordered
// by timestamp then id ascending. The query restarts from scratch every
// call, so callers can re-run it for the same window and get the same
// prefix. Returns entries, hasMore flag, and any error.
func (s *AuditStore) QueryTransactions(ctx context.Context, f models.TransactionFilter) ([]models.Transaction, bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	where, args, argIdx := buildTransactionFilter(f)

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	query := fmt.Sprintf(
		"SELECT %s FROM inventory_log %s ORDER BY created_at ASC, id ASC LIMIT $%d OFFSET $%d",
		logColumns, where, argIdx, argIdx+1,
	)
	args = append(args, limit+1, f.Offset)

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("querying audit log: %w", err)
	}

	entries, err := collectTransactions(rows)
	if err != nil {
		return nil, false, err
	}

	hasMore := len(entries) > limit
	if hasMore {
		entries = entries[:limit]
	}

	return entries, hasMore, nil
}

// Clear wipes the audit log and records a single SYSTEM event in the
// same transaction attributing the wipe to the acting admin. Returns the
// number of deleted entries.
func (s *AuditStore) Clear(ctx context.Context, actor string) (int, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx)
	if err != nil {
		return 0, err
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on early return.

	tag, err := tx.Exec(ctx, "DELETE FROM inventory_log")
	if err != nil {
		return 0, fmt.Errorf("clearing audit log: %w", err)
	}

	deleted := int(tag.RowsAffected())

	event := &models.Transaction{
		Actor:  actor,
		Kind:   models.TxSystem,
		Detail: fmt.Sprintf("cleared audit log (%d entries)", deleted),
	}
	if err := appendTransaction(ctx, tx, event); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing audit clear: %w", err)
	}

	return deleted, nil
}
