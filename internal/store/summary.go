package store

import (
	"context"
	"fmt"
	"time"

	"github.com/stocktrail/stocktrail/internal/models"
)

// SummaryStore answers windowed aggregate queries over the audit log.
// It only ever reads inventory_log (plus item names captured on the log
// rows themselves), never item state, so deleted items still rank.
type SummaryStore struct {
	Base
}

// NewSummaryStore creates a SummaryStore.
func NewSummaryStore(base Base) *SummaryStore {
	return &SummaryStore{Base: base}
}

// Totals returns the added and deducted sums plus transaction counts for
// the closed window [from, to]. An empty window yields zeros.
func (s *SummaryStore) Totals(ctx context.Context, from, to time.Time) (added, deducted models.QuantityCount, err error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	err = s.Pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(delta) FILTER (WHERE kind = $1), 0),
			COUNT(*) FILTER (WHERE kind = $1),
			COALESCE(SUM(-delta) FILTER (WHERE kind = $2), 0),
			COUNT(*) FILTER (WHERE kind = $2)
		FROM inventory_log
		WHERE created_at >= $3 AND created_at <= $4`,
		string(models.TxQuantityAdd), string(models.TxQuantityDeduct), from, to,
	).Scan(&added.Quantity, &added.Count, &deducted.Quantity, &deducted.Count)
	if err != nil {
		return models.QuantityCount{}, models.QuantityCount{}, fmt.Errorf("querying window totals: %w", err)
	}

	return added, deducted, nil
}

// TopItems ranks items by total moved quantity for the given direction
// within [from, to], descending, ties broken by earliest transaction id
// so the ordering is deterministic. Grouping is by item id alone: a
// rename inside the window must not split an item's total across two
// ranking rows. The latest row's name is used for display.
func (s *SummaryStore) TopItems(ctx context.Context, from, to time.Time, direction models.AdjustDirection, limit int) ([]models.ItemTotal, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if limit <= 0 {
		limit = 10
	}

	rows, err := s.Pool.Query(ctx, `
		SELECT
			item_id,
			(array_agg(item_name ORDER BY id DESC))[1] AS item_name,
			SUM(ABS(delta))::int AS total
		FROM inventory_log
		WHERE kind = $1 AND created_at >= $2 AND created_at <= $3
		GROUP BY item_id
		ORDER BY total DESC, MIN(id) ASC
		LIMIT $4`,
		string(models.KindForDirection(direction)), from, to, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying top items: %w", err)
	}
	defer rows.Close()

	var totals []models.ItemTotal

	for rows.Next() {
		var t models.ItemTotal
		if err := rows.Scan(&t.ItemID, &t.ItemName, &t.Total); err != nil {
			return nil, fmt.Errorf("scanning item total: %w", err)
		}

		totals = append(totals, t)
	}

	return totals, rows.Err()
}

// UserActivity groups quantity transactions within [from, to] by actor.
// Ordered by total actions descending, then actor for determinism.
func (s *SummaryStore) UserActivity(ctx context.Context, from, to time.Time) ([]models.UserActivity, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.Pool.Query(ctx, `
		SELECT
			actor,
			COALESCE(SUM(delta) FILTER (WHERE kind = $1), 0)::int,
			COALESCE(SUM(-delta) FILTER (WHERE kind = $2), 0)::int,
			COUNT(*)::int
		FROM inventory_log
		WHERE kind IN ($1, $2) AND created_at >= $3 AND created_at <= $4
		GROUP BY actor
		ORDER BY COUNT(*) DESC, actor ASC`,
		string(models.TxQuantityAdd), string(models.TxQuantityDeduct), from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("querying user activity: %w", err)
	}
	defer rows.Close()

	var activity []models.UserActivity

	for rows.Next() {
		var a models.UserActivity
		if err := rows.Scan(&a.Actor, &a.Added, &a.Deducted, &a.TotalActions); err != nil {
			return nil, fmt.Errorf("scanning user activity: %w", err)
		}

		activity = append(activity, a)
	}

	return activity, rows.Err()
}
