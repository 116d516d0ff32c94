package store

import (
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/stocktrail/stocktrail/internal/models"
)

// itemColumns is the canonical column list for item queries.
const itemColumns = "id, name, quantity, sizes, location, image_ref, url, version, created_at, updated_at"

// logColumns is the canonical column list for audit log queries.
const logColumns = "id, actor, item_id, item_name, kind, delta, size, detail, created_at"

// scanItem scans one item row using the itemColumns order.
func scanItem(scan func(dest ...any) error) (*models.Item, error) {
	var (
		item      models.Item
		sizesJSON []byte
	)

	err := scan(
		&item.ID, &item.Name, &item.Quantity, &sizesJSON,
		&item.Location, &item.ImageRef, &item.URL,
		&item.Version, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if sizesJSON != nil {
		if err := json.Unmarshal(sizesJSON, &item.Sizes); err != nil {
			return nil, fmt.Errorf("unmarshaling item sizes: %w", err)
		}
	}

	return &item, nil
}

// scanTransaction scans one audit log row using the logColumns order.
func scanTransaction(scan func(dest ...any) error) (models.Transaction, error) {
	var t models.Transaction

	err := scan(
		&t.ID, &t.Actor, &t.ItemID, &t.ItemName,
		&t.Kind, &t.Delta, &t.Size, &t.Detail, &t.CreatedAt,
	)
	if err != nil {
		return models.Transaction{}, err
	}

	return t, nil
}

// collectItems scans all rows into a slice of items.
func collectItems(rows pgx.Rows) ([]models.Item, error) {
	defer rows.Close()

	var items []models.Item

	for rows.Next() {
		item, err := scanItem(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning item row: %w", err)
		}

		items = append(items, *item)
	}

	return items, rows.Err()
}

// collectTransactions scans all rows into a slice of transactions.
func collectTransactions(rows pgx.Rows) ([]models.Transaction, error) {
	defer rows.Close()

	var entries []models.Transaction

	for rows.Next() {
		t, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction row: %w", err)
		}

		entries = append(entries, t)
	}

	return entries, rows.Err()
}

// marshalSizes encodes a size map for storage; nil maps stay NULL.
func marshalSizes(sizes map[string]int) ([]byte, error) {
	if sizes == nil {
		return nil, nil
	}

	data, err := json.Marshal(sizes)
	if err != nil {
		return nil, fmt.Errorf("marshaling item sizes: %w", err)
	}

	return data, nil
}
