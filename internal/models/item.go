// Package models defines data types for the inventory ledger.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Item represents one inventory SKU with its current quantity.
// When Sizes is non-empty the item is size-tracked: Quantity is always
// the sum of the per-size quantities.
type Item struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Quantity  int            `json:"quantity"`
	Sizes     map[string]int `json:"sizes,omitempty"`
	Location  string         `json:"location,omitempty"`
	ImageRef  string         `json:"image,omitempty"`
	URL       string         `json:"url,omitempty"`
	Version   int64          `json:"version"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// HasSizes reports whether the item tracks per-size quantities.
func (i *Item) HasSizes() bool { return len(i.Sizes) > 0 }

// sizeSum returns the total across a size map.
func sizeSum(sizes map[string]int) int {
	total := 0
	for _, q := range sizes {
		total += q
	}

	return total
}

// CreateItemRequest is the payload for creating a new item.
type CreateItemRequest struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Quantity int            `json:"quantity"`
	Sizes    map[string]int `json:"sizes,omitempty"`
	Location string         `json:"location,omitempty"`
	ImageRef string         `json:"image,omitempty"`
	URL      string         `json:"url,omitempty"`
}

// Validate checks required fields and quantity consistency.
// If ID is empty, a UUID is auto-generated. For size-tracked items the
// total quantity is derived from the size map; a non-zero Quantity that
// disagrees with the size sum is rejected.
func (r *CreateItemRequest) Validate() error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}

	if len(r.ID) > 255 {
		return ErrFieldTooLong("id", 255)
	}

	if r.Name == "" {
		return ErrMissingName
	}

	if len(r.Name) > 255 {
		return ErrFieldTooLong("name", 255)
	}

	if r.Quantity < 0 {
		return ErrNegativeQuantity
	}

	if len(r.Sizes) > 0 {
		for size, q := range r.Sizes {
			if size == "" {
				return ErrEmptySizeName
			}
			if q < 0 {
				return ErrNegativeQuantity
			}
		}

		sum := sizeSum(r.Sizes)
		if r.Quantity != 0 && r.Quantity != sum {
			return ErrSizeTotalMismatch
		}
		r.Quantity = sum
	}

	return nil
}

// UpdateItemRequest is the payload for a partial item update. Nil fields
// are left untouched; updating Sizes recomputes the total quantity.
type UpdateItemRequest struct {
	// ExpectedVersion, when set, makes the update conditional: if the
	// stored version differs the update fails with ErrVersionConflict
	// and the caller should re-read, recompute, and resubmit.
	ExpectedVersion *int64 `json:"expected_version,omitempty"`

	Name     *string        `json:"name,omitempty"`
	Quantity *int           `json:"quantity,omitempty"`
	Sizes    map[string]int `json:"sizes,omitempty"`
	Location *string        `json:"location,omitempty"`
	ImageRef *string        `json:"image,omitempty"`
	URL      *string        `json:"url,omitempty"`
}

// Validate checks UpdateItemRequest fields.
func (r *UpdateItemRequest) Validate() error {
	if r.Name != nil {
		if *r.Name == "" {
			return ErrMissingName
		}
		if len(*r.Name) > 255 {
			return ErrFieldTooLong("name", 255)
		}
	}

	if r.Quantity != nil && *r.Quantity < 0 {
		return ErrNegativeQuantity
	}

	if r.Sizes != nil {
		for size, q := range r.Sizes {
			if size == "" {
				return ErrEmptySizeName
			}
			if q < 0 {
				return ErrNegativeQuantity
			}
		}

		if r.Quantity != nil && *r.Quantity != sizeSum(r.Sizes) {
			return ErrSizeTotalMismatch
		}
	}

	return nil
}

// IsEmpty reports whether the request contains no fields to change.
func (r *UpdateItemRequest) IsEmpty() bool {
	return r.Name == nil && r.Quantity == nil && r.Sizes == nil &&
		r.Location == nil && r.ImageRef == nil && r.URL == nil
}

// AdjustDirection selects whether a quantity adjustment adds or deducts stock.
type AdjustDirection string

// Adjustment directions.
const (
	DirectionAdd    AdjustDirection = "add"
	DirectionDeduct AdjustDirection = "deduct"
)

// AdjustQuantityRequest is the payload for a stock adjustment.
// Size targets one variant of a size-tracked item and must be empty for
// items without sizes.
type AdjustQuantityRequest struct {
	Amount    int             `json:"amount"`
	Direction AdjustDirection `json:"direction"`
	Size      string          `json:"size,omitempty"`
}

// Validate checks that the amount is positive and the direction is known.
func (r *AdjustQuantityRequest) Validate() error {
	if r.Amount <= 0 {
		return ErrNonPositiveAmount
	}

	switch r.Direction {
	case DirectionAdd, DirectionDeduct:
		return nil
	default:
		return ErrUnknownDirection
	}
}
