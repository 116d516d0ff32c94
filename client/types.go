package client

import "time"

// Item is an inventory item as returned by the API.
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

// CreateItemRequest is the payload for creating an item.
type CreateItemRequest struct {
	ID       string         `json:"id,omitempty"`
	Name     string         `json:"name"`
	Quantity int            `json:"quantity"`
	Sizes    map[string]int `json:"sizes,omitempty"`
	Location string         `json:"location,omitempty"`
	ImageRef string         `json:"image,omitempty"`
	URL      string         `json:"url,omitempty"`
}

// UpdateItemRequest is the payload for updating an item. Nil fields are
// left unchanged.
type UpdateItemRequest struct {
	ExpectedVersion *int64         `json:"expected_version,omitempty"`
	Name            *string        `json:"name,omitempty"`
	Quantity        *int           `json:"quantity,omitempty"`
	Sizes           map[string]int `json:"sizes,omitempty"`
	Location        *string        `json:"location,omitempty"`
	ImageRef        *string        `json:"image,omitempty"`
	URL             *string        `json:"url,omitempty"`
}

// AdjustQuantityRequest is the payload for an add or deduct adjustment.
type AdjustQuantityRequest struct {
	Amount    int    `json:"amount"`
	Direction string `json:"direction"`
	Size      string `json:"size,omitempty"`
}

// AdjustResult pairs the post-adjustment item with the delta actually
// applied (deductions clamp at zero).
type AdjustResult struct {
	Item    *Item `json:"item"`
	Applied int   `json:"applied"`
}

// Transaction is one audit log entry.
type Transaction struct {
	ID        int64     `json:"id"`
	Actor     string    `json:"actor"`
	ItemID    string    `json:"item_id"`
	ItemName  string    `json:"item_name"`
	Kind      string    `json:"kind"`
	Delta     int       `json:"delta"`
	Size      string    `json:"size,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// LogQueryOptions filters audit log queries.
type LogQueryOptions struct {
	ItemID string
	Actor  string
	Kind   string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// QuantityCount pairs a summed quantity with its transaction count.
type QuantityCount struct {
	Quantity int `json:"quantity"`
	Count    int `json:"count"`
}

// ItemTotal is one entry in a top-items ranking.
type ItemTotal struct {
	ItemID   string `json:"item_id"`
	ItemName string `json:"item_name"`
	Total    int    `json:"total"`
}

// UserActivity aggregates one actor's quantity transactions in a window.
type UserActivity struct {
	Actor        string `json:"actor"`
	Added        int    `json:"added"`
	Deducted     int    `json:"deducted"`
	TotalActions int    `json:"total_actions"`
}

// TopItems holds the ranked item movements for a window.
type TopItems struct {
	MostAdded    []ItemTotal `json:"most_added"`
	MostDeducted []ItemTotal `json:"most_deducted"`
}

// Summary is the windowed aggregate over the audit log.
type Summary struct {
	StartDate     time.Time      `json:"start_date"`
	EndDate       time.Time      `json:"end_date"`
	TotalAdded    QuantityCount  `json:"total_added"`
	TotalDeducted QuantityCount  `json:"total_deducted"`
	NetChange     int            `json:"net_change"`
	TopItems      TopItems       `json:"top_items"`
	UserActivity  []UserActivity `json:"user_activity"`
}

// SummaryOptions selects the aggregation window. Period presets (today,
// this_week, this_month, this_year) take precedence over From/To.
type SummaryOptions struct {
	Period   string
	From     *time.Time
	To       *time.Time
	TopLimit int
}

// HealthResponse is the liveness check payload.
type HealthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Database      string  `json:"database"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}
