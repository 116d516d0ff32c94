package models

import "time"

// QuantityCount pairs a summed quantity with the number of transactions
// that produced it.
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

// Summary is the windowed aggregate over the audit log. All sums are
// exact integers; an empty window yields zero values, not an error.
type Summary struct {
	StartDate     time.Time      `json:"start_date"`
	EndDate       time.Time      `json:"end_date"`
	TotalAdded    QuantityCount  `json:"total_added"`
	TotalDeducted QuantityCount  `json:"total_deducted"`
	NetChange     int            `json:"net_change"`
	TopItems      TopItems       `json:"top_items"`
	UserActivity  []UserActivity `json:"user_activity"`
}

// Period is a named preset resolving to a closed time window.
type Period string

// Summary period presets.
const (
	PeriodToday    Period = "today"
	PeriodThisWeek Period = "this_week"
	PeriodMonth    Period = "this_month"
	PeriodThisYear Period = "this_year"
	PeriodCustom   Period = "custom"
)

// Window resolves the period relative to now. Weeks start on Monday.
// PeriodCustom has no implicit bounds and reports ok=false.
func (p Period) Window(now time.Time) (from, to time.Time, ok bool) {
	to = now

	switch p {
	case PeriodToday:
		from = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case PeriodThisWeek:
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		from = midnight.AddDate(0, 0, -(weekday - 1))
	case PeriodMonth:
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case PeriodThisYear:
		from = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	default:
		return time.Time{}, time.Time{}, false
	}

	return from, to, true
}
