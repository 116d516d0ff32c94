package client

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

// SummaryService handles windowed aggregation queries.
type SummaryService struct {
	c *Client
}

func (o *SummaryOptions) values() url.Values {
	params := url.Values{}
	if o == nil {
		return params
	}
	if o.Period != "" {
		params.Set("period", o.Period)
	}
	if o.From != nil {
		params.Set("from", o.From.Format(time.RFC3339))
	}
	if o.To != nil {
		params.Set("to", o.To.Format(time.RFC3339))
	}
	if o.TopLimit > 0 {
		params.Set("top", strconv.Itoa(o.TopLimit))
	}
	return params
}

// Get returns the aggregate summary for the selected window.
func (s *SummaryService) Get(ctx context.Context, opts *SummaryOptions) (*Summary, error) {
	var resp Summary
	if err := s.c.get(ctx, "/api/v1/summary", opts.values(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// drillDownResponse wraps the windowed transaction listing.
type drillDownResponse struct {
	StartDate time.Time     `json:"start_date"`
	EndDate   time.Time     `json:"end_date"`
	Data      []Transaction `json:"data"`
	HasMore   bool          `json:"has_more"`
}

// DrillDown returns the transactions behind a ranking entry. Exactly one
// of itemID or actor should be set.
func (s *SummaryService) DrillDown(ctx context.Context, opts *SummaryOptions, itemID, actor string, limit, offset int) ([]Transaction, bool, error) {
	params := opts.values()
	if itemID != "" {
		params.Set("item_id", itemID)
	}
	if actor != "" {
		params.Set("actor", actor)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		params.Set("offset", strconv.Itoa(offset))
	}
	var resp drillDownResponse
	if err := s.c.get(ctx, "/api/v1/summary/transactions", params, &resp); err != nil {
		return nil, false, err
	}
	return resp.Data, resp.HasMore, nil
}
