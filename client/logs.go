package client

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

// LogService handles audit log queries and maintenance.
type LogService struct {
	c *Client
}

// logQueryResponse wraps the paginated log query response.
type logQueryResponse struct {
	Data    []Transaction `json:"data"`
	HasMore bool          `json:"has_more"`
}

// Query returns audit entries matching the options, oldest first.
func (s *LogService) Query(ctx context.Context, opts *LogQueryOptions) ([]Transaction, bool, error) {
	params := url.Values{}
	if opts != nil {
		if opts.ItemID != "" {
			params.Set("item_id", opts.ItemID)
		}
		if opts.Actor != "" {
			params.Set("actor", opts.Actor)
		}
		if opts.Kind != "" {
			params.Set("kind", opts.Kind)
		}
		if opts.From != nil {
			params.Set("from", opts.From.Format(time.RFC3339))
		}
		if opts.To != nil {
			params.Set("to", opts.To.Format(time.RFC3339))
		}
		if opts.Limit > 0 {
			params.Set("limit", strconv.Itoa(opts.Limit))
		}
		if opts.Offset > 0 {
			params.Set("offset", strconv.Itoa(opts.Offset))
		}
	}
	var resp logQueryResponse
	if err := s.c.get(ctx, "/api/v1/logs", params, &resp); err != nil {
		return nil, false, err
	}
	return resp.Data, resp.HasMore, nil
}

// Clear wipes the audit log and returns the number of deleted entries.
// The server records the wipe as a SYSTEM event.
func (s *LogService) Clear(ctx context.Context) (int, error) {
	var resp struct {
		Deleted int `json:"deleted"`
	}
	if err := s.c.del(ctx, "/api/v1/logs", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Deleted, nil
}
