package client

import (
	"context"
	"net/url"
	"strconv"
)

// ItemService handles item CRUD and quantity adjustments.
type ItemService struct {
	c *Client
}

// itemListResponse wraps the paginated item list response.
type itemListResponse struct {
	Items   []Item `json:"items"`
	HasMore bool   `json:"has_more"`
}

// List returns items with optional name filtering and pagination.
func (s *ItemService) List(ctx context.Context, nameFilter string, limit, offset int) ([]Item, bool, error) {
	params := url.Values{}
	if nameFilter != "" {
		params.Set("name", nameFilter)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		params.Set("offset", strconv.Itoa(offset))
	}
	var resp itemListResponse
	if err := s.c.get(ctx, "/api/v1/items", params, &resp); err != nil {
		return nil, false, err
	}
	return resp.Items, resp.HasMore, nil
}

// Get returns a single item by ID.
func (s *ItemService) Get(ctx context.Context, id string) (*Item, error) {
	var item Item
	if err := s.c.get(ctx, "/api/v1/items/"+url.PathEscape(id), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create creates a new item.
func (s *ItemService) Create(ctx context.Context, req *CreateItemRequest) (*Item, error) {
	var item Item
	if err := s.c.post(ctx, "/api/v1/items", req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateBatch creates several items in one call. The batch is all-or-nothing.
func (s *ItemService) CreateBatch(ctx context.Context, reqs []CreateItemRequest) ([]Item, error) {
	body := map[string]any{"items": reqs}
	var resp itemListResponse
	if err := s.c.post(ctx, "/api/v1/items/batch", body, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// Update updates an existing item by ID.
func (s *ItemService) Update(ctx context.Context, id string, req *UpdateItemRequest) (*Item, error) {
	var item Item
	if err := s.c.put(ctx, "/api/v1/items/"+url.PathEscape(id), req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Adjust applies a quantity add or deduct to an item. The returned
// AdjustResult reports the delta actually applied, which may be smaller
// than requested when a deduction clamps at zero.
func (s *ItemService) Adjust(ctx context.Context, id string, req *AdjustQuantityRequest) (*AdjustResult, error) {
	var resp AdjustResult
	if err := s.c.post(ctx, "/api/v1/items/"+url.PathEscape(id)+"/adjust", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete removes an item by ID.
func (s *ItemService) Delete(ctx context.Context, id string) error {
	return s.c.del(ctx, "/api/v1/items/"+url.PathEscape(id), nil, nil)
}
