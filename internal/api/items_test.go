package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stocktrail/stocktrail/internal/api"
	"github.com/stocktrail/stocktrail/internal/models"
)

func TestItemCreate_Valid(t *testing.T) {
	t.Parallel()

	repo := &mockLedgerRepo{
		createFn: func(_ context.Context, actor string, req models.CreateItemRequest) (*models.Item, error) {
			if actor != testActor {
				t.Errorf("expected actor %q, got %q", testActor, actor)
			}
			return &models.Item{
				ID:        "i1",
				Name:      req.Name,
				Quantity:  req.Quantity,
				Version:   1,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}, nil
		},
	}

	r := newTestRouter()
	h := api.NewItemHandler(repo, testLogger())
	r.POST("/items", h.Create)

	w := doRequest(r, http.MethodPost, "/items", `{"name":"Widget","quantity":5}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var item models.Item
	if err := json.Unmarshal(w.Body.Bytes(), &item); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if item.Name != "Widget" {
		t.Errorf("expected name 'Widget', got %q", item.Name)
	}
}

func TestItemCreate_MissingName(t *testing.T) {
	t.Parallel()

	repo := &mockLedgerRepo{
		createFn: func(_ context.Context, _ string, req models.CreateItemRequest) (*models.Item, error) {
			return nil, req.Validate()
		},
	}

	r := newTestRouter()
	h := api.NewItemHandler(repo, testLogger())
	r.POST("/items", h.Create)

	w := doRequest(r, http.MethodPost, "/items", `{"quantity":5}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestItemCreate_DuplicateName(t *testing.T) {
	t.Parallel()

	repo := &mockLedgerRepo{
		createFn: func(_ context.Context, _ string, _ models.CreateItemRequest) (*models.Item, error) {
			return nil, models.ErrDuplicateName
		},
	}

	r := newTestRouter()
	h := api.NewItemHandler(repo, testLogger())
	r.POST("/items", h.Create)

	w := doRequest(r, http.MethodPost, "/items", `{"name":"Widget"}`)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestItemGet_NotFound(t *testing.T) {
	t.Parallel()

	repo := &mockLedgerRepo{
		getFn: func(_ context.Context, _ string) (*models.Item, error) {
			return nil, models.ErrItemNotFound
		},
	}

	r := newTestRouter()
	h := api.NewItemHandler(repo, testLogger())
	r.GET("/items/:id", h.Get)

	w := doRequest(r, http.MethodGet, "/items/missing", "")

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestItemUpdate_VersionConflict(t *testing.T) {
	t.Parallel()

	repo := &mockLedgerRepo{
		updateFn: func(_ context.Context, _, _ string, _ models.UpdateItemRequest) (*models.Item, error) {
			return nil, models.ErrVersionConflict
		},
	}

	r := newTestRouter()
	h := api.NewItemHandler(repo, testLogger())
	r.PUT("/items/:id", h.Update)

	w := doRequest(r, http.MethodPut, "/items/i1", `{"name":"Renamed","expected_version":3}`)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestItemAdjust_ReportsApplied(t *testing.T) {
	t.Parallel()

	repo := &mockLedgerRepo{
		adjustFn: func(_ context.Context, _, itemID string, req models.AdjustQuantityRequest) (*models.Item, int, error) {
			// Deduct clamped at zero: 3 in stock, 10 requested.
			return &models.Item{ID: itemID, Name: "Widget", Quantity: 0, Version: 2}, 3, nil
		},
	}

	r := newTestRouter()
	h := api.NewItemHandler(repo, testLogger())
	r.POST("/items/:id/adjust", h.Adjust)

	w := doRequest(r, http.MethodPost, "/items/i1/adjust", `{"amount":10,"direction":"deduct"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Item    models.Item `json:"item"`
		Applied int         `json:"applied"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if resp.Applied != 3 {
		t.Errorf("expected applied 3, got %d", resp.Applied)
	}
	if resp.Item.Quantity != 0 {
		t.Errorf("expected quantity 0, got %d", resp.Item.Quantity)
	}
}

func TestItemAdjust_PartialFailure(t *testing.T) {
	t.Parallel()

	repo := &mockLedgerRepo{
		adjustFn: func(_ context.Context, _, itemID string, _ models.AdjustQuantityRequest) (*models.Item, int, error) {
			return nil, 0, &models.PartialFailureError{Op: "adjust", ItemID: itemID, Err: context.DeadlineExceeded}
		},
	}

	r := newTestRouter()
	h := api.NewItemHandler(repo, testLogger())
	r.POST("/items/:id/adjust", h.Adjust)

	w := doRequest(r, http.MethodPost, "/items/i1/adjust", `{"amount":1,"direction":"add"}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if resp.Code != "partial_failure" {
		t.Errorf("expected code 'partial_failure', got %q", resp.Code)
	}
}

func TestItemDelete_OK(t *testing.T) {
	t.Parallel()

	repo := &mockLedgerRepo{
		deleteFn: func(_ context.Context, _, _ string) error {
			return nil
		},
	}

	r := newTestRouter()
	h := api.NewItemHandler(repo, testLogger())
	r.DELETE("/items/:id", h.Delete)

	w := doRequest(r, http.MethodDelete, "/items/i1", "")

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
	}
}

func TestItemList_Empty(t *testing.T) {
	t.Parallel()

	repo := &mockLedgerRepo{
		listFn: func(_ context.Context, _ string, _, _ int) ([]models.Item, bool, error) {
			return nil, false, nil
		},
	}

	r := newTestRouter()
	h := api.NewItemHandler(repo, testLogger())
	r.GET("/items", h.List)

	w := doRequest(r, http.MethodGet, "/items", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Items []models.Item `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if resp.Items == nil {
		t.Error("expected empty array, got null")
	}
}

func TestItemCreateBatch_Empty(t *testing.T) {
	t.Parallel()

	r := newTestRouter()
	h := api.NewItemHandler(&mockLedgerRepo{}, testLogger())
	r.POST("/items/batch", h.CreateBatch)

	w := doRequest(r, http.MethodPost, "/items/batch", `{"items":[]}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}
