package store_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stocktrail/stocktrail/internal/dbpool"
	"github.com/stocktrail/stocktrail/internal/models"
	"github.com/stocktrail/stocktrail/internal/store"
)

// testEnv holds shared test infrastructure (single pool across all tests).
type testEnv struct {
	pool *dbpool.Pool
	log  *logrus.Logger
}

var sharedEnv *testEnv

func getTestEnv(t *testing.T) *testEnv {
	t.Helper()

	if sharedEnv != nil {
		return sharedEnv
	}

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	pool, err := dbpool.NewPool(context.Background(), dbURL)
	if err != nil {
		t.Fatalf("connecting to test DB: %v", err)
	}

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	sharedEnv = &testEnv{pool: pool, log: log}

	return sharedEnv
}

func setupTestBase(t *testing.T) store.Base {
	t.Helper()

	env := getTestEnv(t)

	return store.Base{Pool: env.pool, Log: env.log}
}

// uniqueName avoids collisions with the app-level duplicate name check.
func uniqueName(prefix string) string {
	return prefix + "-" + uuid.New().String()[:8]
}

func createTestItem(t *testing.T, items *store.ItemStore, quantity int) *models.Item {
	t.Helper()

	req := models.CreateItemRequest{Name: uniqueName("item"), Quantity: quantity}
	if err := req.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	item, err := items.CreateItem(context.Background(), "tester@example.com", req)
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	t.Cleanup(func() {
		_ = items.DeleteItem(context.Background(), "tester@example.com", item.ID)
	})

	return item
}

func TestItemStore_CreateRecordsTransaction(t *testing.T) {
	base := setupTestBase(t)
	items := store.NewItemStore(base)
	audit := store.NewAuditStore(base)

	item := createTestItem(t, items, 7)

	entries, _, err := audit.QueryTransactions(context.Background(), models.TransactionFilter{
		ItemID: item.ID,
		Kind:   models.TxCreate,
		Limit:  10,
	})
	if err != nil {
		t.Fatalf("query: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("expected 1 CREATE transaction, got %d", len(entries))
	}
	if entries[0].Delta != 7 {
		t.Errorf("delta = %d, want 7", entries[0].Delta)
	}
	if entries[0].Actor != "tester@example.com" {
		t.Errorf("actor = %q", entries[0].Actor)
	}
}

func TestItemStore_DuplicateName(t *testing.T) {
	base := setupTestBase(t)
	items := store.NewItemStore(base)

	item := createTestItem(t, items, 1)

	req := models.CreateItemRequest{Name: item.Name}
	if err := req.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	_, err := items.CreateItem(context.Background(), "tester@example.com", req)
	if !errors.Is(err, models.ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
}

func TestItemStore_AdjustDeductClampsAtZero(t *testing.T) {
	base := setupTestBase(t)
	items := store.NewItemStore(base)
	audit := store.NewAuditStore(base)

	item := createTestItem(t, items, 3)

	adjusted, applied, err := items.AdjustQuantity(context.Background(), "tester@example.com", item.ID, models.AdjustQuantityRequest{
		Amount:    10,
		Direction: models.DirectionDeduct,
	})
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if adjusted.Quantity != 0 {
		t.Errorf("quantity = %d, want 0", adjusted.Quantity)
	}
	if applied != 3 {
		t.Errorf("applied = %d, want 3", applied)
	}

	entries, _, err := audit.QueryTransactions(context.Background(), models.TransactionFilter{
		ItemID: item.ID,
		Kind:   models.TxQuantityDeduct,
		Limit:  10,
	})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 deduct transaction, got %d", len(entries))
	}
	if entries[0].Delta != -3 {
		t.Errorf("delta = %d, want -3 (applied, not requested)", entries[0].Delta)
	}
}

func TestItemStore_UpdateVersionConflict(t *testing.T) {
	base := setupTestBase(t)
	items := store.NewItemStore(base)

	item := createTestItem(t, items, 1)

	stale := item.Version + 5
	name := uniqueName("renamed")
	_, err := items.UpdateItem(context.Background(), "tester@example.com", item.ID, models.UpdateItemRequest{
		ExpectedVersion: &stale,
		Name:            &name,
	})
	if !errors.Is(err, models.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
}

func TestItemStore_NoOpUpdateLogsNothing(t *testing.T) {
	base := setupTestBase(t)
	items := store.NewItemStore(base)
	audit := store.NewAuditStore(base)

	item := createTestItem(t, items, 2)

	same := item.Name
	updated, err := items.UpdateItem(context.Background(), "tester@example.com", item.ID, models.UpdateItemRequest{
		Name: &same,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Version != item.Version {
		t.Errorf("no-op update bumped version %d -> %d", item.Version, updated.Version)
	}

	entries, _, err := audit.QueryTransactions(context.Background(), models.TransactionFilter{
		ItemID: item.ID,
		Kind:   models.TxUpdate,
		Limit:  10,
	})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no UPDATE transactions, got %d", len(entries))
	}
}

func TestItemStore_RenameToExistingName(t *testing.T) {
	base := setupTestBase(t)
	items := store.NewItemStore(base)

	a := createTestItem(t, items, 1)
	b := createTestItem(t, items, 1)

	// No application-level pre-check on rename; the unique index on
	// lower(name) is what rejects the collision.
	taken := a.Name
	_, err := items.UpdateItem(context.Background(), "tester@example.com", b.ID, models.UpdateItemRequest{
		Name: &taken,
	})
	if !errors.Is(err, models.ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
}

func TestItemStore_DeleteKeepsTransactions(t *testing.T) {
	base := setupTestBase(t)
	items := store.NewItemStore(base)
	audit := store.NewAuditStore(base)

	item := createTestItem(t, items, 4)

	if err := items.DeleteItem(context.Background(), "tester@example.com", item.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := items.GetItem(context.Background(), item.ID); !errors.Is(err, models.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}

	entries, _, err := audit.QueryTransactions(context.Background(), models.TransactionFilter{
		ItemID: item.ID,
		Limit:  10,
	})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected create + delete transactions, got %d", len(entries))
	}
}

func TestAuditStore_QueryOrderedOldestFirst(t *testing.T) {
	base := setupTestBase(t)
	items := store.NewItemStore(base)
	audit := store.NewAuditStore(base)

	item := createTestItem(t, items, 0)

	for i := 0; i < 3; i++ {
		if _, _, err := items.AdjustQuantity(context.Background(), "tester@example.com", item.ID, models.AdjustQuantityRequest{
			Amount:    1,
			Direction: models.DirectionAdd,
		}); err != nil {
			t.Fatalf("adjust %d: %v", i, err)
		}
	}

	entries, _, err := audit.QueryTransactions(context.Background(), models.TransactionFilter{
		ItemID: item.ID,
		Limit:  10,
	})
	if err != nil {
		t.Fatalf("query: %v", err)
	}

	for i := 1; i < len(entries); i++ {
		if entries[i].ID < entries[i-1].ID {
			t.Errorf("entries out of order at %d: %d < %d", i, entries[i].ID, entries[i-1].ID)
		}
	}
}

func TestSummaryStore_Totals(t *testing.T) {
	base := setupTestBase(t)
	items := store.NewItemStore(base)
	summary := store.NewSummaryStore(base)

	item := createTestItem(t, items, 0)

	from := time.Now().Add(-time.Minute)

	if _, _, err := items.AdjustQuantity(context.Background(), "tester@example.com", item.ID, models.AdjustQuantityRequest{
		Amount:    5,
		Direction: models.DirectionAdd,
	}); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if _, _, err := items.AdjustQuantity(context.Background(), "tester@example.com", item.ID, models.AdjustQuantityRequest{
		Amount:    2,
		Direction: models.DirectionDeduct,
	}); err != nil {
		t.Fatalf("adjust: %v", err)
	}

	to := time.Now().Add(time.Minute)

	added, deducted, err := summary.Totals(context.Background(), from, to)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}

	// Other test rows may fall in the window; our contribution sets a floor.
	if added.Quantity < 5 {
		t.Errorf("added quantity = %d, want >= 5", added.Quantity)
	}
	if deducted.Quantity < 2 {
		t.Errorf("deducted quantity = %d, want >= 2", deducted.Quantity)
	}
}

func TestSummaryStore_TopItemsGroupsAcrossRename(t *testing.T) {
	base := setupTestBase(t)
	items := store.NewItemStore(base)
	summary := store.NewSummaryStore(base)

	item := createTestItem(t, items, 0)

	from := time.Now().Add(-time.Minute)

	if _, _, err := items.AdjustQuantity(context.Background(), "tester@example.com", item.ID, models.AdjustQuantityRequest{
		Amount:    5,
		Direction: models.DirectionAdd,
	}); err != nil {
		t.Fatalf("adjust: %v", err)
	}

	renamed := uniqueName("renamed")
	if _, err := items.UpdateItem(context.Background(), "tester@example.com", item.ID, models.UpdateItemRequest{
		Name: &renamed,
	}); err != nil {
		t.Fatalf("rename: %v", err)
	}

	if _, _, err := items.AdjustQuantity(context.Background(), "tester@example.com", item.ID, models.AdjustQuantityRequest{
		Amount:    5,
		Direction: models.DirectionAdd,
	}); err != nil {
		t.Fatalf("adjust: %v", err)
	}

	to := time.Now().Add(time.Minute)

	totals, err := summary.TopItems(context.Background(), from, to, models.DirectionAdd, 1000)
	if err != nil {
		t.Fatalf("top items: %v", err)
	}

	var mine []models.ItemTotal
	for _, tot := range totals {
		if tot.ItemID == item.ID {
			mine = append(mine, tot)
		}
	}

	// A rename inside the window must not split the item's total.
	if len(mine) != 1 {
		t.Fatalf("expected 1 ranking entry for the item, got %d", len(mine))
	}
	if mine[0].Total != 10 {
		t.Errorf("total = %d, want 10", mine[0].Total)
	}
	if mine[0].ItemName != renamed {
		t.Errorf("item name = %q, want the latest name %q", mine[0].ItemName, renamed)
	}
}
