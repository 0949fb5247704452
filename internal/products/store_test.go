package products

import (
	"context"
	"errors"
	"testing"

	"github.com/damilolajohn6/qwik-trendora-backend/internal/awsx/awstest"
)

const testTable = "products-test"

func newTestStore(t *testing.T) (*Store, *awstest.Dynamo) {
	t.Helper()
	db := awstest.NewDynamo()
	db.AddTable(testTable, "sku")
	return NewStore(db, testTable), db
}

func TestCreateComputesDiscountedPrice(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	err := store.Create(ctx, Product{
		SKU:      "sku-1",
		Name:     "widget",
		Price:    100,
		Discount: 25,
		Category: CategoryElectronics,
		Stock:    5,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	p, err := store.Get(ctx, "sku-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.DiscountedPrice != 75 {
		t.Fatalf("expected discounted price 75, got %v", p.DiscountedPrice)
	}
}

func TestCreateDuplicateSKU(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	p := Product{SKU: "sku-1", Name: "widget", Price: 10, Category: CategoryOther}
	if err := store.Create(ctx, p); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if err := store.Create(ctx, p); !errors.Is(err, ErrDuplicateSKU) {
		t.Fatalf("expected ErrDuplicateSKU, got %v", err)
	}
}

func TestPublishedDateSetOnceOnFirstPublish(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Create(ctx, Product{SKU: "sku-1", Name: "widget", Price: 10, Category: CategoryOther}); err != nil {
		t.Fatalf("create: %v", err)
	}
	p, _ := store.Get(ctx, "sku-1")
	if p.PublishedDate != nil {
		t.Fatal("unpublished product must have no published date")
	}

	p.Published = true
	if err := store.Save(ctx, *p); err != nil {
		t.Fatalf("save: %v", err)
	}
	published, _ := store.Get(ctx, "sku-1")
	if published.PublishedDate == nil {
		t.Fatal("expected published date after first publish")
	}
	first := *published.PublishedDate

	if err := store.Save(ctx, *published); err != nil {
		t.Fatalf("second save: %v", err)
	}
	again, _ := store.Get(ctx, "sku-1")
	if again.PublishedDate == nil || !again.PublishedDate.Equal(first) {
		t.Fatalf("published date must not move on re-save: %v != %v", again.PublishedDate, first)
	}
}

func TestAddReviewAggregatesRatings(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	if err := store.Create(ctx, Product{SKU: "sku-1", Name: "widget", Price: 10, Category: CategoryOther}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := store.AddReview(ctx, "sku-1", Review{CustomerEmail: "a@example.com", CustomerName: "A", Rating: 5}); err != nil {
		t.Fatalf("first review: %v", err)
	}
	p, err := store.AddReview(ctx, "sku-1", Review{CustomerEmail: "b@example.com", CustomerName: "B", Rating: 3})
	if err != nil {
		t.Fatalf("second review: %v", err)
	}

	if p.Ratings.Count != 2 {
		t.Fatalf("expected rating count 2, got %d", p.Ratings.Count)
	}
	if p.Ratings.Average != 4 {
		t.Fatalf("expected rating average 4, got %v", p.Ratings.Average)
	}
}

func TestAddReviewRejectsSecondReviewFromSameCustomer(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	if err := store.Create(ctx, Product{SKU: "sku-1", Name: "widget", Price: 10, Category: CategoryOther}); err != nil {
		t.Fatalf("create: %v", err)
	}

	review := Review{CustomerEmail: "a@example.com", Rating: 5}
	if _, err := store.AddReview(ctx, "sku-1", review); err != nil {
		t.Fatalf("first review: %v", err)
	}
	if _, err := store.AddReview(ctx, "sku-1", review); !errors.Is(err, ErrAlreadyReviewed) {
		t.Fatalf("expected ErrAlreadyReviewed, got %v", err)
	}

	p, _ := store.Get(ctx, "sku-1")
	if len(p.Reviews) != 1 {
		t.Fatalf("expected 1 review, got %d", len(p.Reviews))
	}
}

func TestRekeyMovesProduct(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()
	if err := store.Create(ctx, Product{SKU: "old-sku", Name: "widget", Price: 10, Category: CategoryOther}); err != nil {
		t.Fatalf("create: %v", err)
	}

	p, _ := store.Get(ctx, "old-sku")
	p.SKU = "new-sku"
	if err := store.Rekey(ctx, "old-sku", *p); err != nil {
		t.Fatalf("rekey: %v", err)
	}

	if moved, _ := store.Get(ctx, "new-sku"); moved == nil {
		t.Fatal("product missing under new sku")
	}
	if stale, _ := store.Get(ctx, "old-sku"); stale != nil {
		t.Fatal("product still present under old sku")
	}
	if db.Count(testTable) != 1 {
		t.Fatalf("expected 1 item, got %d", db.Count(testTable))
	}
}

func TestRekeyRejectsOccupiedSKU(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	if err := store.Create(ctx, Product{SKU: "sku-1", Name: "one", Price: 10, Category: CategoryOther}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Create(ctx, Product{SKU: "sku-2", Name: "two", Price: 10, Category: CategoryOther}); err != nil {
		t.Fatalf("create: %v", err)
	}

	p, _ := store.Get(ctx, "sku-1")
	p.SKU = "sku-2"
	if err := store.Rekey(ctx, "sku-1", *p); !errors.Is(err, ErrDuplicateSKU) {
		t.Fatalf("expected ErrDuplicateSKU, got %v", err)
	}
	if stayed, _ := store.Get(ctx, "sku-1"); stayed == nil {
		t.Fatal("source product must survive a failed rekey")
	}
}

func TestAdjustStockFloorsAtZero(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	if err := store.Create(ctx, Product{SKU: "sku-1", Name: "widget", Price: 10, Category: CategoryOther, Stock: 3}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := store.AdjustStock(ctx, "sku-1", -5); !errors.Is(err, ErrOutOfStock) {
		t.Fatalf("expected ErrOutOfStock, got %v", err)
	}
	if err := store.AdjustStock(ctx, "sku-1", -3); err != nil {
		t.Fatalf("adjust to zero: %v", err)
	}
	if err := store.AdjustStock(ctx, "sku-1", 7); err != nil {
		t.Fatalf("restock: %v", err)
	}

	p, _ := store.Get(ctx, "sku-1")
	if p.Stock != 7 {
		t.Fatalf("expected stock 7, got %d", p.Stock)
	}
}
