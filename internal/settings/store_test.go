package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/damilolajohn6/qwik-trendora-backend/internal/awsx/awstest"
)

const testTable = "settings-test"

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db := awstest.NewDynamo()
	db.AddTable(testTable, "settings_id")
	return NewStore(db, testTable)
}

func testSettings() Settings {
	return Settings{
		StoreName:    "Trendora",
		StoreEmail:   "hello@trendora.example",
		StoreContact: "+2348000000000",
	}
}

func TestCreateIsSingleton(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Create(ctx, testSettings()); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if err := store.Create(ctx, testSettings()); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
}

func TestGetMissingSettings(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Get(context.Background()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveRequiresExistingRecord(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, testSettings()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := store.Create(ctx, testSettings()); err != nil {
		t.Fatalf("create: %v", err)
	}
	cfg := testSettings()
	cfg.DefaultCurrency = "NGN"
	if err := store.Save(ctx, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.DefaultCurrency != "NGN" {
		t.Fatalf("save not applied: %+v", got)
	}
	if got.SettingsID != SingletonID {
		t.Fatalf("expected fixed key %q, got %q", SingletonID, got.SettingsID)
	}
}

func TestDeleteMissingSettings(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Delete(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := store.Create(ctx, testSettings()); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Delete(ctx); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
