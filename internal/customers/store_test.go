package customers

import (
	"context"
	"errors"
	"testing"

	"github.com/damilolajohn6/qwik-trendora-backend/internal/awsx/awstest"
)

const testTable = "customers-test"

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db := awstest.NewDynamo()
	db.AddTable(testTable, "email")
	return NewStore(db, testTable)
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cu := Customer{Email: "buyer@example.com", FullName: "Buyer One"}
	if err := store.Create(ctx, cu); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if err := store.Create(ctx, cu); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestShippingAddressRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cu := Customer{
		Email:    "buyer@example.com",
		FullName: "Buyer One",
		ShippingAddress: Address{
			Street:  "1 Market St",
			City:    "Lagos",
			State:   "LA",
			ZipCode: "100001",
			Country: "NG",
		},
	}
	if err := store.Create(ctx, cu); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := store.Get(ctx, cu.Email)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ShippingAddress != cu.ShippingAddress {
		t.Fatalf("address mismatch: %+v != %+v", got.ShippingAddress, cu.ShippingAddress)
	}
}

func TestFindByTokenHashes(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cu := Customer{
		Email:                 "buyer@example.com",
		VerificationTokenHash: "verify-hash",
		ResetTokenHash:        "reset-hash",
	}
	if err := store.Create(ctx, cu); err != nil {
		t.Fatalf("create: %v", err)
	}

	if got, _ := store.FindByVerificationToken(ctx, "verify-hash"); got == nil {
		t.Fatal("verification lookup returned nil")
	}
	if got, _ := store.FindByResetToken(ctx, "reset-hash"); got == nil {
		t.Fatal("reset lookup returned nil")
	}
	if got, _ := store.FindByResetToken(ctx, "wrong"); got != nil {
		t.Fatalf("expected nil for unknown token, got %+v", got)
	}
}
