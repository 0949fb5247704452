package auth

import "testing"

func TestNewOneTimeToken(t *testing.T) {
	raw, hashed, err := NewOneTimeToken()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(raw) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(raw))
	}
	if hashed == raw {
		t.Fatal("hash must differ from the raw token")
	}
	if HashToken(raw) != hashed {
		t.Fatal("hash is not reproducible from the raw token")
	}

	raw2, _, err := NewOneTimeToken()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if raw2 == raw {
		t.Fatal("two tokens must not collide")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(hash, "s3cret-pass") {
		t.Fatal("correct password rejected")
	}
	if CheckPassword(hash, "wrong-pass") {
		t.Fatal("wrong password accepted")
	}
}
