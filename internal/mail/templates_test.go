package mail

import (
	"strings"
	"testing"

	"github.com/damilolajohn6/qwik-trendora-backend/internal/notify"
)

func TestRenderVerification(t *testing.T) {
	subject, body, err := Render(notify.Message{
		Kind:          notify.KindVerification,
		Recipient:     "new@example.com",
		RecipientName: "New User",
		Link:          "https://shop.example/verify-email/abc123",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(subject, "Verify") {
		t.Fatalf("unexpected subject %q", subject)
	}
	if !strings.Contains(body, "https://shop.example/verify-email/abc123") {
		t.Fatal("body missing verification link")
	}
	if !strings.Contains(body, "New User") {
		t.Fatal("body missing recipient name")
	}
}

func TestRenderOrderEmails(t *testing.T) {
	msg := notify.Message{
		Kind:          notify.KindOrderConfirmation,
		Recipient:     "buyer@example.com",
		InvoiceNumber: "INV-1-001",
		TotalAmount:   99.5,
	}
	subject, body, err := Render(msg)
	if err != nil {
		t.Fatalf("render confirmation: %v", err)
	}
	if !strings.Contains(subject, "INV-1-001") || !strings.Contains(body, "99.50") {
		t.Fatalf("confirmation missing invoice/total: %q / %q", subject, body)
	}

	msg.Kind = notify.KindOrderUpdate
	msg.Status = "shipped"
	_, body, err = Render(msg)
	if err != nil {
		t.Fatalf("render update: %v", err)
	}
	if !strings.Contains(body, "shipped") {
		t.Fatal("update body missing status")
	}
}

func TestRenderEscapesHTML(t *testing.T) {
	_, body, err := Render(notify.Message{
		Kind:          notify.KindPasswordReset,
		Recipient:     "a@example.com",
		RecipientName: "<script>alert(1)</script>",
		Link:          "https://shop.example/reset-password/tok",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(body, "<script>") {
		t.Fatal("recipient name was not escaped")
	}
}

func TestRenderUnknownKind(t *testing.T) {
	if _, _, err := Render(notify.Message{Kind: "newsletter"}); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}
