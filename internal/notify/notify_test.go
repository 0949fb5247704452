package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/damilolajohn6/qwik-trendora-backend/internal/awsx"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/awsx/awstest"
)

func TestPublishSerializesMessage(t *testing.T) {
	queue := &awstest.SQS{}
	n := NewNotifier(awsx.NewPublisher(queue, "https://sqs.example/notifications"))

	n.Publish(context.Background(), Message{
		Kind:          KindOrderConfirmation,
		Recipient:     "buyer@example.com",
		OrderID:       "o-1",
		InvoiceNumber: "INV-1-001",
		TotalAmount:   40,
		Status:        "pending",
	})

	if len(queue.Bodies) != 1 {
		t.Fatalf("expected 1 message, got %d", len(queue.Bodies))
	}
	var got Message
	if err := json.Unmarshal([]byte(queue.Bodies[0]), &got); err != nil {
		t.Fatalf("body is not valid JSON: %v", err)
	}
	if got.Kind != KindOrderConfirmation || got.OrderID != "o-1" {
		t.Fatalf("unexpected message %+v", got)
	}
}

func TestPublishSwallowsQueueErrors(t *testing.T) {
	queue := &awstest.SQS{Err: errors.New("queue down")}
	n := NewNotifier(awsx.NewPublisher(queue, "https://sqs.example/notifications"))

	// must not panic or surface the error
	n.Publish(context.Background(), Message{Kind: KindVerification, Recipient: "a@example.com"})

	if len(queue.Bodies) != 0 {
		t.Fatalf("expected no delivered messages, got %d", len(queue.Bodies))
	}
}
