// Package notify publishes outbound notification messages to SQS. Delivery is
// fire-and-forget: a failed publish is logged and never surfaced to the
// caller, so a queue outage cannot fail an order or a registration.
package notify

import (
	"context"
	"encoding/json"
	"log"
)

// Message kinds carried on the queue. The worker dispatches on Kind.
const (
	KindOrderConfirmation = "order_confirmation"
	KindOrderUpdate       = "order_update"
	KindVerification      = "verification"
	KindPasswordReset     = "password_reset"
)

// Message is the payload sent API -> SQS -> worker.
type Message struct {
	Kind          string `json:"kind"`
	Recipient     string `json:"recipient"`
	RecipientName string `json:"recipient_name,omitempty"`

	// verification / password_reset
	Link string `json:"link,omitempty"`

	// order_confirmation / order_update
	OrderID       string  `json:"order_id,omitempty"`
	InvoiceNumber string  `json:"invoice_number,omitempty"`
	TotalAmount   float64 `json:"total_amount,omitempty"`
	Status        string  `json:"status,omitempty"`
}

// Sender is the queue publish surface the Notifier needs.
type Sender interface {
	Send(ctx context.Context, messageBody string, attributes map[string]string) error
}

// Notifier serializes messages onto the notification queue.
type Notifier struct {
	sender Sender
}

func NewNotifier(sender Sender) *Notifier {
	return &Notifier{sender: sender}
}

// Publish enqueues msg, best-effort.
func (n *Notifier) Publish(ctx context.Context, msg Message) {
	body, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[notify] marshal %s message: %v", msg.Kind, err)
		return
	}
	attrs := map[string]string{"kind": msg.Kind}
	if err := n.sender.Send(ctx, string(body), attrs); err != nil {
		log.Printf("[notify] enqueue %s message for %s: %v", msg.Kind, msg.Recipient, err)
	}
}
