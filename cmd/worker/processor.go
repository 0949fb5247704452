package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/aws/aws-lambda-go/events"

	"github.com/damilolajohn6/qwik-trendora-backend/internal/mail"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/notify"
)

// Processor consumes notification messages from SQS and sends the
// corresponding email.
type Processor struct {
	mailer *mail.Mailer
}

// NewProcessor creates a worker processor around a mailer.
func NewProcessor(mailer *mail.Mailer) *Processor {
	return &Processor{mailer: mailer}
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			// Return error: Lambda will retry. If failed too many times, message goes to DLQ.
			log.Printf("[worker] error: %v", err)
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var msg notify.Message
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}
	if msg.Recipient == "" {
		return fmt.Errorf("message %s has no recipient", rec.MessageId)
	}

	log.Printf("[worker] received kind=%s recipient=%s order=%s", msg.Kind, msg.Recipient, msg.OrderID)

	if err := p.mailer.Send(ctx, msg); err != nil {
		return err
	}

	log.Printf("[worker] sent %s email to %s", msg.Kind, msg.Recipient)
	return nil
}
