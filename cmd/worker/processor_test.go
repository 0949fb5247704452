package main

import (
	"context"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"

	"github.com/damilolajohn6/qwik-trendora-backend/internal/awsx/awstest"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/mail"
)

func TestHandleSendsEmailPerMessage(t *testing.T) {
	ses := &awstest.SES{}
	p := NewProcessor(mail.NewMailer(ses, "Trendora Support", "support@trendora.example"))

	event := events.SQSEvent{
		Records: []events.SQSMessage{
			{Body: `{"kind":"order_confirmation","recipient":"buyer@example.com","recipient_name":"Buyer","invoice_number":"INV-1-001","total_amount":40}`},
			{Body: `{"kind":"verification","recipient":"new@example.com","link":"https://shop.example/verify-email/tok"}`},
		},
	}
	if err := p.Handle(context.Background(), event); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if len(ses.Sent) != 2 {
		t.Fatalf("expected 2 emails, got %d", len(ses.Sent))
	}
	first := ses.Sent[0]
	if first.Destination.ToAddresses[0] != "buyer@example.com" {
		t.Fatalf("unexpected recipient %v", first.Destination.ToAddresses)
	}
	if !strings.Contains(*first.Content.Simple.Subject.Data, "INV-1-001") {
		t.Fatalf("unexpected subject %q", *first.Content.Simple.Subject.Data)
	}
	if !strings.Contains(*first.FromEmailAddress, "support@trendora.example") {
		t.Fatalf("unexpected sender %q", *first.FromEmailAddress)
	}
}

func TestHandleRejectsMalformedBody(t *testing.T) {
	ses := &awstest.SES{}
	p := NewProcessor(mail.NewMailer(ses, "", "support@trendora.example"))

	event := events.SQSEvent{
		Records: []events.SQSMessage{{Body: `not-json`}},
	}
	if err := p.Handle(context.Background(), event); err == nil {
		t.Fatal("expected error so the message is retried")
	}
	if len(ses.Sent) != 0 {
		t.Fatalf("expected no emails, got %d", len(ses.Sent))
	}
}

func TestHandleRejectsMissingRecipient(t *testing.T) {
	ses := &awstest.SES{}
	p := NewProcessor(mail.NewMailer(ses, "", "support@trendora.example"))

	event := events.SQSEvent{
		Records: []events.SQSMessage{{Body: `{"kind":"password_reset","link":"https://shop.example/reset-password/tok"}`}},
	}
	if err := p.Handle(context.Background(), event); err == nil {
		t.Fatal("expected error for message without recipient")
	}
}
