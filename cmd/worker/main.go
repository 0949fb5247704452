package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/damilolajohn6/qwik-trendora-backend/internal/awsx"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/config"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/mail"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	clients, err := awsx.NewClients(context.Background(), cfg.AWS.Region)
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	processor := NewProcessor(mail.NewMailer(clients.SES, cfg.Notify.SenderName, cfg.Notify.SenderEmail))

	// If RUN_LOCAL=true, simulate a single SQS event for local testing.
	if os.Getenv("RUN_LOCAL") == "true" {
		testBody := os.Getenv("LOCAL_SQS_BODY")
		if testBody == "" {
			testBody = `{"kind":"order_confirmation","recipient":"local@example.com","invoice_number":"INV-0-000","total_amount":10}`
		}
		event := events.SQSEvent{
			Records: []events.SQSMessage{
				{Body: testBody},
			},
		}
		if err := processor.Handle(context.Background(), event); err != nil {
			log.Fatalf("local handler error: %v", err)
		}
		return
	}

	lambda.Start(processor.Handle)
}
