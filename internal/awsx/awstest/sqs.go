package awstest

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// SQS records sent message bodies for assertions.
type SQS struct {
	mu     sync.Mutex
	Bodies []string
	Err    error
}

func (s *SQS) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	s.Bodies = append(s.Bodies, *params.MessageBody)
	return &sqs.SendMessageOutput{}, nil
}

// SES records sent emails for assertions.
type SES struct {
	mu   sync.Mutex
	Sent []*sesv2.SendEmailInput
	Err  error
}

func (s *SES) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	s.Sent = append(s.Sent, params)
	return &sesv2.SendEmailOutput{}, nil
}
