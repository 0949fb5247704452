// Package mail renders and sends transactional email through SESv2.
package mail

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/awsx"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/notify"
)

// Mailer sends rendered notification messages.
type Mailer struct {
	client     awsx.SESAPI
	senderName string
	senderAddr string
}

func NewMailer(client awsx.SESAPI, senderName, senderAddr string) *Mailer {
	return &Mailer{
		client:     client,
		senderName: senderName,
		senderAddr: senderAddr,
	}
}

// Send renders msg and delivers it to msg.Recipient.
func (m *Mailer) Send(ctx context.Context, msg notify.Message) error {
	subject, body, err := Render(msg)
	if err != nil {
		return err
	}

	from := m.senderAddr
	if m.senderName != "" {
		from = fmt.Sprintf("%s <%s>", m.senderName, m.senderAddr)
	}
	utf8 := "UTF-8"

	_, err = m.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{msg.Recipient},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject, Charset: &utf8},
				Body: &types.Body{
					Html: &types.Content{Data: &body, Charset: &utf8},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("send %s email to %s: %w", msg.Kind, msg.Recipient, err)
	}
	return nil
}
