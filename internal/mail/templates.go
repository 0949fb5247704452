package mail

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/damilolajohn6/qwik-trendora-backend/internal/notify"
)

var tmpl = template.Must(template.New("mail").Parse(`
{{define "verification"}}
<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto">
  <h2>Welcome to Trendora{{if .RecipientName}}, {{.RecipientName}}{{end}}!</h2>
  <p>Please verify your email address by clicking the button below. The link
  expires in 24 hours.</p>
  <p><a href="{{.Link}}" style="background:#4f46e5;color:#fff;padding:12px 24px;text-decoration:none;border-radius:4px">Verify Email</a></p>
  <p>If the button does not work, copy this link into your browser:<br>{{.Link}}</p>
</div>
{{end}}

{{define "password_reset"}}
<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto">
  <h2>Password Reset Request</h2>
  <p>Hi{{if .RecipientName}} {{.RecipientName}}{{end}}, we received a request to
  reset your password. The link below expires in 1 hour.</p>
  <p><a href="{{.Link}}" style="background:#4f46e5;color:#fff;padding:12px 24px;text-decoration:none;border-radius:4px">Reset Password</a></p>
  <p>If you did not request a reset, you can safely ignore this email.</p>
</div>
{{end}}

{{define "order_confirmation"}}
<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto">
  <h2>Thank you for your order{{if .RecipientName}}, {{.RecipientName}}{{end}}!</h2>
  <p>Your order <strong>{{.InvoiceNumber}}</strong> has been received and is
  being processed.</p>
  <p>Order total: <strong>{{printf "%.2f" .TotalAmount}}</strong></p>
  <p>We will let you know as soon as it ships.</p>
</div>
{{end}}

{{define "order_update"}}
<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto">
  <h2>Order Update</h2>
  <p>Hi{{if .RecipientName}} {{.RecipientName}}{{end}}, your order
  <strong>{{.InvoiceNumber}}</strong> is now <strong>{{.Status}}</strong>.</p>
</div>
{{end}}
`))

// Render produces the subject and HTML body for a queued notification.
func Render(msg notify.Message) (subject, body string, err error) {
	switch msg.Kind {
	case notify.KindVerification:
		subject = "Verify your Trendora account"
	case notify.KindPasswordReset:
		subject = "Reset your Trendora password"
	case notify.KindOrderConfirmation:
		subject = fmt.Sprintf("Order confirmation %s", msg.InvoiceNumber)
	case notify.KindOrderUpdate:
		subject = fmt.Sprintf("Update on your order %s", msg.InvoiceNumber)
	default:
		return "", "", fmt.Errorf("unknown message kind %q", msg.Kind)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, msg.Kind, msg); err != nil {
		return "", "", fmt.Errorf("render %s template: %w", msg.Kind, err)
	}
	return subject, buf.String(), nil
}
