package mailer

import (
	"fmt"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Mailer delivers transactional email. Handlers depend on this interface so
// tests can swap the delivery backend out.
type Mailer interface {
	Send(toEmail, subject, plainBody, htmlBody string) error
}

type sendgridMailer struct {
	fromName  string
	fromEmail string
	apiKey    string
}

// NewSendgrid returns a Mailer backed by SendGrid. The API key is read from
// SENDGRID_API_KEY.
func NewSendgrid() Mailer {
	return &sendgridMailer{
		fromName:  "MotoG",
		fromEmail: "no-reply@motog.app",
		apiKey:    os.Getenv("SENDGRID_API_KEY"),
	}
}

func (m *sendgridMailer) Send(toEmail, subject, plainBody, htmlBody string) error {
	from := mail.NewEmail(m.fromName, m.fromEmail)
	to := mail.NewEmail("", toEmail)
	msg := mail.NewSingleEmail(from, subject, to, plainBody, htmlBody)
	client := sendgrid.NewSendClient(m.apiKey)
	response, err := client.Send(msg)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		zap.S().Errorw("sendgrid returned error status", "status", response.StatusCode, "to", toEmail)
		return fmt.Errorf("sendgrid error: status %d", response.StatusCode)
	}
	return nil
}
