// internal/infra/mail/smtp_client.go
package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPClient implements the mail.Client interface using gopkg.in/gomail.v2.
type SMTPClient struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPClient(host string, port int, username, password, from string) *SMTPClient {
	return &SMTPClient{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// Send delivers a plain-text message. Each call dials a fresh SMTP
// connection; the daily sweep volume doesn't warrant keeping one open.
func (c *SMTPClient) Send(to, subject, body string) error {
	if to == "" {
		return fmt.Errorf("recipient address is empty")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", c.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := c.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
