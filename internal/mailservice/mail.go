package mailservice

import (
	"errors"
	"time"

	"github.com/go-mail/mail/v2"
)

// NewMailer creates a mailer over an SMTP dialer with the given host, port, username, and password.
func NewMailer(host string, port int, username, password string) *Mail {
	dialer := mail.NewDialer(host, port, username, password)
	dialer.Timeout = 5 * time.Second

	return &Mail{
		dialer: dialer,
	}
}

func (m *Mail) send(message *Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(message.To) == 0 {
		return errors.New("message has no recipients")
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", message.From)
	msg.SetHeader("To", message.To...)
	msg.SetHeader("Subject", message.Subject)
	msg.SetBody("text/plain", message.PlainBody)
	if message.HTMLBody != "" {
		msg.AddAlternative("text/html", message.HTMLBody)
	}

	err := m.dialer.DialAndSend(msg)
	if err != nil {
		return err
	}

	return nil
}
