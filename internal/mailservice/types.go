package mailservice

import (
	"context"
	"sync"

	"github.com/go-mail/mail/v2"

	"github.com/inkwellapp/inkwell/internal/common"
)

// Message is one unit of work on the mail queue. When a worker picks it
// up it sends exactly one email with these fields; the HTML body is
// preferred by receiving clients when both bodies are given.
type Message struct {
	Subject   string   `json:"subject"`
	PlainBody string   `json:"plain_body"`
	HTMLBody  string   `json:"html_body,omitempty"`
	From      string   `json:"from"`
	To        []string `json:"to"`
}

// MessageBus is the slice of the broker the mail service needs: publish
// on dispatch, consume in the worker.
type MessageBus interface {
	common.MessageProducer
	common.MessageConsumer
}

type MailService struct {
	mb     MessageBus
	m      Mailer
	logger MailLogger
	ctx    context.Context
	cancel context.CancelFunc
}

type MailLogger interface {
	Error(msg string, args ...any)
	Info(msg string, args ...any)
}

type Mail struct {
	mu     sync.Mutex
	dialer Dialer
}

type Mailer interface {
	send(msg *Message) error
}

type Dialer interface {
	DialAndSend(m ...*mail.Message) error
}
