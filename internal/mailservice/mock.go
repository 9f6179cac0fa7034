package mailservice

import (
	"context"
	"sync"

	"github.com/go-mail/mail/v2"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/mock"

	"github.com/inkwellapp/inkwell/internal/common"
)

type MockDialer struct {
	mock.Mock
}

func (d *MockDialer) DialAndSend(m ...*mail.Message) error {
	args := d.Called(m)
	return args.Error(0)
}

type MockMailer struct {
	mu       sync.Mutex
	messages []*Message
}

func (m *MockMailer) send(msg *Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

func (m *MockMailer) Sent() []*Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Message(nil), m.messages...)
}

// MockMessageBus records published payloads and replays them to a
// consumer, standing in for the broker in tests.
type MockMessageBus struct {
	mu        sync.Mutex
	published [][]byte
}

func (b *MockMessageBus) Publish(ctx context.Context, msg []byte, key common.BindingKey, exchange common.Exchange) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, msg)
	return nil
}

func (b *MockMessageBus) Consume(key common.BindingKey, exchange common.Exchange, queue common.Queue) (<-chan amqp.Delivery, error) {
	b.mu.Lock()
	published := append([][]byte(nil), b.published...)
	b.mu.Unlock()

	msgsChan := make(chan amqp.Delivery, len(published))
	for _, body := range published {
		msgsChan <- amqp.Delivery{Body: body}
	}

	return msgsChan, nil
}

func (b *MockMessageBus) Published() [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([][]byte(nil), b.published...)
}
