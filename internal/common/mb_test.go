package common

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailExchangeRoundTrip(t *testing.T) {
	uri := TestRabbitMQ(t)

	mb, err := NewMessageBroker(uri)
	require.NoError(t, err)
	t.Cleanup(func() { mb.Close() })

	err = SetupMailExchange(mb)
	require.NoError(t, err)

	body := []byte(`{"subject":"hello"}`)
	err = mb.Publish(context.Background(), body, MailSendKey, MailExchange)
	require.NoError(t, err)

	msgs, err := mb.Consume(MailSendKey, MailExchange, MailSendQueue)
	require.NoError(t, err)

	select {
	case msg := <-msgs:
		assert.Equal(t, body, msg.Body)
		assert.Equal(t, "application/json", msg.ContentType)
		require.NoError(t, msg.Ack(false))
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for message")
	}
}
