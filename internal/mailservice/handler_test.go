package mailservice

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatch(t *testing.T) {
	bus := &MockMessageBus{}
	s := NewMailService(bus, "localhost", "user", "password", 1025, discardLogger())
	defer s.Close()

	msg := &Message{
		Subject:   "New post notification!",
		PlainBody: "A new post is up.",
		HTMLBody:  "<p>A new post is up.</p>",
		From:      "noreply@example.com",
		To:        []string{"staff@example.com"},
	}

	err := s.Dispatch(context.Background(), msg)
	require.NoError(t, err)

	published := bus.Published()
	require.Len(t, published, 1)

	var got Message
	err = json.Unmarshal(published[0], &got)
	require.NoError(t, err)
	assert.Equal(t, *msg, got)
}

func TestRunDeliversQueuedMessages(t *testing.T) {
	bus := &MockMessageBus{}
	mailer := &MockMailer{}

	ctx, cancel := context.WithCancel(context.Background())
	s := &MailService{
		mb:     bus,
		m:      mailer,
		logger: discardLogger(),
		ctx:    ctx,
		cancel: cancel,
	}
	defer s.Close()

	first := &Message{Subject: "first", PlainBody: "one", From: "noreply@example.com", To: []string{"a@example.com"}}
	second := &Message{Subject: "second", PlainBody: "two", From: "noreply@example.com", To: []string{"b@example.com"}}

	require.NoError(t, s.Dispatch(context.Background(), first))
	require.NoError(t, s.Dispatch(context.Background(), second))

	s.Run()

	assert.Eventually(t, func() bool {
		return len(mailer.Sent()) == 2
	}, 2*time.Second, 10*time.Millisecond)

	sent := mailer.Sent()
	assert.Equal(t, "first", sent[0].Subject)
	assert.Equal(t, "second", sent[1].Subject)
}

func TestRunSkipsMalformedMessages(t *testing.T) {
	bus := &MockMessageBus{}
	mailer := &MockMailer{}

	require.NoError(t, bus.Publish(context.Background(), []byte("not json"), "", ""))

	ctx, cancel := context.WithCancel(context.Background())
	s := &MailService{
		mb:     bus,
		m:      mailer,
		logger: discardLogger(),
		ctx:    ctx,
		cancel: cancel,
	}
	defer s.Close()

	msg := &Message{Subject: "after garbage", PlainBody: "still delivered", From: "noreply@example.com", To: []string{"a@example.com"}}
	require.NoError(t, s.Dispatch(context.Background(), msg))

	s.Run()

	assert.Eventually(t, func() bool {
		return len(mailer.Sent()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, "after garbage", mailer.Sent()[0].Subject)
}
