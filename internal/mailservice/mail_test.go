package mailservice

import (
	"errors"
	"testing"

	"github.com/go-mail/mail/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSend(t *testing.T) {
	dialer := &MockDialer{}
	dialer.On("DialAndSend", mock.Anything).Return(nil)

	m := &Mail{dialer: dialer}

	err := m.send(&Message{
		Subject:   "hello",
		PlainBody: "plain",
		HTMLBody:  "<p>html</p>",
		From:      "noreply@example.com",
		To:        []string{"a@example.com", "b@example.com"},
	})
	require.NoError(t, err)

	dialer.AssertNumberOfCalls(t, "DialAndSend", 1)

	msgs := dialer.Calls[0].Arguments.Get(0).([]*mail.Message)
	require.Len(t, msgs, 1)
	assert.Equal(t, []string{"noreply@example.com"}, msgs[0].GetHeader("From"))
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, msgs[0].GetHeader("To"))
	assert.Equal(t, []string{"hello"}, msgs[0].GetHeader("Subject"))
}

func TestSendNoRecipients(t *testing.T) {
	dialer := &MockDialer{}

	m := &Mail{dialer: dialer}

	err := m.send(&Message{Subject: "hello", From: "noreply@example.com"})
	assert.EqualError(t, err, "message has no recipients")
	dialer.AssertNumberOfCalls(t, "DialAndSend", 0)
}

func TestSendDialerError(t *testing.T) {
	dialer := &MockDialer{}
	dialer.On("DialAndSend", mock.Anything).Return(errors.New("connection refused"))

	m := &Mail{dialer: dialer}

	err := m.send(&Message{Subject: "hello", From: "noreply@example.com", To: []string{"a@example.com"}})
	assert.EqualError(t, err, "connection refused")
}
