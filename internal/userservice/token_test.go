package userservice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewToken(t *testing.T) {
	token, err := newToken(1, AuthTokenTime, TokenScopeAuth)
	require.NoError(t, err)

	assert.Len(t, token.Plain, 26)
	assert.Equal(t, hashToken(token.Plain), token.Hash)
	assert.Equal(t, TokenScopeAuth, token.Scope)
	assert.WithinDuration(t, time.Now().Add(AuthTokenTime), token.Expiry, time.Minute)

	other, err := newToken(1, AuthTokenTime, TokenScopeAuth)
	require.NoError(t, err)
	assert.NotEqual(t, token.Plain, other.Plain)
}

func TestHashToken(t *testing.T) {
	hash := hashToken("sometoken")

	assert.Len(t, hash, 32)
	assert.Equal(t, hash, hashToken("sometoken"))
	assert.NotEqual(t, hash, hashToken("othertoken"))
}
