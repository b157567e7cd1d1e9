package jwthelper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adarshamigo11/task-portal/internal/pkg/jwthelper"
)

var signingKey = []byte("test-signing-key")

func TestGenerateAndParseToken(t *testing.T) {
	token, err := jwthelper.GenerateToken(signingKey, "11@11.com", "test-agent")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := jwthelper.ParseToken(signingKey, token)
	require.NoError(t, err)
	assert.Equal(t, "11@11.com", claims.UserEmail)
	assert.Equal(t, "test-agent", claims.UserAgent)
	assert.NotNil(t, claims.ExpiresAt)
}

func TestParseToken_WrongKey(t *testing.T) {
	token, err := jwthelper.GenerateToken(signingKey, "11@11.com", "test-agent")
	require.NoError(t, err)

	_, err = jwthelper.ParseToken([]byte("another-key"), token)
	assert.Error(t, err)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := jwthelper.ParseToken(signingKey, "not.a.token")
	assert.Error(t, err)
}
