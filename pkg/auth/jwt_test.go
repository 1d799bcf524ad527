package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/cafefront/pkg/auth"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-side-secret"))
	require.NoError(t, err)
	return tok
}

func TestInspectReadsClaimsWithoutKey(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok := signed(t, jwt.MapClaims{"sub": "admin", "exp": exp.Unix()})

	c, ok := auth.Inspect(tok)
	require.True(t, ok)
	assert.Equal(t, "admin", c.Subject)
	assert.True(t, exp.Equal(c.ExpiresAt))
}

func TestSubjectOfOpaqueToken(t *testing.T) {
	assert.Equal(t, "", auth.Subject("opaque-token"))
	assert.Equal(t, "", auth.Subject(""))

	_, ok := auth.Inspect("opaque-token")
	assert.False(t, ok)
}
