package crypt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/cafefront/config"
	"github.com/shashiranjanraj/cafefront/pkg/crypt"
)

func TestEncryptDecrypt(t *testing.T) {
	t.Cleanup(config.Reset)
	config.Set("APP_KEY", "test-key")

	enc, err := crypt.Encrypt("eyJhbGciOi.token")
	require.NoError(t, err)
	assert.NotContains(t, enc, "token")

	plain, err := crypt.Decrypt(enc)
	require.NoError(t, err)
	assert.Equal(t, "eyJhbGciOi.token", plain)
}

func TestEncryptUsesFreshNonce(t *testing.T) {
	a, err := crypt.Encrypt("same")
	require.NoError(t, err)
	b, err := crypt.Encrypt("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDecryptRejectsGarbageAndOtherKeys(t *testing.T) {
	t.Cleanup(config.Reset)

	_, err := crypt.Decrypt("not base64 !!")
	assert.ErrorIs(t, err, crypt.ErrDecrypt)

	_, err = crypt.Decrypt("c2hvcnQ=")
	assert.ErrorIs(t, err, crypt.ErrDecrypt)

	config.Set("APP_KEY", "first")
	enc, err := crypt.Encrypt("secret")
	require.NoError(t, err)

	config.Set("APP_KEY", "second")
	_, err = crypt.Decrypt(enc)
	assert.ErrorIs(t, err, crypt.ErrDecrypt)
}
