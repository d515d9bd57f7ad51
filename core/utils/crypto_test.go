package utils

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key, err := hex.DecodeString("6368616e676520746869732070617373776f726420746f206120736563726574")
	require.NoError(t, err)
	require.Len(t, key, 32)
	return key
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := testKey(t)

	for _, plaintext := range []string{
		"ya29.a0AfH6SMC-access-token",
		"1//0e-refresh-token",
		"",
	} {
		encrypted, err := EncryptWithKey(key, plaintext)
		require.NoError(t, err)

		parts := strings.Split(encrypted, ":")
		require.Len(t, parts, 3, "expected iv:authTag:ciphertext")
		assert.Len(t, parts[0], 24, "12-byte iv in hex")
		assert.Len(t, parts[1], 32, "16-byte auth tag in hex")

		decrypted, err := DecryptWithKey(key, encrypted)
		require.NoError(t, err)
		assert.Equal(t, plaintext, decrypted)
	}
}

func TestDecryptTamperedTagFails(t *testing.T) {
	key := testKey(t)

	encrypted, err := EncryptWithKey(key, "secret-token")
	require.NoError(t, err)

	parts := strings.Split(encrypted, ":")
	tag, err := hex.DecodeString(parts[1])
	require.NoError(t, err)
	tag[0] ^= 0xFF
	parts[1] = hex.EncodeToString(tag)

	_, err = DecryptWithKey(key, strings.Join(parts, ":"))
	assert.Error(t, err)
}

func TestDecryptRejectsMalformedInput(t *testing.T) {
	key := testKey(t)

	for _, input := range []string{
		"",
		"not-hex",
		"deadbeef:deadbeef",
		"zz:zz:zz",
	} {
		_, err := DecryptWithKey(key, input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestEncryptProducesUniqueIVs(t *testing.T) {
	key := testKey(t)

	a, err := EncryptWithKey(key, "same-token")
	require.NoError(t, err)
	b, err := EncryptWithKey(key, "same-token")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}
