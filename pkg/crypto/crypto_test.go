package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := "kunci-pendek"
	encrypted, err := Encrypt("token-rahasia", key)
	require.NoError(t, err)
	require.NotEqual(t, "token-rahasia", encrypted)

	decrypted, err := Decrypt(encrypted, key)
	require.NoError(t, err)
	require.Equal(t, "token-rahasia", decrypted)
}

func TestDecryptRejectsBadInput(t *testing.T) {
	_, err := Decrypt("bukan base64!!!", "kunci")
	require.Error(t, err)

	_, err = Decrypt("c2hvcnQ=", "kunci") // valid base64 tapi lebih pendek dari blok
	require.Error(t, err)
}

func TestFixEncryptionKeyLength(t *testing.T) {
	require.Len(t, FixEncryptionKey("abc"), 32)
	require.Len(t, FixEncryptionKey("kunci-yang-sangat-panjang-sekali-melebihi-32"), 32)
	require.Equal(t, "abc0", FixEncryptionKey("abc")[:4])
}
