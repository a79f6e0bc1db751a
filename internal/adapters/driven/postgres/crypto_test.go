package postgres

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testSecretKey  = []byte("01234567890123456789012345678901")
	otherSecretKey = []byte("abcdefghijabcdefghijabcdefghijab")
)

// sealSecrets produces a blob the way the platform writes connector secrets
func sealSecrets(t *testing.T, key []byte, value any) []byte {
	t.Helper()

	plain, err := json.Marshal(value)
	require.NoError(t, err)
	block, err := aes.NewCipher(key)
	require.NoError(t, err)
	aead, err := cipher.NewGCM(block)
	require.NoError(t, err)

	nonce := make([]byte, secretNonceLen)
	_, err = rand.Read(nonce)
	require.NoError(t, err)

	blob := append([]byte{secretBlobV1}, nonce...)
	return aead.Seal(blob, nonce, plain, nil)
}

func TestSecretKeyring_Open(t *testing.T) {
	keyring, err := NewSecretKeyring(testSecretKey)
	require.NoError(t, err)

	secrets, err := keyring.Open(sealSecrets(t, testSecretKey, map[string]string{"token": "ghp_abc123"}))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"token": "ghp_abc123"}, secrets)
}

func TestNewSecretKeyring_InvalidKeySize(t *testing.T) {
	for _, size := range []int{0, 16, 64} {
		_, err := NewSecretKeyring(make([]byte, size))
		assert.ErrorIs(t, err, ErrInvalidKeySize, "size %d", size)
	}
}

func TestSecretKeyring_OpenErrors(t *testing.T) {
	keyring, err := NewSecretKeyring(testSecretKey)
	require.NoError(t, err)

	tampered := sealSecrets(t, testSecretKey, map[string]string{"token": "x"})
	tampered[len(tampered)-1] ^= 0xff

	tests := []struct {
		name string
		blob []byte
		want error
	}{
		{"empty", nil, ErrInvalidBlobSize},
		{"truncated", []byte{secretBlobV1, 0x02}, ErrInvalidBlobSize},
		{"wrong version", append([]byte{0x99}, make([]byte, 64)...), ErrUnsupportedVersion},
		{"wrong key", sealSecrets(t, otherSecretKey, map[string]string{"token": "x"}), ErrDecryptionFailed},
		{"tampered", tampered, ErrDecryptionFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := keyring.Open(tt.blob)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSecretKeyring_OpenNonObject(t *testing.T) {
	keyring, err := NewSecretKeyring(testSecretKey)
	require.NoError(t, err)

	_, err = keyring.Open(sealSecrets(t, testSecretKey, []string{"not", "an", "object"}))
	assert.Error(t, err)
}
