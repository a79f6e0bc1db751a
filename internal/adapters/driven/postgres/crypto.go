package postgres

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/json"
	"errors"
	"fmt"
)

// Connector secret blobs are written by the platform as
// version(1) || nonce(12) || AES-256-GCM ciphertext of a JSON object.
const (
	secretBlobV1   = 0x01
	secretNonceLen = 12
	secretKeyLen   = 32
)

var (
	ErrInvalidKeySize     = errors.New("connector secret key must be 32 bytes")
	ErrInvalidBlobSize    = errors.New("connector secret blob is truncated")
	ErrUnsupportedVersion = errors.New("unsupported connector secret blob version")
	ErrDecryptionFailed   = errors.New("connector secret blob did not authenticate")
)

// SecretKeyring opens connector secret blobs for live search.
// It never writes secrets; the platform owns connector setup.
type SecretKeyring struct {
	aead cipher.AEAD
}

// NewSecretKeyring builds a keyring from the 32-byte CONNECTOR_SECRET_KEY
func NewSecretKeyring(key []byte) (*SecretKeyring, error) {
	if len(key) != secretKeyLen {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidKeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create AES cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}
	return &SecretKeyring{aead: aead}, nil
}

// Open authenticates and decodes a blob into string-valued connector secrets
func (k *SecretKeyring) Open(blob []byte) (map[string]string, error) {
	if len(blob) < 1+secretNonceLen+k.aead.Overhead() {
		return nil, ErrInvalidBlobSize
	}
	if blob[0] != secretBlobV1 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, blob[0])
	}

	nonce, sealed := blob[1:1+secretNonceLen], blob[1+secretNonceLen:]
	plain, err := k.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	var secrets map[string]string
	if err := json.Unmarshal(plain, &secrets); err != nil {
		return nil, fmt.Errorf("decode connector secrets: %w", err)
	}
	return secrets, nil
}
