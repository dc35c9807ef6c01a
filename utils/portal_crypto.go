package utils

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/nacl/secretbox"
)

var ErrPortalKeyMissing = errors.New("PORTAL_SECRET_KEY is not configured")

const portalNonceSize = 24

// portalKey loads the 32-byte key that encrypts portal passwords at
// rest. The env value is hex encoded (64 characters).
func portalKey() (*[32]byte, error) {
	raw := os.Getenv("PORTAL_SECRET_KEY")
	if raw == "" {
		return nil, ErrPortalKeyMissing
	}

	decoded, err := hex.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("PORTAL_SECRET_KEY is not valid hex: %w", err)
	}
	if len(decoded) != 32 {
		return nil, fmt.Errorf("PORTAL_SECRET_KEY must decode to 32 bytes, got %d", len(decoded))
	}

	var key [32]byte
	copy(key[:], decoded)
	return &key, nil
}

// EncryptPortalPassword seals the password with a fresh random nonce.
// Output layout: nonce, then ciphertext.
func EncryptPortalPassword(password string) ([]byte, error) {
	key, err := portalKey()
	if err != nil {
		return nil, err
	}

	var nonce [portalNonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return secretbox.Seal(nonce[:], []byte(password), &nonce, key), nil
}

// DecryptPortalPassword reverses EncryptPortalPassword.
func DecryptPortalPassword(sealed []byte) (string, error) {
	key, err := portalKey()
	if err != nil {
		return "", err
	}
	if len(sealed) < portalNonceSize {
		return "", errors.New("portal password ciphertext is truncated")
	}

	var nonce [portalNonceSize]byte
	copy(nonce[:], sealed[:portalNonceSize])

	plain, ok := secretbox.Open(nil, sealed[portalNonceSize:], &nonce, key)
	if !ok {
		return "", errors.New("portal password could not be decrypted")
	}
	return string(plain), nil
}
