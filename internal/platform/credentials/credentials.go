// Package credentials seals the stored server password with an AEAD cipher.
// The key lives in its own 0600 file beside the config so the config file can
// be shared or backed up without exposing the password.
package credentials

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/chacha20poly1305"

	apperrors "playfin/internal/platform/errors"
)

var associatedData = []byte("playfin:password:v1")

type Sealer struct {
	keyPath string
}

func NewSealer(keyPath string) Sealer {
	return Sealer{keyPath: keyPath}
}

// Seal encrypts plain, creating the key file on first use.
func (s Sealer) Seal(plain string) (string, error) {
	key, err := s.loadKey(true)
	if err != nil {
		return "", err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return "", fmt.Errorf("init cipher: %w", err)
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plain)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	sealed := aead.Seal(nonce, nonce, []byte(plain), associatedData)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open decrypts a value produced by Seal. A missing key file or a tampered
// value both yield ErrMissingCredentials so the caller re-prompts.
func (s Sealer) Open(sealed string) (string, error) {
	if sealed == "" {
		return "", apperrors.ErrMissingCredentials
	}
	key, err := s.loadKey(false)
	if err != nil {
		return "", err
	}
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("%w: decode sealed password: %v", apperrors.ErrMissingCredentials, err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return "", fmt.Errorf("init cipher: %w", err)
	}
	if len(raw) < aead.NonceSize() {
		return "", fmt.Errorf("%w: sealed password too short", apperrors.ErrMissingCredentials)
	}
	nonce, ciphertext := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, associatedData)
	if err != nil {
		return "", fmt.Errorf("%w: open sealed password: %v", apperrors.ErrMissingCredentials, err)
	}
	return string(plain), nil
}

func (s Sealer) loadKey(create bool) ([]byte, error) {
	key, err := os.ReadFile(s.keyPath)
	if err == nil {
		if len(key) != chacha20poly1305.KeySize {
			return nil, fmt.Errorf("%w: key file has %d bytes", apperrors.ErrMissingCredentials, len(key))
		}
		return key, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	if !create {
		return nil, apperrors.ErrMissingCredentials
	}
	key = make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.keyPath), 0o700); err != nil {
		return nil, fmt.Errorf("create key dir: %w", err)
	}
	if err := os.WriteFile(s.keyPath, key, 0o600); err != nil {
		return nil, fmt.Errorf("write key file: %w", err)
	}
	return key, nil
}
