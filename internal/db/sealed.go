package db

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// sealedPrefix marks values written by SealedVault. Values without it were
// stored before a key was configured and are returned as-is.
const sealedPrefix = "v1:"

// ErrUnseal is returned when a sealed value cannot be decrypted, usually
// because VAULT_KEY changed.
var ErrUnseal = errors.New("vault: cannot unseal value")

// SealedVault encrypts values with AES-GCM before they reach the inner vault.
// The row's profile and key are bound as associated data, so a value copied
// to another row does not open.
type SealedVault struct {
	inner Vault
	aead  cipher.AEAD
}

// NewSealedVault derives a 32-byte key from secret with HKDF-SHA256.
func NewSealedVault(inner Vault, secret []byte) (*SealedVault, error) {
	if len(secret) < 16 {
		return nil, errors.New("vault: key must be at least 16 bytes")
	}
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte("client-state")), key); err != nil {
		return nil, fmt.Errorf("vault: derive key: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &SealedVault{inner: inner, aead: aead}, nil
}

func associated(profile, key string) []byte {
	return []byte(profile + "\x00" + key)
}

func (v *SealedVault) seal(profile, key, value string) (string, error) {
	nonce := make([]byte, v.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	blob := v.aead.Seal(nonce, nonce, []byte(value), associated(profile, key))
	return sealedPrefix + base64.RawStdEncoding.EncodeToString(blob), nil
}

func (v *SealedVault) open(profile, key, stored string) (string, error) {
	if len(stored) < len(sealedPrefix) || stored[:len(sealedPrefix)] != sealedPrefix {
		return stored, nil
	}
	blob, err := base64.RawStdEncoding.DecodeString(stored[len(sealedPrefix):])
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnseal, err)
	}
	ns := v.aead.NonceSize()
	if len(blob) < ns {
		return "", fmt.Errorf("%w: ciphertext too short", ErrUnseal)
	}
	plain, err := v.aead.Open(nil, blob[:ns], blob[ns:], associated(profile, key))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnseal, err)
	}
	return string(plain), nil
}

func (v *SealedVault) Get(ctx context.Context, profile, key string) (string, bool, error) {
	stored, ok, err := v.inner.Get(ctx, profile, key)
	if err != nil || !ok {
		return "", ok, err
	}
	value, err := v.open(profile, key, stored)
	if err != nil {
		return "", false, fmt.Errorf("client_state %s/%s: %w", profile, key, err)
	}
	return value, true, nil
}

func (v *SealedVault) Put(ctx context.Context, profile, key, value string) error {
	sealed, err := v.seal(profile, key, value)
	if err != nil {
		return fmt.Errorf("seal client_state %s/%s: %w", profile, key, err)
	}
	return v.inner.Put(ctx, profile, key, sealed)
}

func (v *SealedVault) Delete(ctx context.Context, profile, key string) error {
	return v.inner.Delete(ctx, profile, key)
}

func (v *SealedVault) Close() error { return v.inner.Close() }
