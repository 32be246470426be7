package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
)

// envelopeVersion prefixes every ciphertext so the format can evolve
// without breaking stored wallets.
const envelopeVersion = "v1"

// secretCipher seals and opens wallet secrets with AES-256-GCM. The key
// is derived from the configured passphrase; rotating the passphrase
// makes existing envelopes unopenable, which the vault surfaces as a
// custody mismatch.
type secretCipher struct {
	aead cipher.AEAD
}

func newSecretCipher(passphrase string) (*secretCipher, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("empty encryption passphrase")
	}

	key := sha256.Sum256([]byte(passphrase))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	return &secretCipher{aead: aead}, nil
}

// Seal encrypts plaintext under a fresh random nonce and returns the
// envelope string: version:base64(nonce):base64(ciphertext).
func (c *secretCipher) Seal(plaintext []byte) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	ct := c.aead.Seal(nil, nonce, plaintext, nil)

	return strings.Join([]string{
		envelopeVersion,
		base64.StdEncoding.EncodeToString(nonce),
		base64.StdEncoding.EncodeToString(ct),
	}, ":"), nil
}

// Open decrypts an envelope produced by Seal. Fails when the envelope
// is malformed or was sealed under a different key.
func (c *secretCipher) Open(envelope string) ([]byte, error) {
	parts := strings.Split(envelope, ":")
	if len(parts) != 3 || parts[0] != envelopeVersion {
		return nil, fmt.Errorf("malformed secret envelope")
	}

	nonce, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil || len(nonce) != c.aead.NonceSize() {
		return nil, fmt.Errorf("malformed envelope nonce")
	}
	ct, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return nil, fmt.Errorf("malformed envelope ciphertext")
	}

	plaintext, err := c.aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return nil, fmt.Errorf("open envelope: %w", err)
	}
	return plaintext, nil
}
