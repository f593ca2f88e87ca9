/**
 * @description
 * Symmetric encryption for stored service credentials. Passwords are sealed
 * with AES-256-GCM under a single application key; ciphertext and nonce are
 * hex-encoded for storage. The authentication tag rides inside the GCM
 * ciphertext, so tampering with either column fails decryption.
 */
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

// ErrDecryptFailed is returned when a ciphertext cannot be opened, either
// because it was tampered with or because it was sealed under a different key.
var ErrDecryptFailed = errors.New("vault: decryption failed")

// Cipher seals and opens credential secrets under a fixed 32-byte key.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher builds a Cipher from a 32-byte key.
func NewCipher(key string) (*Cipher, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("vault: encryption key must be exactly 32 bytes, got %d", len(key))
	}

	block, err := aes.NewCipher([]byte(key))
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &Cipher{aead: aead}, nil
}

// Encrypt seals plaintext and returns hex-encoded ciphertext and nonce.
func (c *Cipher) Encrypt(plaintext string) (ciphertext, nonce string, err error) {
	rawNonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, rawNonce); err != nil {
		return "", "", err
	}

	sealed := c.aead.Seal(nil, rawNonce, []byte(plaintext), nil)
	return hex.EncodeToString(sealed), hex.EncodeToString(rawNonce), nil
}

// Decrypt opens a hex-encoded ciphertext with its nonce.
func (c *Cipher) Decrypt(ciphertext, nonce string) (string, error) {
	rawCiphertext, err := hex.DecodeString(ciphertext)
	if err != nil {
		return "", ErrDecryptFailed
	}
	rawNonce, err := hex.DecodeString(nonce)
	if err != nil || len(rawNonce) != c.aead.NonceSize() {
		return "", ErrDecryptFailed
	}

	plaintext, err := c.aead.Open(nil, rawNonce, rawCiphertext, nil)
	if err != nil {
		return "", ErrDecryptFailed
	}
	return string(plaintext), nil
}
