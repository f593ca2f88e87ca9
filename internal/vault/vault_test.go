package vault

import (
	"errors"
	"strings"
	"testing"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestNewCipher_RejectsBadKeyLength(t *testing.T) {
	if _, err := NewCipher("too-short"); err == nil {
		t.Fatal("expected error for short key")
	}
	if _, err := NewCipher(testKey + "x"); err == nil {
		t.Fatal("expected error for long key")
	}
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	c, err := NewCipher(testKey)
	if err != nil {
		t.Fatalf("NewCipher returned error: %v", err)
	}

	ciphertext, nonce, err := c.Encrypt("hunter2")
	if err != nil {
		t.Fatalf("Encrypt returned error: %v", err)
	}
	if ciphertext == "" || nonce == "" {
		t.Fatal("expected non-empty ciphertext and nonce")
	}

	got, err := c.Decrypt(ciphertext, nonce)
	if err != nil {
		t.Fatalf("Decrypt returned error: %v", err)
	}
	if got != "hunter2" {
		t.Fatalf("expected round-trip to recover plaintext, got %q", got)
	}
}

func TestEncrypt_FreshNoncePerCall(t *testing.T) {
	c, _ := NewCipher(testKey)

	ct1, n1, _ := c.Encrypt("same-secret")
	ct2, n2, _ := c.Encrypt("same-secret")

	if n1 == n2 {
		t.Fatal("expected a fresh nonce per encryption")
	}
	if ct1 == ct2 {
		t.Fatal("expected distinct ciphertexts for the same plaintext")
	}
}

func TestDecrypt_RejectsTamperedCiphertext(t *testing.T) {
	c, _ := NewCipher(testKey)
	ciphertext, nonce, _ := c.Encrypt("secret")

	tampered := "00" + ciphertext[2:]
	if tampered == ciphertext {
		tampered = "ff" + ciphertext[2:]
	}

	if _, err := c.Decrypt(tampered, nonce); !errors.Is(err, ErrDecryptFailed) {
		t.Fatalf("expected ErrDecryptFailed, got %v", err)
	}
}

func TestDecrypt_RejectsWrongKey(t *testing.T) {
	c1, _ := NewCipher(testKey)
	c2, _ := NewCipher(strings.ToUpper(testKey))

	ciphertext, nonce, _ := c1.Encrypt("secret")
	if _, err := c2.Decrypt(ciphertext, nonce); !errors.Is(err, ErrDecryptFailed) {
		t.Fatalf("expected ErrDecryptFailed under a different key, got %v", err)
	}
}

func TestDecrypt_RejectsGarbageEncoding(t *testing.T) {
	c, _ := NewCipher(testKey)
	if _, err := c.Decrypt("not-hex", "also-not-hex"); !errors.Is(err, ErrDecryptFailed) {
		t.Fatalf("expected ErrDecryptFailed, got %v", err)
	}
}
