package util

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// keySalt is fixed so the same configured secret always derives the same
// key; stored ciphertexts must stay readable across restarts.
var keySalt = []byte("moneybook/aes-gcm/v1")

const keyIterations = 100_000

// deriveKey stretches the configured secret into a 32 byte AES-256 key.
func deriveKey(keyStr string) []byte {
	return pbkdf2.Key([]byte(keyStr), keySalt, keyIterations, 32, sha256.New)
}

// Cipher encrypts small values and snapshot files with AES-256-GCM.
// A Cipher with an empty key passes strings through unchanged.
type Cipher struct {
	key []byte
}

func NewCipher(keyStr string) *Cipher {
	if keyStr == "" {
		return &Cipher{}
	}
	return &Cipher{key: deriveKey(keyStr)}
}

// Keyed reports whether a key is configured.
func (c *Cipher) Keyed() bool {
	return len(c.key) > 0
}

func (c *Cipher) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}
	return aesgcm, nil
}

// Encrypt returns nonce+ciphertext.
func (c *Cipher) Encrypt(plaintext []byte) ([]byte, error) {
	if len(c.key) == 0 {
		return nil, fmt.Errorf("encryption key not configured")
	}
	aesgcm, err := c.gcm()
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}

	ciphertext := aesgcm.Seal(nil, nonce, plaintext, nil)
	return append(nonce, ciphertext...), nil
}

// Decrypt expects the nonce+ciphertext layout produced by Encrypt.
func (c *Cipher) Decrypt(data []byte) ([]byte, error) {
	if len(c.key) == 0 {
		return nil, fmt.Errorf("encryption key not configured")
	}
	aesgcm, err := c.gcm()
	if err != nil {
		return nil, err
	}

	ns := aesgcm.NonceSize()
	if len(data) < ns {
		return nil, fmt.Errorf("cipher too short")
	}
	nonce, ciphertext := data[:ns], data[ns:]

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}
	return plaintext, nil
}

// EncryptString encrypts plain into base64. Empty input or an unkeyed
// Cipher returns plain unchanged.
func (c *Cipher) EncryptString(plain string) (string, error) {
	if plain == "" || len(c.key) == 0 {
		return plain, nil
	}
	b, err := c.Encrypt([]byte(plain))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// DecryptString reverses EncryptString, returning the input as-is when it
// cannot be decoded.
func (c *Cipher) DecryptString(cipherStr string) string {
	if cipherStr == "" || len(c.key) == 0 {
		return cipherStr
	}
	b, err := base64.StdEncoding.DecodeString(cipherStr)
	if err != nil {
		return cipherStr
	}
	plain, err := c.Decrypt(b)
	if err != nil {
		return cipherStr
	}
	return string(plain)
}
