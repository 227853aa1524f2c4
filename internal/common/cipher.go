package common

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/nacl/secretbox"
)

const cipherPrefix = "sb1:"

var ErrInvalidCiphertext = errors.New("invalid ciphertext")

// MessageCipher seals message content at rest with NaCl secretbox.
// A nil *MessageCipher stores plaintext.
type MessageCipher struct {
	key [32]byte
}

// NewMessageCipher parses a 64 character hex key. An empty key disables encryption.
func NewMessageCipher(hexKey string) (*MessageCipher, error) {
	if hexKey == "" {
		return nil, nil
	}
	raw, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("decode message key: %w", err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("message key must be 32 bytes, got %d", len(raw))
	}
	c := &MessageCipher{}
	copy(c.key[:], raw)
	return c, nil
}

func (c *MessageCipher) Seal(plaintext string) (string, error) {
	if c == nil {
		return plaintext, nil
	}
	var nonce [24]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", err
	}
	sealed := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &c.key)
	return cipherPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// Open reverses Seal. Values without the cipher prefix are returned as-is so
// rows written before encryption was enabled stay readable.
func (c *MessageCipher) Open(stored string) (string, error) {
	if c == nil || !strings.HasPrefix(stored, cipherPrefix) {
		return stored, nil
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(stored, cipherPrefix))
	if err != nil || len(raw) < 24 {
		return "", ErrInvalidCiphertext
	}
	var nonce [24]byte
	copy(nonce[:], raw[:24])
	out, ok := secretbox.Open(nil, raw[24:], &nonce, &c.key)
	if !ok {
		return "", ErrInvalidCiphertext
	}
	return string(out), nil
}
