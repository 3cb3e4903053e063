package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// TokenCipher encrypts OAuth tokens at rest with AES-256-CBC. The wire
// format is hex(iv):hex(ciphertext); a fresh random IV is generated per
// encryption.
type TokenCipher struct {
	key []byte
}

// ErrInvalidCiphertext indicates a malformed or tampered ciphertext
var ErrInvalidCiphertext = errors.New("invalid ciphertext")

// NewTokenCipher creates a cipher from a 32-byte AES-256 key. There is no
// fallback key: a missing key must fail loudly instead of producing
// ciphertexts that become undecryptable after a restart.
func NewTokenCipher(key string) (*TokenCipher, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("token cipher requires a 32-byte key, got %d bytes", len(key))
	}
	return &TokenCipher{key: []byte(key)}, nil
}

// Encrypt encrypts a token. Empty input encrypts to empty output so that
// disconnected settings rows stay visibly empty.
func (c *TokenCipher) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("failed to generate IV: %w", err)
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(ciphertext), nil
}

// Decrypt reverses Encrypt
func (c *TokenCipher) Decrypt(encoded string) (string, error) {
	if encoded == "" {
		return "", nil
	}

	parts := strings.SplitN(encoded, ":", 2)
	if len(parts) != 2 {
		return "", ErrInvalidCiphertext
	}
	iv, err := hex.DecodeString(parts[0])
	if err != nil || len(iv) != aes.BlockSize {
		return "", ErrInvalidCiphertext
	}
	ciphertext, err := hex.DecodeString(parts[1])
	if err != nil || len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", ErrInvalidCiphertext
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := pkcs7Unpad(plaintext, aes.BlockSize)
	if err != nil {
		return "", err
	}
	return string(unpadded), nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(padding)}, padding)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrInvalidCiphertext
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize || padding > len(data) {
		return nil, ErrInvalidCiphertext
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, ErrInvalidCiphertext
		}
	}
	return data[:len(data)-padding], nil
}
