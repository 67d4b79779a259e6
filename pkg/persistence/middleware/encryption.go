package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/formflow/pkg/ports"
)

// envelopeField is the only field of a record written through the encryption middleware.
const envelopeField = "__encrypted__"

// ErrMissingEnvelope is returned when a stored record was not written by the encryption middleware.
var ErrMissingEnvelope = errors.New("record is missing encrypted data envelope")

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new data.
	// Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys are tried in order when the active key cannot decrypt a record.
	FallbackKeys [][]byte
}

type envelope struct {
	Encrypted string `json:"__encrypted__"`
}

type encryptionMiddleware struct {
	next   ports.BlobStore
	config EncryptionConfig
}

// NewEncryptionMiddleware creates a middleware that encrypts records using AES-GCM.
// The stored value is a JSON envelope holding only the base64 ciphertext.
func NewEncryptionMiddleware(config EncryptionConfig) Middleware {
	if len(config.ActiveKey) != 32 {
		panic("active key must be 32 bytes (AES-256)")
	}
	return func(next ports.BlobStore) ports.BlobStore {
		return &encryptionMiddleware{
			next:   next,
			config: config,
		}
	}
}

// DecodeKey parses a base64 encoded AES-256 key.
func DecodeKey(encoded string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode key base64: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("key must be 32 bytes, got %d", len(key))
	}
	return key, nil
}

func (m *encryptionMiddleware) Set(ctx context.Context, key string, value []byte) error {
	ciphertext, err := encrypt(value, m.config.ActiveKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt record: %w", err)
	}

	data, err := json.Marshal(envelope{Encrypted: base64.StdEncoding.EncodeToString(ciphertext)})
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}

	return m.next.Set(ctx, key, data)
}

func (m *encryptionMiddleware) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := m.next.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	// Plain records are rejected rather than passed through.
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil || env.Encrypted == "" {
		return nil, ErrMissingEnvelope
	}

	ciphertext, err := base64.StdEncoding.DecodeString(env.Encrypted)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext base64: %w", err)
	}

	plainText, err := decryptWithRotation(ciphertext, m.config.ActiveKey, m.config.FallbackKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt record: %w", err)
	}
	return plainText, nil
}

func (m *encryptionMiddleware) Remove(ctx context.Context, key string) error {
	return m.next.Remove(ctx, key)
}

// Helpers

func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decryptWithRotation(ciphertext []byte, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	if plain, err := decrypt(ciphertext, activeKey); err == nil {
		return plain, nil
	}

	for _, key := range fallbackKeys {
		if plain, err := decrypt(ciphertext, key); err == nil {
			return plain, nil
		}
	}

	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce := ciphertext[:gcm.NonceSize()]
	return gcm.Open(nil, nonce, ciphertext[gcm.NonceSize():], nil)
}
