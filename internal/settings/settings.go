// Package settings loads process-level configuration from the environment.
package settings

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/aretw0/formflow/pkg/adapters/file"
	"github.com/aretw0/formflow/pkg/adapters/redis"
	"github.com/aretw0/formflow/pkg/adapters/webhook"
	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/persistence/middleware"
)

// Prefix is the environment variable prefix, e.g. FORMFLOW_STORE.
const Prefix = "formflow"

// Store backends.
const (
	StoreFile   = "file"
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

var (
	ErrInvalidStore         = errors.New("invalid store backend")
	ErrMissingRedisAddr     = errors.New("redis store requires an address")
	ErrInvalidRedisDB       = errors.New("redis db must not be negative")
	ErrInvalidTimeout       = errors.New("webhook timeout must be positive")
	ErrInvalidEncryptionKey = errors.New("encryption key must be 32 base64-encoded bytes")
	ErrEmptyStorageKey      = errors.New("storage key must not be empty")
)

// Settings holds everything a host process reads from the environment.
type Settings struct {
	Store          string        `envconfig:"STORE" default:"file"`
	StoreDir       string        `envconfig:"STORE_DIR"`
	StorageKey     string        `envconfig:"STORAGE_KEY"`
	RedisAddr      string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword  string        `envconfig:"REDIS_PASSWORD"`
	RedisDB        int           `envconfig:"REDIS_DB"`
	RedisPrefix    string        `envconfig:"REDIS_PREFIX"`
	BaseURL        string        `envconfig:"BASE_URL"`
	WebhookTimeout time.Duration `envconfig:"WEBHOOK_TIMEOUT"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	EncryptionKey  string        `envconfig:"ENCRYPTION_KEY"`
}

// NewDefault returns settings with every default filled in.
func NewDefault() *Settings {
	return &Settings{
		Store:          StoreFile,
		StoreDir:       file.DefaultDir,
		StorageKey:     domain.DefaultStorageKey,
		RedisAddr:      "localhost:6379",
		RedisPrefix:    redis.DefaultPrefix,
		WebhookTimeout: webhook.DefaultTimeout,
		LogLevel:       "info",
	}
}

// Load reads an optional .env file (or the given files) and then the
// FORMFLOW_* variables. Variables already set in the process win over the file.
func Load(envFiles ...string) (*Settings, error) {
	if err := loadDotenv(envFiles...); err != nil {
		return nil, err
	}
	s := NewDefault()
	if err := envconfig.Process(Prefix, s); err != nil {
		return nil, fmt.Errorf("error processing environment configuration: %w", err)
	}
	return s, nil
}

func loadDotenv(files ...string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		files = []string{".env"}
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("error loading env file: %w", err)
	}
	return nil
}

// Validate checks that all settings are usable.
func (s *Settings) Validate() error {
	switch s.Store {
	case StoreFile, StoreMemory:
	case StoreRedis:
		if s.RedisAddr == "" {
			return ErrMissingRedisAddr
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStore, s.Store)
	}

	if s.RedisDB < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidRedisDB, s.RedisDB)
	}

	if s.WebhookTimeout <= 0 {
		return ErrInvalidTimeout
	}

	if s.StorageKey == "" {
		return ErrEmptyStorageKey
	}

	if s.EncryptionKey != "" {
		if _, err := s.Key(); err != nil {
			return err
		}
	}

	return nil
}

// Key decodes EncryptionKey. It returns nil, nil when encryption is off.
func (s *Settings) Key() ([]byte, error) {
	if s.EncryptionKey == "" {
		return nil, nil
	}
	key, err := middleware.DecodeKey(s.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEncryptionKey, err)
	}
	return key, nil
}
