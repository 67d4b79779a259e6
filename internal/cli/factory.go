package cli

import (
	"fmt"
	"log/slog"
	"net/url"

	"github.com/aretw0/formflow/internal/settings"
	"github.com/aretw0/formflow/pkg/adapters/file"
	"github.com/aretw0/formflow/pkg/adapters/memory"
	"github.com/aretw0/formflow/pkg/adapters/redis"
	"github.com/aretw0/formflow/pkg/adapters/webhook"
	"github.com/aretw0/formflow/pkg/persistence/middleware"
	"github.com/aretw0/formflow/pkg/ports"
)

// newBlobStore builds the configured backend, wrapped in the encryption
// middleware when a key is set. The returned closer releases backend resources.
func newBlobStore(s *settings.Settings) (ports.BlobStore, func() error, error) {
	var (
		store  ports.BlobStore
		closer = func() error { return nil }
	)

	switch s.Store {
	case settings.StoreMemory:
		store = memory.NewStore()
	case settings.StoreRedis:
		r := redis.New(s.RedisAddr, s.RedisPassword, s.RedisDB, redis.WithPrefix(s.RedisPrefix))
		store, closer = r, r.Close
	case settings.StoreFile, "":
		store = file.New(s.StoreDir)
	default:
		return nil, nil, fmt.Errorf("%w: %q", settings.ErrInvalidStore, s.Store)
	}

	key, err := s.Key()
	if err != nil {
		return nil, nil, err
	}
	if key != nil {
		store = middleware.Chain(store, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey: key,
		}))
	}
	return store, closer, nil
}

// newWebhook builds the webhook client, resolving relative webhook URLs against
// the configured base URL.
func newWebhook(s *settings.Settings, logger *slog.Logger) (*webhook.Client, error) {
	opts := []webhook.Option{
		webhook.WithTimeout(s.WebhookTimeout),
		webhook.WithLogger(logger),
	}
	if s.BaseURL != "" {
		base, err := url.Parse(s.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid base url %q: %w", s.BaseURL, err)
		}
		opts = append(opts, webhook.WithBaseURL(base))
	}
	return webhook.New(opts...), nil
}
