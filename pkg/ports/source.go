package ports

import (
	"context"

	"github.com/aretw0/formflow/pkg/domain"
)

// ConfigSource loads the flow configuration document.
// Implementations must not cache: every call observes the current document.
type ConfigSource interface {
	Load(ctx context.Context) (*domain.FlowConfig, error)
}

// Webhook sends one request to the decision service and returns the raw response body.
// A non-success status or a transport failure is reported as domain.ErrRequestFailed.
type Webhook interface {
	Post(ctx context.Context, url string, req domain.Request) ([]byte, error)
}

// Navigator performs the full page redirect that ends a successful step.
type Navigator interface {
	Redirect(ctx context.Context, destination string) error
}

// NavigatorFunc adapts a plain function to Navigator.
type NavigatorFunc func(ctx context.Context, destination string) error

// Redirect calls f.
func (f NavigatorFunc) Redirect(ctx context.Context, destination string) error {
	return f(ctx, destination)
}
