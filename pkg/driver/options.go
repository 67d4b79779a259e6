package driver

import (
	"log/slog"

	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/gate"
	"github.com/aretw0/formflow/pkg/ports"
)

// Option configures the Driver.
type Option func(*Driver)

// WithNavigator sets the port that performs redirects.
// Without one, redirects are only reported in the Outcome.
func WithNavigator(nav ports.Navigator) Option {
	return func(d *Driver) {
		d.navigator = nav
	}
}

// WithGate replaces the driver's own submission gate, e.g. to share an indicator.
func WithGate(g *gate.Gate) Option {
	return func(d *Driver) {
		d.gate = g
	}
}

// WithHooks registers lifecycle callbacks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(d *Driver) {
		d.hooks = hooks
	}
}

// WithLogger configures the driver logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		d.logger = logger
	}
}
