package formflow

import (
	"context"
	"fmt"
	"log/slog"
	"path"

	"github.com/aretw0/formflow/internal/logging"
	"github.com/aretw0/formflow/pkg/adapters/memory"
	"github.com/aretw0/formflow/pkg/adapters/webhook"
	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/driver"
	"github.com/aretw0/formflow/pkg/flowconfig"
	"github.com/aretw0/formflow/pkg/gate"
	"github.com/aretw0/formflow/pkg/ports"
	"github.com/aretw0/formflow/pkg/session"
)

// Flow is the high-level entry point for the formflow library.
// It wires a config source, a session store, the webhook client and the driver.
type Flow struct {
	driver     *driver.Driver
	store      *session.Store
	config     ports.ConfigSource
	blobs      ports.BlobStore
	webhook    ports.Webhook
	navigator  ports.Navigator
	storageKey string
	gateOpts   []gate.Option
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	Name       string
}

// Option defines a functional option for configuring the Flow.
type Option func(*Flow)

// WithConfigSource injects a custom config source, bypassing the location.
func WithConfigSource(src ports.ConfigSource) Option {
	return func(f *Flow) {
		f.config = src
	}
}

// WithStore sets the blob store the session is persisted in (default: in memory).
func WithStore(store ports.BlobStore) Option {
	return func(f *Flow) {
		f.blobs = store
	}
}

// WithStorageKey sets the key the session record lives under.
func WithStorageKey(key string) Option {
	return func(f *Flow) {
		f.storageKey = key
	}
}

// WithWebhook replaces the default HTTP webhook client.
func WithWebhook(w ports.Webhook) Option {
	return func(f *Flow) {
		f.webhook = w
	}
}

// WithNavigator sets the port that performs redirects.
func WithNavigator(nav ports.Navigator) Option {
	return func(f *Flow) {
		f.navigator = nav
	}
}

// WithIndicator shows the busy state while a request is in flight.
func WithIndicator(ind gate.Indicator) Option {
	return func(f *Flow) {
		f.gateOpts = append(f.gateOpts, gate.WithIndicator(ind))
	}
}

// WithControls registers the elements disabled while a request is in flight.
func WithControls(c gate.Controls) Option {
	return func(f *Flow) {
		f.gateOpts = append(f.gateOpts, gate.WithControls(c))
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(f *Flow) {
		f.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Flow) {
		f.logger = logger
	}
}

// New opens the flow configured at location, a file path or an http(s) URL.
// If WithConfigSource is provided, location is only used as a label.
func New(location string, opts ...Option) (*Flow, error) {
	f := &Flow{storageKey: domain.DefaultStorageKey}
	for _, opt := range opts {
		opt(f)
	}

	if f.config == nil {
		if location == "" {
			return nil, fmt.Errorf("location is required when no config source is provided")
		}
		f.config = flowconfig.Open(location)
	}
	if location != "" {
		f.Name = path.Base(location)
	}

	if f.logger == nil {
		f.logger = logging.NewNop()
	}
	if f.Name != "" {
		f.logger = f.logger.With("flow", f.Name)
	}

	if f.blobs == nil {
		f.blobs = memory.NewStore()
	}
	if f.webhook == nil {
		f.webhook = webhook.New(webhook.WithLogger(f.logger))
	}

	f.store = session.New(f.blobs,
		session.WithKey(f.storageKey),
		session.WithLogger(f.logger),
	)

	driverOpts := []driver.Option{
		driver.WithGate(gate.New(f.gateOpts...)),
		driver.WithHooks(f.hooks),
		driver.WithLogger(f.logger),
	}
	if f.navigator != nil {
		driverOpts = append(driverOpts, driver.WithNavigator(f.navigator))
	}
	f.driver = driver.New(f.config, f.store, f.webhook, driverOpts...)

	return f, nil
}

// Load runs page-load initialization.
func (f *Flow) Load(ctx context.Context, page domain.Page) (driver.Outcome, error) {
	return f.driver.Load(ctx, page)
}

// Submit handles a form submission.
func (f *Flow) Submit(ctx context.Context, page domain.Page, sub domain.Submission) (driver.Outcome, error) {
	return f.driver.Submit(ctx, page, sub)
}

// Invoke handles a discrete action.
func (f *Flow) Invoke(ctx context.Context, page domain.Page, action domain.Declaration) (driver.Outcome, error) {
	return f.driver.Invoke(ctx, page, action)
}

// ListArchive requests the archive list.
func (f *Flow) ListArchive(ctx context.Context, page domain.Page) (driver.Outcome, error) {
	return f.driver.ListArchive(ctx, page)
}

// SelectArchive restores one archive entry into the session.
func (f *Flow) SelectArchive(ctx context.Context, page domain.Page, title domain.Title) (driver.Outcome, error) {
	return f.driver.SelectArchive(ctx, page, title)
}

// Reset clears the session.
func (f *Flow) Reset(ctx context.Context) error {
	return f.driver.Reset(ctx)
}

// State returns the current session record.
func (f *Flow) State(ctx context.Context) domain.State {
	return f.driver.State(ctx)
}

// Inspect reads the session record without failing open, so hosts can report corruption.
func (f *Flow) Inspect(ctx context.Context) session.ReadResult {
	return f.store.Inspect(ctx)
}

// StorageKey returns the key the session record lives under.
func (f *Flow) StorageKey() string {
	return f.store.Key()
}

// Config loads the flow configuration document.
func (f *Flow) Config(ctx context.Context) (*domain.FlowConfig, error) {
	return f.config.Load(ctx)
}

// Driver exposes the underlying driver.
func (f *Flow) Driver() *driver.Driver {
	return f.driver
}
