package driver_test

import (
	"context"
	"sync"
	"testing"

	"github.com/aretw0/formflow/pkg/adapters/memory"
	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/driver"
	"github.com/aretw0/formflow/pkg/ports"
	"github.com/aretw0/formflow/pkg/session"
)

type staticConfig struct {
	cfg *domain.FlowConfig
	err error
}

func (s staticConfig) Load(ctx context.Context) (*domain.FlowConfig, error) {
	return s.cfg, s.err
}

// countingConfig counts loads and fails every one of them.
type countingConfig struct {
	mu    sync.Mutex
	loads int
}

func (c *countingConfig) Load(ctx context.Context) (*domain.FlowConfig, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loads++
	return nil, domain.ErrConfigLoad
}

func (c *countingConfig) Loads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loads
}

type call struct {
	URL     string
	Request domain.Request
}

// fakeWebhook records requests and answers with a canned body.
type fakeWebhook struct {
	mu      sync.Mutex
	calls   []call
	body    string
	err     error
	entered chan struct{} // signalled when a call starts, if set
	hold    chan struct{} // blocks the call until closed, if set
}

func (f *fakeWebhook) Post(ctx context.Context, url string, req domain.Request) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{URL: url, Request: req})
	f.mu.Unlock()

	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.hold != nil {
		<-f.hold
	}
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.body), nil
}

func (f *fakeWebhook) Calls() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

type recordingNavigator struct {
	mu           sync.Mutex
	destinations []string
}

func (n *recordingNavigator) Redirect(ctx context.Context, dest string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.destinations = append(n.destinations, dest)
	return nil
}

type fixture struct {
	blobs  *memory.Store
	store  *session.Store
	hook   *fakeWebhook
	nav    *recordingNavigator
	driver *driver.Driver
	events *eventLog
	cfg    *domain.FlowConfig
	cfgSrc ports.ConfigSource
}

type eventLog struct {
	mu        sync.Mutex
	ready     []string
	dropped   []domain.Trigger
	redirects []string
	trips     []domain.Trigger
}

func (e *eventLog) hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDataReady: func(ctx context.Context, ev *domain.PageEvent) {
			e.mu.Lock()
			defer e.mu.Unlock()
			e.ready = append(e.ready, ev.Page)
		},
		OnDropped: func(ctx context.Context, ev *domain.PageEvent) {
			e.mu.Lock()
			defer e.mu.Unlock()
			e.dropped = append(e.dropped, ev.Trigger)
		},
		OnRedirect: func(ctx context.Context, ev *domain.NavigationEvent) {
			e.mu.Lock()
			defer e.mu.Unlock()
			e.redirects = append(e.redirects, ev.Destination)
		},
		OnRoundTrip: func(ctx context.Context, ev *domain.RoundTripEvent) {
			e.mu.Lock()
			defer e.mu.Unlock()
			e.trips = append(e.trips, ev.Trigger)
		},
	}
}

func newFixture(t *testing.T, cfg *domain.FlowConfig, body string, opts ...driver.Option) *fixture {
	t.Helper()
	f := &fixture{
		blobs:  memory.NewStore(),
		hook:   &fakeWebhook{body: body},
		nav:    &recordingNavigator{},
		events: &eventLog{},
		cfg:    cfg,
	}
	f.store = session.New(f.blobs)
	f.cfgSrc = staticConfig{cfg: cfg}
	all := append([]driver.Option{
		driver.WithNavigator(f.nav),
		driver.WithHooks(f.events.hooks()),
	}, opts...)
	f.driver = driver.New(f.cfgSrc, f.store, f.hook, all...)
	return f
}

func (f *fixture) seed(t *testing.T, state domain.State) {
	t.Helper()
	if err := f.store.Write(context.Background(), state); err != nil {
		t.Fatal(err)
	}
}

func baseConfig() *domain.FlowConfig {
	return &domain.FlowConfig{
		Route: "oracle",
		Initialization: domain.Initialization{
			WebhookURL: "/hook",
			StartPage:  "step2.html",
		},
		StepsByPage: map[string]domain.StepConfig{
			"step2.html": {
				RequestVariables: map[string]any{"step": "question"},
				NextStepFallback: "step3.html",
			},
		},
	}
}

func page(file string) domain.Page {
	return domain.Page{File: file}
}
