package driver

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/formflow/internal/logging"
	"github.com/aretw0/formflow/pkg/chain"
	"github.com/aretw0/formflow/pkg/compose"
	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/gate"
	"github.com/aretw0/formflow/pkg/navigation"
	"github.com/aretw0/formflow/pkg/normalize"
	"github.com/aretw0/formflow/pkg/ports"
	"github.com/aretw0/formflow/pkg/session"
)

// Phase is the page lifecycle state.
type Phase int

const (
	Uninitialized Phase = iota
	Initializing
	Ready
)

func (p Phase) String() string {
	switch p {
	case Initializing:
		return "initializing"
	case Ready:
		return "ready"
	default:
		return "uninitialized"
	}
}

// Outcome reports what a trigger did.
type Outcome struct {
	// State is the session after the trigger.
	State domain.State

	// Redirect is the destination navigated to, empty when the page stays.
	Redirect string

	// Ready is set when Load declared the page ready.
	Ready bool

	// Dropped is set when the trigger arrived while another was in flight.
	Dropped bool

	// Titles holds the archive list returned by ListArchive.
	Titles []domain.Title
}

// Driver orchestrates config, session, gate, webhook and navigation.
type Driver struct {
	config    ports.ConfigSource
	store     *session.Store
	webhook   ports.Webhook
	navigator ports.Navigator
	gate      *gate.Gate
	hooks     domain.LifecycleHooks
	logger    *slog.Logger

	mu    sync.Mutex
	phase Phase
}

// New creates a Driver.
func New(config ports.ConfigSource, store *session.Store, webhook ports.Webhook, opts ...Option) *Driver {
	d := &Driver{
		config:  config,
		store:   store,
		webhook: webhook,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.gate == nil {
		d.gate = gate.New()
	}
	return d
}

// Phase reports the lifecycle state of the current page.
func (d *Driver) Phase() Phase {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.phase
}

func (d *Driver) setPhase(p Phase) {
	d.mu.Lock()
	d.phase = p
	d.mu.Unlock()
}

// Gate exposes the submission gate.
func (d *Driver) Gate() *gate.Gate {
	return d.gate
}

// State returns the current session.
func (d *Driver) State(ctx context.Context) domain.State {
	return d.store.Read(ctx)
}

// Load runs page-load initialization for page.
func (d *Driver) Load(ctx context.Context, page domain.Page) (Outcome, error) {
	d.setPhase(Initializing)
	out, err := d.load(ctx, page)
	switch {
	case err != nil, out.Dropped, out.Redirect != "":
		d.setPhase(Uninitialized)
	default:
		d.setPhase(Ready)
		out.Ready = true
		d.emitDataReady(ctx, page)
	}
	return out, err
}

func (d *Driver) load(ctx context.Context, page domain.Page) (Outcome, error) {
	state := d.store.Read(ctx)
	roundTrip := page.Landing || !state.Initialized
	if roundTrip {
		release, ok := d.gate.TryEnter("")
		if !ok {
			return d.drop(ctx, page, domain.TriggerInit, state), nil
		}
		defer release()
	}

	cfg, err := d.loadConfig(ctx)
	if err != nil {
		return Outcome{}, err
	}
	if !roundTrip {
		d.logger.Debug("session already initialized, skipping round trip", logging.Page(page.File))
		return Outcome{State: state}, nil
	}

	vars, err := compose.ForInitialization(state, cfg.Initialization, page)
	if err != nil {
		return Outcome{State: state}, err
	}

	body, err := d.roundTrip(ctx, domain.TriggerInit, page, cfg.Initialization.WebhookURL,
		domain.NewRequest(vars, state.Form, true))
	if err != nil {
		return Outcome{State: state}, err
	}

	resp := normalize.Parse(body)
	next := state.MergeVariables(resp.Variables)
	if resp.HasForm {
		next = next.MergeForm(resp.Form)
	}
	next.Initialized = true
	if err := d.store.Write(ctx, next); err != nil {
		return Outcome{State: state}, err
	}

	if !page.Landing {
		return Outcome{State: next}, nil
	}
	return d.navigate(ctx, page, next, navigation.InitializationCandidates(resp, cfg.Initialization))
}

// Submit handles a form submission on page.
func (d *Driver) Submit(ctx context.Context, page domain.Page, sub domain.Submission) (Outcome, error) {
	message, _ := chain.First(sub.Submitter.WaitingMessage, sub.Form.WaitingMessage)
	release, ok := d.gate.TryEnter(message)
	if !ok {
		return d.drop(ctx, page, domain.TriggerSubmit, d.store.Read(ctx)), nil
	}
	defer release()

	cfg, err := d.loadConfig(ctx)
	if err != nil {
		return Outcome{}, err
	}

	state := d.store.Read(ctx)
	step := cfg.Step(page.File)

	vars, err := compose.ForSubmission(state, step, page, sub.Form, sub.Submitter)
	if err != nil {
		return Outcome{State: state}, err
	}

	body, err := d.roundTrip(ctx, domain.TriggerSubmit, page, cfg.Initialization.WebhookURL,
		domain.NewRequest(vars, sub.Fields, false))
	if err != nil {
		return Outcome{State: state}, err
	}

	resp := normalize.Parse(body)
	next := state.MergeForm(sub.Fields).MergeVariables(resp.Variables)
	if err := d.store.Write(ctx, next); err != nil {
		return Outcome{State: state}, err
	}

	return d.navigate(ctx, page, next, navigation.SubmissionCandidates(resp, sub.Submitter, sub.Form, step))
}

// Invoke handles a discrete action on page.
func (d *Driver) Invoke(ctx context.Context, page domain.Page, action domain.Declaration) (Outcome, error) {
	release, ok := d.gate.TryEnter(action.WaitingMessage)
	if !ok {
		return d.drop(ctx, page, domain.TriggerAction, d.store.Read(ctx)), nil
	}
	defer release()

	cfg, err := d.loadConfig(ctx)
	if err != nil {
		return Outcome{}, err
	}

	state := d.store.Read(ctx)
	step := cfg.Step(page.File)

	vars, err := compose.ForAction(state, step, page, action)
	if err != nil {
		return Outcome{State: state}, err
	}

	body, err := d.roundTrip(ctx, domain.TriggerAction, page, cfg.Initialization.WebhookURL,
		domain.NewRequest(vars, nil, false))
	if err != nil {
		return Outcome{State: state}, err
	}

	resp := normalize.Parse(body)
	next := state.MergeVariables(resp.Variables)
	if err := d.store.Write(ctx, next); err != nil {
		return Outcome{State: state}, err
	}

	return d.navigate(ctx, page, next, navigation.ActionCandidates(resp, action, step))
}

// Reset removes the session record. The next read yields a fresh session.
func (d *Driver) Reset(ctx context.Context) error {
	if err := d.store.Clear(ctx); err != nil {
		return err
	}
	d.setPhase(Uninitialized)
	d.logger.Info("session reset", logging.Key(d.store.Key()))
	return nil
}

func (d *Driver) loadConfig(ctx context.Context) (*domain.FlowConfig, error) {
	cfg, err := d.config.Load(ctx)
	if err != nil {
		d.logger.Error("failed to load flow config", logging.Err(err))
		return nil, err
	}
	if cfg.Initialization.WebhookURL == "" {
		return nil, domain.ErrMissingWebhook
	}
	return cfg, nil
}

func (d *Driver) roundTrip(ctx context.Context, trigger domain.Trigger, page domain.Page, url string, req domain.Request) ([]byte, error) {
	start := time.Now()
	body, err := d.webhook.Post(ctx, url, req)
	if err == nil && ctx.Err() != nil {
		// The host abandoned the page; the answer is discarded.
		err = fmt.Errorf("%w: %w", domain.ErrRequestFailed, ctx.Err())
	}
	dur := time.Since(start)

	if d.hooks.OnRoundTrip != nil {
		d.hooks.OnRoundTrip(ctx, &domain.RoundTripEvent{
			EventBase: domain.NewEventBase(domain.EventRoundTrip, page.File),
			Trigger:   trigger,
			Duration:  dur,
			Err:       err,
		})
	}

	if err != nil {
		d.logger.Warn("round trip failed",
			logging.Page(page.File), logging.Trigger(trigger), slog.Duration("duration", dur), logging.Err(err))
		return nil, err
	}
	d.logger.Debug("round trip completed",
		logging.Page(page.File), logging.Trigger(trigger), slog.Duration("duration", dur))
	return body, nil
}

// navigate resolves the destination and performs the redirect. The session has already
// been persisted, so a missing destination keeps the merged state.
func (d *Driver) navigate(ctx context.Context, page domain.Page, state domain.State, candidates []string) (Outcome, error) {
	dest, err := navigation.ResolveNext(candidates...)
	if err != nil {
		d.logger.Warn("no destination resolved", logging.Page(page.File), logging.Err(err))
		return Outcome{State: state}, err
	}

	if d.navigator != nil {
		if err := d.navigator.Redirect(ctx, dest); err != nil {
			return Outcome{State: state}, fmt.Errorf("redirect to %s: %w", dest, err)
		}
	}

	if d.hooks.OnRedirect != nil {
		d.hooks.OnRedirect(ctx, &domain.NavigationEvent{
			EventBase:   domain.NewEventBase(domain.EventRedirect, page.File),
			Destination: dest,
		})
	}
	d.logger.Info("redirect", logging.Page(page.File), logging.Destination(dest))
	return Outcome{State: state, Redirect: dest}, nil
}

func (d *Driver) drop(ctx context.Context, page domain.Page, trigger domain.Trigger, state domain.State) Outcome {
	d.logger.Debug("trigger dropped while busy", logging.Page(page.File), logging.Trigger(trigger))
	if d.hooks.OnDropped != nil {
		d.hooks.OnDropped(ctx, &domain.PageEvent{
			EventBase: domain.NewEventBase(domain.EventDropped, page.File),
			Trigger:   trigger,
		})
	}
	return Outcome{State: state, Dropped: true}
}

func (d *Driver) emitDataReady(ctx context.Context, page domain.Page) {
	if d.hooks.OnDataReady != nil {
		d.hooks.OnDataReady(ctx, &domain.PageEvent{
			EventBase: domain.NewEventBase(domain.EventDataReady, page.File),
			Trigger:   domain.TriggerInit,
		})
	}
}
