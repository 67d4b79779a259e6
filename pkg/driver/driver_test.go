package driver_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/aretw0/formflow/pkg/adapters/memory"
	"github.com/aretw0/formflow/pkg/adapters/webhook"
	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/driver"
	"github.com/aretw0/formflow/pkg/gate"
	"github.com/aretw0/formflow/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_LandingEndToEnd(t *testing.T) {
	var received []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/hook", r.URL.Path)
		received, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"variables":{"name":"Lee"},"next_step":"step2.html"}`))
	}))
	defer server.Close()

	base, err := url.Parse(server.URL)
	require.NoError(t, err)

	blobs := memory.NewStore()
	store := session.New(blobs)
	nav := &recordingNavigator{}
	cfg := &domain.FlowConfig{Initialization: domain.Initialization{WebhookURL: "/hook", StartPage: "step2.html"}}
	d := driver.New(staticConfig{cfg: cfg}, store, webhook.New(webhook.WithBaseURL(base)), driver.WithNavigator(nav))
	ctx := context.Background()

	out, err := d.Load(ctx, domain.Page{File: "index.html", Landing: true})
	require.NoError(t, err)

	assert.JSONEq(t, `{"init":true,"variables":{},"form":{}}`, string(received))
	assert.Equal(t, "step2.html", out.Redirect)
	assert.Equal(t, []string{"step2.html"}, nav.destinations)
	assert.False(t, out.Ready)

	raw, err := blobs.Get(ctx, domain.DefaultStorageKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"variables":{"name":"Lee"},"form":{},"initialized":true}`, string(raw))
}

func TestLoad_LandingAlwaysRoundTrips(t *testing.T) {
	f := newFixture(t, baseConfig(), `{}`)
	state := domain.NewState()
	state.Initialized = true
	f.seed(t, state)

	out, err := f.driver.Load(context.Background(), domain.Page{File: "index.html", Landing: true})
	require.NoError(t, err)

	assert.Len(t, f.hook.Calls(), 1)
	assert.Equal(t, "step2.html", out.Redirect, "start_page is the fallback")
}

func TestLoad_LandingMissingDestination(t *testing.T) {
	cfg := baseConfig()
	cfg.Initialization.StartPage = ""
	f := newFixture(t, cfg, `{"variables":{"a":"1"}}`)

	_, err := f.driver.Load(context.Background(), domain.Page{File: "index.html", Landing: true})
	require.ErrorIs(t, err, domain.ErrMissingDestination)
	assert.Empty(t, f.nav.destinations)
	assert.Equal(t, driver.Uninitialized, f.driver.Phase())
}

func TestLoad_CastingIDAlias(t *testing.T) {
	f := newFixture(t, baseConfig(), `{}`)

	out, err := f.driver.Load(context.Background(), domain.Page{
		File:  "reading.html",
		Query: url.Values{"casting_id": {"42"}},
	})
	require.NoError(t, err)
	assert.True(t, out.Ready)

	calls := f.hook.Calls()
	require.Len(t, calls, 1)
	assert.True(t, calls[0].Request.Init)
	assert.Equal(t, "42", calls[0].Request.Variables["casting_id"])
	assert.Equal(t, "42", calls[0].Request.Variables["lookup_id"])
}

func TestLoad_ExplicitLookupIDWins(t *testing.T) {
	f := newFixture(t, baseConfig(), `{}`)

	_, err := f.driver.Load(context.Background(), domain.Page{
		File:  "reading.html",
		Query: url.Values{"casting_id": {"42"}, "lookup_id": {"7"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "7", f.hook.Calls()[0].Request.Variables["lookup_id"])
}

func TestLoad_SkipsWhenInitialized(t *testing.T) {
	f := newFixture(t, baseConfig(), `{}`)
	state := domain.NewState()
	state.Initialized = true
	state.Variables["name"] = "Lee"
	f.seed(t, state)

	out, err := f.driver.Load(context.Background(), page("step2.html"))
	require.NoError(t, err)

	assert.Empty(t, f.hook.Calls())
	assert.True(t, out.Ready)
	assert.Equal(t, driver.Ready, f.driver.Phase())
	assert.Equal(t, "Lee", out.State.Variables["name"])
	assert.Equal(t, []string{"step2.html"}, f.events.ready)
}

func TestLoad_InitializesOnce(t *testing.T) {
	cfg := baseConfig()
	cfg.Initialization.RequestVariables = map[string]any{"flow": "oracle"}
	f := newFixture(t, cfg, `[{"json":{"variables":{"greeting":"hi"},"form":{"question":"why"}}}]`)
	ctx := context.Background()

	out, err := f.driver.Load(ctx, page("step2.html"))
	require.NoError(t, err)
	assert.True(t, out.Ready)
	assert.Empty(t, out.Redirect)

	calls := f.hook.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/hook", calls[0].URL)
	assert.Equal(t, map[string]any{"flow": "oracle"}, calls[0].Request.Variables)

	state := f.store.Read(ctx)
	assert.True(t, state.Initialized)
	assert.Equal(t, "hi", state.Variables["greeting"])
	assert.Equal(t, "why", state.Form["question"])

	_, err = f.driver.Load(ctx, page("step3.html"))
	require.NoError(t, err)
	assert.Len(t, f.hook.Calls(), 1, "second page load skips the round trip")
	assert.Equal(t, []string{"step2.html", "step3.html"}, f.events.ready)
}

func TestLoad_ConfigErrors(t *testing.T) {
	ctx := context.Background()

	d := driver.New(staticConfig{err: domain.ErrConfigLoad}, session.New(memory.NewStore()), &fakeWebhook{})
	_, err := d.Load(ctx, page("step2.html"))
	assert.ErrorIs(t, err, domain.ErrConfigLoad)
	assert.Equal(t, driver.Uninitialized, d.Phase())

	d = driver.New(staticConfig{cfg: &domain.FlowConfig{}}, session.New(memory.NewStore()), &fakeWebhook{})
	_, err = d.Load(ctx, page("step2.html"))
	assert.ErrorIs(t, err, domain.ErrMissingWebhook)

	_, err = d.Submit(ctx, page("step2.html"), domain.Submission{})
	assert.ErrorIs(t, err, domain.ErrMissingWebhook)

	_, err = d.Invoke(ctx, page("step2.html"), domain.Declaration{})
	assert.ErrorIs(t, err, domain.ErrMissingWebhook)
}

func TestLoad_RequestFailureLeavesSession(t *testing.T) {
	f := newFixture(t, baseConfig(), ``)
	f.hook.err = domain.ErrRequestFailed

	_, err := f.driver.Load(context.Background(), page("step2.html"))
	require.ErrorIs(t, err, domain.ErrRequestFailed)

	_, err = f.blobs.Get(context.Background(), domain.DefaultStorageKey)
	assert.ErrorIs(t, err, domain.ErrNotFound, "nothing is persisted")
	assert.Empty(t, f.events.ready)
	assert.Equal(t, gate.Idle, f.driver.Gate().Status())
}

func TestSubmit_MergesFormAndVariables(t *testing.T) {
	f := newFixture(t, baseConfig(), `{"variables":{"reading":"hexagram 1"},"next_step":"reading.html"}`)
	state := domain.NewState()
	state.Initialized = true
	state.Variables["name"] = "Lee"
	state.Variables["step"] = "old"
	state.Form["question"] = "old question"
	state.Form["mood"] = "calm"
	f.seed(t, state)
	ctx := context.Background()

	out, err := f.driver.Submit(ctx, domain.Page{File: "step2.html", Query: url.Values{"mode": {"quick"}}}, domain.Submission{
		Fields:    map[string]string{"question": "why?"},
		Form:      domain.Declaration{RequestVariables: `{"source":"form","kind":"form"}`},
		Submitter: domain.Declaration{RequestVariables: `{"kind":"button"}`},
	})
	require.NoError(t, err)
	assert.Equal(t, "reading.html", out.Redirect)
	assert.Equal(t, []string{"reading.html"}, f.nav.destinations)

	calls := f.hook.Calls()
	require.Len(t, calls, 1)
	assert.False(t, calls[0].Request.Init)
	assert.Equal(t, map[string]string{"question": "why?"}, calls[0].Request.Form)
	assert.Equal(t, map[string]any{
		"name":   "Lee",
		"step":   "question",
		"mode":   "quick",
		"source": "form",
		"kind":   "button",
	}, calls[0].Request.Variables)

	stored := f.store.Read(ctx)
	assert.Equal(t, map[string]string{"question": "why?", "mood": "calm"}, stored.Form)
	assert.Equal(t, "hexagram 1", stored.Variables["reading"])
	assert.Equal(t, "Lee", stored.Variables["name"])
	assert.True(t, stored.Initialized)
}

func TestSubmit_FallbackOrder(t *testing.T) {
	f := newFixture(t, baseConfig(), `{}`)
	ctx := context.Background()

	out, err := f.driver.Submit(ctx, page("step2.html"), domain.Submission{
		Form:      domain.Declaration{NextStepFallback: "form.html"},
		Submitter: domain.Declaration{NextStepFallback: "button.html"},
	})
	require.NoError(t, err)
	assert.Equal(t, "button.html", out.Redirect)

	out, err = f.driver.Submit(ctx, page("step2.html"), domain.Submission{})
	require.NoError(t, err)
	assert.Equal(t, "step3.html", out.Redirect)
}

func TestSubmit_InvalidJSONLeavesSession(t *testing.T) {
	f := newFixture(t, baseConfig(), `{"next_step":"x.html"}`)
	state := domain.NewState()
	state.Variables["keep"] = "me"
	f.seed(t, state)
	ctx := context.Background()
	before, _ := f.blobs.Get(ctx, domain.DefaultStorageKey)

	_, err := f.driver.Submit(ctx, page("step2.html"), domain.Submission{
		Fields:    map[string]string{"question": "why"},
		Submitter: domain.Declaration{RequestVariables: `{"broken":`},
	})
	require.ErrorIs(t, err, domain.ErrInvalidVariableJSON)
	assert.Contains(t, err.Error(), "submitter")

	after, _ := f.blobs.Get(ctx, domain.DefaultStorageKey)
	assert.Equal(t, before, after)
	assert.Empty(t, f.hook.Calls())
	assert.Empty(t, f.nav.destinations)
	assert.Equal(t, gate.Idle, f.driver.Gate().Status())
}

func TestSubmit_RequestFailureLeavesSession(t *testing.T) {
	f := newFixture(t, baseConfig(), ``)
	f.hook.err = errors.Join(domain.ErrRequestFailed, errors.New("status 500"))
	state := domain.NewState()
	state.Form["question"] = "before"
	f.seed(t, state)
	ctx := context.Background()

	_, err := f.driver.Submit(ctx, page("step2.html"), domain.Submission{
		Fields: map[string]string{"question": "after"},
	})
	require.ErrorIs(t, err, domain.ErrRequestFailed)

	assert.Equal(t, "before", f.store.Read(ctx).Form["question"])
	assert.Empty(t, f.nav.destinations)
	assert.Equal(t, gate.Idle, f.driver.Gate().Status())
	assert.Equal(t, []domain.Trigger{domain.TriggerSubmit}, f.events.trips)
}

func TestSubmit_NonJSONAnswerLeavesSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, "<html>502 Bad Gateway</html>")
	}))
	defer server.Close()
	base, err := url.Parse(server.URL)
	require.NoError(t, err)

	store := session.New(memory.NewStore())
	nav := &recordingNavigator{}
	d := driver.New(staticConfig{cfg: baseConfig()}, store, webhook.New(webhook.WithBaseURL(base)),
		driver.WithNavigator(nav))
	ctx := context.Background()

	state := domain.NewState()
	state.Form["question"] = "before"
	state.Variables["name"] = "Lee"
	require.NoError(t, store.Write(ctx, state))

	out, err := d.Submit(ctx, page("step2.html"), domain.Submission{
		Fields: map[string]string{"question": "after"},
	})
	require.ErrorIs(t, err, domain.ErrRequestFailed)
	assert.Empty(t, out.Redirect)
	assert.Empty(t, nav.destinations)
	assert.Equal(t, state, store.Read(ctx))
	assert.Equal(t, gate.Idle, d.Gate().Status())
}

func TestLoad_SessionLookupIDKept(t *testing.T) {
	f := newFixture(t, baseConfig(), `{}`)
	state := domain.NewState()
	state.Variables["lookup_id"] = "7"
	f.seed(t, state)

	_, err := f.driver.Load(context.Background(), domain.Page{
		File:  "reading.html",
		Query: url.Values{"casting_id": {"42"}},
	})
	require.NoError(t, err)

	calls := f.hook.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "7", calls[0].Request.Variables["lookup_id"])
	assert.Equal(t, "42", calls[0].Request.Variables["casting_id"])
}

func TestSubmit_MissingDestinationPersists(t *testing.T) {
	cfg := baseConfig()
	cfg.StepsByPage = nil
	f := newFixture(t, cfg, `{"variables":{"reading":"done"}}`)
	ctx := context.Background()

	out, err := f.driver.Submit(ctx, page("step2.html"), domain.Submission{
		Fields: map[string]string{"question": "why"},
	})
	require.ErrorIs(t, err, domain.ErrMissingDestination)
	assert.Empty(t, out.Redirect)
	assert.Empty(t, f.nav.destinations)

	stored := f.store.Read(ctx)
	assert.Equal(t, "done", stored.Variables["reading"])
	assert.Equal(t, "why", stored.Form["question"])
}

func TestSubmit_OverlappingTriggersIssueOneCall(t *testing.T) {
	f := newFixture(t, baseConfig(), `{"next_step":"step3.html"}`)
	f.hook.entered = make(chan struct{}, 1)
	f.hook.hold = make(chan struct{})
	ctx := context.Background()

	done := make(chan driver.Outcome, 1)
	go func() {
		out, err := f.driver.Submit(ctx, page("step2.html"), domain.Submission{})
		assert.NoError(t, err)
		done <- out
	}()
	<-f.hook.entered

	out, err := f.driver.Submit(ctx, page("step2.html"), domain.Submission{})
	require.NoError(t, err)
	assert.True(t, out.Dropped)

	out, err = f.driver.Invoke(ctx, page("step2.html"), domain.Declaration{})
	require.NoError(t, err)
	assert.True(t, out.Dropped)

	close(f.hook.hold)
	first := <-done
	assert.False(t, first.Dropped)
	assert.Equal(t, "step3.html", first.Redirect)

	assert.Len(t, f.hook.Calls(), 1)
	assert.Equal(t, []domain.Trigger{domain.TriggerSubmit, domain.TriggerAction}, f.events.dropped)
	assert.Equal(t, gate.Idle, f.driver.Gate().Status())
}

func TestBusyTriggersLoadNoConfig(t *testing.T) {
	src := &countingConfig{}
	hook := &fakeWebhook{}
	d := driver.New(src, session.New(memory.NewStore()), hook)
	ctx := context.Background()

	release, ok := d.Gate().TryEnter("")
	require.True(t, ok)
	defer release()

	triggers := map[string]func() (driver.Outcome, error){
		"load": func() (driver.Outcome, error) {
			return d.Load(ctx, domain.Page{File: "index.html", Landing: true})
		},
		"submit": func() (driver.Outcome, error) {
			return d.Submit(ctx, page("step2.html"), domain.Submission{})
		},
		"action": func() (driver.Outcome, error) {
			return d.Invoke(ctx, page("step2.html"), domain.Declaration{})
		},
		"archive list": func() (driver.Outcome, error) {
			return d.ListArchive(ctx, page("archive.html"))
		},
		"archive select": func() (driver.Outcome, error) {
			return d.SelectArchive(ctx, page("archive.html"), domain.Title{Title: "r1", ID: "r1"})
		},
	}
	for name, trigger := range triggers {
		t.Run(name, func(t *testing.T) {
			out, err := trigger()
			require.NoError(t, err)
			assert.True(t, out.Dropped)
		})
	}

	assert.Zero(t, src.Loads())
	assert.Empty(t, hook.Calls())
}

func TestSubmit_WaitingMessage(t *testing.T) {
	var messages []string
	g := gate.New(gate.WithIndicator(gate.IndicatorFunc(func(busy bool, message string) {
		if busy {
			messages = append(messages, message)
		}
	})))
	f := newFixture(t, baseConfig(), `{}`, driver.WithGate(g))
	ctx := context.Background()

	_, _ = f.driver.Submit(ctx, page("step2.html"), domain.Submission{
		Form:      domain.Declaration{WaitingMessage: "Form wait"},
		Submitter: domain.Declaration{WaitingMessage: "Button wait"},
	})
	_, _ = f.driver.Submit(ctx, page("step2.html"), domain.Submission{
		Form: domain.Declaration{WaitingMessage: "Form wait"},
	})
	_, _ = f.driver.Invoke(ctx, page("step2.html"), domain.Declaration{})

	assert.Equal(t, []string{"Button wait", "Form wait", domain.DefaultWaitingMessage}, messages)
}

func TestInvoke_SendsEmptyFormAndMergesVariables(t *testing.T) {
	f := newFixture(t, baseConfig(), `{"variables":"Saved!","next_step":"done.html","saved_at":"now"}`)
	state := domain.NewState()
	state.Form["question"] = "kept"
	f.seed(t, state)
	ctx := context.Background()

	out, err := f.driver.Invoke(ctx, page("step2.html"), domain.Declaration{RequestVariables: `{"action":"save"}`})
	require.NoError(t, err)
	assert.Equal(t, "done.html", out.Redirect)

	calls := f.hook.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, map[string]string{}, calls[0].Request.Form)
	assert.Equal(t, "save", calls[0].Request.Variables["action"])
	assert.Equal(t, "question", calls[0].Request.Variables["step"])

	body, err := json.Marshal(calls[0].Request)
	require.NoError(t, err)
	assert.NotContains(t, string(body), `"init"`)

	stored := f.store.Read(ctx)
	assert.Equal(t, "Saved!", stored.Variables["message"])
	assert.Equal(t, "now", stored.Variables["saved_at"])
	assert.Equal(t, map[string]string{"question": "kept"}, stored.Form)
}

func TestInvoke_ActionFallback(t *testing.T) {
	f := newFixture(t, baseConfig(), `{}`)

	out, err := f.driver.Invoke(context.Background(), page("step2.html"), domain.Declaration{NextStepFallback: "archive.html"})
	require.NoError(t, err)
	assert.Equal(t, "archive.html", out.Redirect)
}

func TestReset(t *testing.T) {
	f := newFixture(t, baseConfig(), `{}`)
	ctx := context.Background()
	state := domain.NewState()
	state.Initialized = true
	state.Variables["name"] = "Lee"
	f.seed(t, state)

	_, err := f.driver.Load(ctx, page("step2.html"))
	require.NoError(t, err)

	require.NoError(t, f.driver.Reset(ctx))
	assert.Equal(t, domain.NewState(), f.driver.State(ctx))
	assert.Equal(t, driver.Uninitialized, f.driver.Phase())
}

func TestLoad_CorruptSessionFailsOpen(t *testing.T) {
	f := newFixture(t, baseConfig(), `{}`)
	require.NoError(t, f.blobs.Set(context.Background(), domain.DefaultStorageKey, []byte("{garbage")))

	out, err := f.driver.Load(context.Background(), page("step2.html"))
	require.NoError(t, err)
	assert.True(t, out.Ready)
	assert.Len(t, f.hook.Calls(), 1, "a corrupt record reads as uninitialized")
}

func TestLoad_CanceledContextPersistsNothing(t *testing.T) {
	f := newFixture(t, baseConfig(), `{"variables":{"late":"answer"}}`)
	ctx, cancel := context.WithCancel(context.Background())
	f.hook.entered = make(chan struct{}, 1)
	f.hook.hold = make(chan struct{})

	errs := make(chan error, 1)
	go func() {
		_, err := f.driver.Load(ctx, page("step2.html"))
		errs <- err
	}()
	<-f.hook.entered
	cancel()
	close(f.hook.hold)

	err := <-errs
	assert.ErrorIs(t, err, context.Canceled)
	_, getErr := f.blobs.Get(context.Background(), domain.DefaultStorageKey)
	assert.ErrorIs(t, getErr, domain.ErrNotFound)
}
