package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"

	"github.com/aretw0/formflow"
	"github.com/aretw0/formflow/internal/logging"
	"github.com/aretw0/formflow/internal/presentation/graph"
	"github.com/aretw0/formflow/internal/presentation/tui"
	"github.com/aretw0/formflow/internal/settings"
	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/driver"
	"github.com/aretw0/formflow/pkg/flowconfig"
	"github.com/aretw0/formflow/pkg/ports"
	"github.com/aretw0/formflow/pkg/session"
)

// LandingPage is treated as the flow's landing page unless told otherwise.
const LandingPage = "index.html"

// ErrSessionCorrupt is returned by State when the stored record cannot be decoded.
var ErrSessionCorrupt = errors.New("session record is corrupt")

// Options configures an App.
type Options struct {
	// Flow is the config location, a path or an http(s) URL.
	Flow     string
	Settings *settings.Settings
	Logger   *slog.Logger
	Stdout   io.Writer
	Stderr   io.Writer

	// Store overrides the blob store built from Settings.
	Store ports.BlobStore
	// Webhook overrides the HTTP client built from Settings.
	Webhook ports.Webhook
}

// App runs one formflow command against a persistent session.
type App struct {
	flow    *formflow.Flow
	console *tui.Console
	stdout  io.Writer
	render  tui.Renderer
	logger  *slog.Logger
	closer  func() error
}

// New builds an App from opts.
func New(opts Options) (*App, error) {
	if opts.Settings == nil {
		opts.Settings = settings.NewDefault()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Flow == "" {
		opts.Flow = flowconfig.DefaultLocation
	}

	a := &App{
		console: tui.NewConsole(opts.Stderr),
		stdout:  opts.Stdout,
		render:  tui.RendererFor(opts.Stdout),
		logger:  opts.Logger,
		closer:  func() error { return nil },
	}

	store := opts.Store
	if store == nil {
		blobs, closer, err := newBlobStore(opts.Settings)
		if err != nil {
			return nil, err
		}
		store, a.closer = blobs, closer
	}

	hook := opts.Webhook
	if hook == nil {
		client, err := newWebhook(opts.Settings, opts.Logger)
		if err != nil {
			return nil, err
		}
		hook = client
	}

	flow, err := formflow.New(opts.Flow,
		formflow.WithStore(store),
		formflow.WithStorageKey(opts.Settings.StorageKey),
		formflow.WithWebhook(hook),
		formflow.WithNavigator(Navigator(opts.Stdout)),
		formflow.WithIndicator(a.console),
		formflow.WithLogger(opts.Logger),
	)
	if err != nil {
		return nil, err
	}
	a.flow = flow
	return a, nil
}

// Close releases the store backend.
func (a *App) Close() error {
	return a.closer()
}

// Console exposes the stderr console, e.g. to report a failed command.
func (a *App) Console() *tui.Console {
	return a.console
}

// NewPage builds the page a command acts on. The landing flag is forced for LandingPage.
func NewPage(file string, query map[string]string, landing bool) domain.Page {
	values := make(url.Values, len(query))
	for k, v := range query {
		values.Set(k, v)
	}
	return domain.Page{
		File:    file,
		Query:   values,
		Landing: landing || file == LandingPage,
	}
}

// Open loads page.
func (a *App) Open(ctx context.Context, page domain.Page) error {
	out, err := a.flow.Load(ctx, page)
	if err != nil {
		return err
	}
	a.report(page, out)
	if out.Ready {
		a.console.Notice("%s is ready", page.File)
	}
	return nil
}

// Submit submits a form on page.
func (a *App) Submit(ctx context.Context, page domain.Page, sub domain.Submission) error {
	out, err := a.flow.Submit(ctx, page, sub)
	if err != nil {
		return err
	}
	a.report(page, out)
	return nil
}

// Action invokes an action on page.
func (a *App) Action(ctx context.Context, page domain.Page, action domain.Declaration) error {
	out, err := a.flow.Invoke(ctx, page, action)
	if err != nil {
		return err
	}
	a.report(page, out)
	return nil
}

// Reset clears the session.
func (a *App) Reset(ctx context.Context) error {
	if err := a.flow.Reset(ctx); err != nil {
		return err
	}
	a.console.Notice("session %q cleared", a.flow.StorageKey())
	return nil
}

// State prints the session record, as JSON or rendered markdown.
func (a *App) State(ctx context.Context, asJSON bool) error {
	res := a.flow.Inspect(ctx)
	switch res.Status {
	case session.ReadCorrupt:
		return fmt.Errorf("%w: %w", ErrSessionCorrupt, res.Err)
	case session.ReadUnavailable:
		return res.Err
	case session.ReadMissing:
		res.State = domain.NewState()
	}
	if asJSON {
		return a.printJSON(res.State)
	}
	return a.printMarkdown(tui.StateMarkdown(a.flow.StorageKey(), res.State))
}

// ArchiveList prints the archive list of the flow.
func (a *App) ArchiveList(ctx context.Context, page domain.Page, asJSON bool) error {
	out, err := a.flow.ListArchive(ctx, page)
	if err != nil {
		return err
	}
	if out.Dropped {
		a.report(page, out)
		return nil
	}
	if asJSON {
		return a.printJSON(out.Titles)
	}
	return a.printMarkdown(tui.TitlesMarkdown(out.Titles))
}

// ArchiveSelect restores the archive entry id. An empty title defaults to the id.
func (a *App) ArchiveSelect(ctx context.Context, page domain.Page, id, title string) error {
	if title == "" {
		title = id
	}
	out, err := a.flow.SelectArchive(ctx, page, domain.Title{Title: title, ID: id})
	if err != nil {
		return err
	}
	a.report(page, out)
	return nil
}

// Graph prints the flow's page graph as a Mermaid diagram, highlighting current if set.
func (a *App) Graph(ctx context.Context, current string) error {
	cfg, err := a.flow.Config(ctx)
	if err != nil {
		return err
	}
	var overlay *graph.GraphOverlay
	if current != "" {
		overlay = &graph.GraphOverlay{CurrentPage: current}
	}
	_, err = fmt.Fprint(a.stdout, graph.GenerateMermaid(cfg, overlay))
	return err
}

func (a *App) report(page domain.Page, out driver.Outcome) {
	if out.Dropped {
		a.console.Notice("a request is already in flight, %s ignored", page.File)
		a.logger.Info("trigger dropped", logging.Page(page.File))
	}
}

func (a *App) printJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *App) printMarkdown(md string) error {
	out, err := a.render(md)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(a.stdout, out)
	return err
}
