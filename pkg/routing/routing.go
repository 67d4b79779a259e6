// Package routing maps a published route segment to the flow it opens.
package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/flowconfig"
	"github.com/aretw0/formflow/pkg/ports"
)

// DefaultRoutesLocation is the routes table served next to the flows.
const DefaultRoutesLocation = "routes.json"

// Routes is the routes table document.
type Routes struct {
	Routes map[string]string `json:"routes"`
}

// Target is a resolved route.
type Target struct {
	Segment    string
	ConfigPath string // as listed in the routes table
	FlowPath   string // entry page of the flow
	Config     *domain.FlowConfig
}

// Resolver resolves route segments against a routes table.
type Resolver struct {
	location string
	open     func(string) ports.ConfigSource
}

// Option configures the Resolver.
type Option func(*Resolver)

// WithOpener replaces flowconfig.Open for loading the flow config a route points at.
func WithOpener(open func(string) ports.ConfigSource) Option {
	return func(r *Resolver) {
		r.open = open
	}
}

// NewResolver creates a Resolver reading the routes table at location.
func NewResolver(location string, opts ...Option) *Resolver {
	if location == "" {
		location = DefaultRoutesLocation
	}
	r := &Resolver{location: location, open: flowconfig.Open}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LoadRoutes reads the routes table. Every call reads it afresh.
func (r *Resolver) LoadRoutes(ctx context.Context) (Routes, error) {
	data, err := flowconfig.Fetch(ctx, r.location)
	if err != nil {
		return Routes{}, fmt.Errorf("%w: routes: %w", domain.ErrConfigLoad, err)
	}
	var routes Routes
	if err := json.Unmarshal(data, &routes); err != nil {
		return Routes{}, fmt.Errorf("%w: routes: %w", domain.ErrConfigLoad, err)
	}
	return routes, nil
}

// Resolve finds the config for segment, checks that the config was published under
// that segment, and returns the flow's entry path.
func (r *Resolver) Resolve(ctx context.Context, segment string) (Target, error) {
	if segment == "" {
		return Target{}, fmt.Errorf("%w: empty route", domain.ErrRouteNotFound)
	}

	routes, err := r.LoadRoutes(ctx)
	if err != nil {
		return Target{}, err
	}
	configPath := routes.Routes[segment]
	if configPath == "" {
		return Target{}, fmt.Errorf("%w: %q", domain.ErrRouteNotFound, segment)
	}

	cfg, err := r.open(r.locate(configPath)).Load(ctx)
	if err != nil {
		return Target{}, err
	}
	if cfg.Route != "" && cfg.Route != segment {
		return Target{}, fmt.Errorf("%w: expected %q but opened %q", domain.ErrRouteMismatch, cfg.Route, segment)
	}

	return Target{
		Segment:    segment,
		ConfigPath: configPath,
		FlowPath:   FlowPath(configPath),
		Config:     cfg,
	}, nil
}

// locate resolves a config path listed in the table relative to the table itself.
func (r *Resolver) locate(configPath string) string {
	if flowconfig.IsRemote(configPath) {
		return configPath
	}
	if flowconfig.IsRemote(r.location) {
		base, err := url.Parse(r.location)
		if err != nil {
			return configPath
		}
		ref, err := url.Parse(configPath)
		if err != nil {
			return configPath
		}
		return base.ResolveReference(ref).String()
	}
	return filepath.Join(filepath.Dir(r.location), filepath.FromSlash(strings.TrimPrefix(configPath, "/")))
}

// FlowPath turns a config path into the flow's entry page: it ensures a leading slash,
// swaps a trailing config.json for index.html and replaces spaces with dashes.
func FlowPath(configPath string) string {
	if configPath == "" {
		return ""
	}
	p := configPath
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if strings.HasSuffix(p, "config.json") {
		p = strings.TrimSuffix(p, "config.json") + "index.html"
	}
	return strings.ReplaceAll(p, " ", "-")
}

// Segment returns the first non-empty segment of a URL path.
func Segment(urlPath string) string {
	for _, part := range strings.Split(urlPath, "/") {
		if part != "" {
			return part
		}
	}
	return ""
}
