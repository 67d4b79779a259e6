package flowconfig

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/ports"
)

// DefaultLocation is the document a flow page loads when nothing else is given.
const DefaultLocation = "config.json"

// File reads the document from the local filesystem.
type File struct {
	Path string
}

var _ ports.ConfigSource = File{}

// Load implements ports.ConfigSource.
func (f File) Load(ctx context.Context) (*domain.FlowConfig, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfigLoad, err)
	}

	format := FormatYAML
	if strings.EqualFold(filepath.Ext(f.Path), ".json") {
		format = FormatJSON
	}

	cfg, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrConfigLoad, f.Path, err)
	}
	return cfg, nil
}

// Remote fetches the document over HTTP.
type Remote struct {
	URL    string
	Client *http.Client
}

var _ ports.ConfigSource = Remote{}

// Load implements ports.ConfigSource. Caches are bypassed with Cache-Control: no-store.
func (r Remote) Load(ctx context.Context) (*domain.FlowConfig, error) {
	data, err := fetch(ctx, r.Client, r.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfigLoad, err)
	}

	cfg, err := Decode(data, FormatAuto)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrConfigLoad, r.URL, err)
	}
	return cfg, nil
}

// Fetch reads the raw document at location, a file path or an http(s) URL.
func Fetch(ctx context.Context, location string) ([]byte, error) {
	if IsRemote(location) {
		return fetch(ctx, nil, location)
	}
	return os.ReadFile(location)
}

func fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Accept", "application/json, application/yaml")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s returned status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// IsRemote reports whether location is an http(s) URL.
func IsRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Open picks Remote for http(s) locations and File for everything else.
// An empty location means DefaultLocation.
func Open(location string) ports.ConfigSource {
	if location == "" {
		location = DefaultLocation
	}
	if IsRemote(location) {
		return Remote{URL: location}
	}
	return File{Path: location}
}
