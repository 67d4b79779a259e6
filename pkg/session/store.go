package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/formflow/internal/logging"
	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/ports"
)

// ReadStatus classifies the outcome of a raw storage read.
type ReadStatus int

const (
	ReadOK ReadStatus = iota
	ReadMissing
	ReadCorrupt
	ReadUnavailable
)

func (s ReadStatus) String() string {
	switch s {
	case ReadOK:
		return "ok"
	case ReadMissing:
		return "missing"
	case ReadCorrupt:
		return "corrupt"
	case ReadUnavailable:
		return "unavailable"
	default:
		return fmt.Sprintf("ReadStatus(%d)", int(s))
	}
}

// ReadResult is the tagged result of reading the record.
// State is only meaningful when Status is ReadOK.
type ReadResult struct {
	Status ReadStatus
	State  domain.State
	Err    error
}

// Store reads and writes the session record held under one key.
type Store struct {
	blobs  ports.BlobStore
	key    string
	logger *slog.Logger
}

// Option configures the Store.
type Option func(*Store)

// WithKey overrides the namespace key (default domain.DefaultStorageKey).
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger configures a logger for degraded reads.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a Store over blobs.
func New(blobs ports.BlobStore, opts ...Option) *Store {
	s := &Store{
		blobs:  blobs,
		key:    domain.DefaultStorageKey,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the namespace key the record lives under.
func (s *Store) Key() string {
	return s.key
}

// Inspect reads the record and reports how the read went.
func (s *Store) Inspect(ctx context.Context) ReadResult {
	data, err := s.blobs.Get(ctx, s.key)
	if errors.Is(err, domain.ErrNotFound) {
		return ReadResult{Status: ReadMissing}
	}
	if err != nil {
		return ReadResult{Status: ReadUnavailable, Err: err}
	}

	var state domain.State
	if err := json.Unmarshal(data, &state); err != nil {
		return ReadResult{Status: ReadCorrupt, Err: err}
	}
	return ReadResult{Status: ReadOK, State: state.Normalize()}
}

// Read returns the stored session, or a fresh one when nothing usable is stored.
// It never fails.
func (s *Store) Read(ctx context.Context) domain.State {
	res := s.Inspect(ctx)
	switch res.Status {
	case ReadOK:
		return res.State
	case ReadCorrupt, ReadUnavailable:
		s.logger.Warn("session read degraded to defaults",
			logging.Key(s.key), slog.String("status", res.Status.String()), logging.Err(res.Err))
	}
	return domain.NewState()
}

// Write replaces the stored record with state.
func (s *Store) Write(ctx context.Context, state domain.State) error {
	data, err := json.Marshal(state.Normalize())
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.blobs.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Clear removes the record. The next Read yields a fresh session.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.blobs.Remove(ctx, s.key); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Raw returns the serialized record as stored, or nil when there is none.
func (s *Store) Raw(ctx context.Context) ([]byte, error) {
	data, err := s.blobs.Get(ctx, s.key)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return data, err
}
