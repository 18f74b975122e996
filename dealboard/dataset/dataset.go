// Package dataset reads and writes record snapshots: the collections a
// fetcher has already pulled from the dashboard API and saved as JSON or
// YAML. Fetching itself happens elsewhere; the query pipeline only ever
// sees what this package returns.
package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/web-source-dev/dealboard/types"
)

const (
	defaultLockTimeout = 5 * time.Second
	lockRetryInterval  = 50 * time.Millisecond
)

// Format is a snapshot encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// envelopeKeys are tried in order when a snapshot is a JSON object
// wrapping the records, as API responses are
var envelopeKeys = []string{"data", "items", "records", "results"}

// FormatFor picks the format from a file extension; anything but
// .yaml and .yml is JSON
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Store loads and saves snapshots under a lock file next to the snapshot
type Store struct {
	lockFactory FileLockFactory
	lockTimeout time.Duration
	logger      *slog.Logger
	timeFunc    func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithFileLockFactory sets a custom FileLockFactory
func WithFileLockFactory(factory FileLockFactory) Option {
	return func(s *Store) {
		s.lockFactory = factory
	}
}

// WithLockTimeout bounds how long Load and Save wait for the lock
func WithLockTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.lockTimeout = d
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates a Store using flock by default
func NewStore(opts ...Option) *Store {
	s := &Store{
		lockFactory: &FlockFactory{},
		lockTimeout: defaultLockTimeout,
		logger:      slog.Default(),
		timeFunc:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "dataset")
	return s
}

// Load reads a snapshot with the default Store
func Load(ctx context.Context, path string) ([]types.Record, error) {
	return NewStore().Load(ctx, path)
}

// Load reads the snapshot at path while holding a shared lock, so a
// fetcher rewriting it is never observed half way
func (s *Store) Load(ctx context.Context, path string) ([]types.Record, error) {
	start := s.timeFunc()

	unlock, err := s.lock(ctx, path, false)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	unlockErr := unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	if unlockErr != nil {
		s.logger.Warn("failed to release dataset lock", "path", path, "error", unlockErr)
	}

	records, err := Decode(data, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	s.logger.Debug("dataset loaded",
		"path", path,
		"records", len(records),
		"bytes", len(data),
		"duration", s.timeFunc().Sub(start))
	return records, nil
}

// Save writes records to path under an exclusive lock. The file is
// replaced atomically through a temporary file and rename.
func (s *Store) Save(ctx context.Context, path string, records []types.Record) error {
	data, err := Encode(records, FormatFor(path))
	if err != nil {
		return err
	}

	unlock, err := s.lock(ctx, path, true)
	if err != nil {
		return err
	}
	defer func() {
		if err := unlock(); err != nil {
			s.logger.Warn("failed to release dataset lock", "path", path, "error", err)
		}
	}()

	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmpFile, path); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to rename file: %w", err)
	}

	s.logger.Debug("dataset saved", "path", path, "records", len(records))
	return nil
}

// lock acquires the lock file of path and returns its release function
func (s *Store) lock(ctx context.Context, path string, exclusive bool) (func() error, error) {
	ctx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	fileLock := s.lockFactory.New(path + ".lock")

	var locked bool
	var err error
	if exclusive {
		locked, err = fileLock.TryLockContext(ctx, lockRetryInterval)
	} else {
		locked, err = fileLock.TryRLockContext(ctx, lockRetryInterval)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("could not acquire lock: timeout")
	}
	return fileLock.Unlock, nil
}

// Decode parses a snapshot. JSON snapshots may be a bare array or an
// object holding the array under data, items, records or results, or under
// its only key. YAML snapshots are a sequence of mappings.
func Decode(data []byte, format Format) ([]types.Record, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []types.Record{}, nil
	}

	var doc any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown dataset format %q", format)
	}

	items, err := unwrap(doc)
	if err != nil {
		return nil, err
	}

	records := make([]types.Record, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("record %d is %T, want an object", i, item)
		}
		records[i] = types.Record(obj)
	}
	return records, nil
}

// unwrap finds the record array in a decoded document
func unwrap(doc any) ([]any, error) {
	switch v := doc.(type) {
	case []any:
		return v, nil
	case map[string]any:
		for _, key := range envelopeKeys {
			if inner, ok := v[key]; ok {
				return unwrap(inner)
			}
		}
		if len(v) == 1 {
			for _, inner := range v {
				return unwrap(inner)
			}
		}
		return nil, errors.New("object has no record array under data, items, records or results")
	case nil:
		return []any{}, nil
	}
	return nil, fmt.Errorf("dataset is %T, want an array of records", doc)
}

// Encode serializes records in the given format
func Encode(records []types.Record, format Format) ([]byte, error) {
	if records == nil {
		records = []types.Record{}
	}
	switch format {
	case FormatYAML:
		data, err := yaml.Marshal(records)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal yaml: %w", err)
		}
		return data, nil
	case FormatJSON:
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal json: %w", err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("unknown dataset format %q", format)
}
