package views

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Registry holds views by name
type Registry struct {
	mu     sync.RWMutex
	views  map[string]*View
	logger *slog.Logger
}

// NewRegistry creates an empty registry. A nil logger uses slog.Default().
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		views:  make(map[string]*View),
		logger: logger.With("component", "views"),
	}
}

// Builtin returns a registry with the dashboard's built-in views
func Builtin() (*Registry, error) {
	r := NewRegistry(nil)
	if err := r.loadFS(builtinFS, "builtin"); err != nil {
		return nil, err
	}
	return r, nil
}

// Add registers a view, replacing any view with the same name
func (r *Registry) Add(v *View) error {
	if err := v.Validate(); err != nil {
		return fmt.Errorf("view %q: %w", v.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.views[v.Name]; exists {
		r.logger.Info("replacing view", "view", v.Name)
	}
	r.views[v.Name] = v
	return nil
}

// Get returns a view by name
func (r *Registry) Get(name string) (*View, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, exists := r.views[name]
	if !exists {
		return nil, fmt.Errorf("unknown view %q (available: %s)", name, strings.Join(r.namesLocked(), ", "))
	}
	return v, nil
}

// Names returns the registered view names, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.views))
	for name := range r.views {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadDir adds every .yaml and .yml view in dir. Views named like a
// built-in replace it.
func (r *Registry) LoadDir(dir string) error {
	return r.loadFS(os.DirFS(dir), ".")
}

func (r *Registry) loadFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("failed to read views directory: %w", err)
	}

	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}

		path := filepath.ToSlash(filepath.Join(dir, entry.Name()))
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("failed to read view %s: %w", path, err)
		}
		v, err := Parse(data)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := r.Add(v); err != nil {
			return err
		}
		r.logger.Debug("loaded view", "view", v.Name, "source", path, "fields", len(v.Fields))
	}
	return nil
}
