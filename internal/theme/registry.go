package theme

import (
	"fmt"
	"sort"
	"sync"

	emuerrors "github.com/alexisbeaulieu97/emuhud/pkg/errors"
)

type registration struct {
	meta    Metadata
	factory Factory
}

// Registry maps theme names to factories.
type Registry struct {
	mu     sync.RWMutex
	themes map[string]registration
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{themes: make(map[string]registration)}
}

// Register adds a theme factory under meta.Name.
func (r *Registry) Register(meta Metadata, factory Factory) error {
	if factory == nil {
		return emuerrors.NewThemeError(meta.Name, fmt.Errorf("factory is nil"))
	}
	if err := meta.Validate(); err != nil {
		return emuerrors.NewThemeError(meta.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.themes[meta.Name]; exists {
		return emuerrors.NewThemeError(meta.Name, fmt.Errorf("theme already registered"))
	}
	r.themes[meta.Name] = registration{meta: meta, factory: factory}
	return nil
}

// New builds a fresh instance of the named theme.
func (r *Registry) New(name string, opts Options) (Theme, error) {
	r.mu.RLock()
	reg, ok := r.themes[name]
	r.mu.RUnlock()
	if !ok {
		return nil, emuerrors.NewThemeError(name, fmt.Errorf("no theme registered"))
	}

	t, err := reg.factory(opts)
	if err != nil {
		return nil, emuerrors.NewThemeError(name, err)
	}
	return t, nil
}

// Metadata returns the metadata of the named theme.
func (r *Registry) Metadata(name string) (Metadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.themes[name]
	return reg.meta, ok
}

// Names returns the registered theme names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.themes))
	for name := range r.themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns the metadata of every registered theme, sorted by name.
func (r *Registry) List() []Metadata {
	names := r.Names()
	out := make([]Metadata, 0, len(names))
	for _, name := range names {
		meta, _ := r.Metadata(name)
		out = append(out, meta)
	}
	return out
}

var (
	defaultMu       sync.RWMutex
	defaultRegistry = NewRegistry()
)

// RegisterTheme adds a theme to the process-wide registry. Theme packages
// call it from init.
func RegisterTheme(meta Metadata, factory Factory) error {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultRegistry.Register(meta, factory)
}

// Default returns the process-wide registry.
func Default() *Registry {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultRegistry
}

// ResetRegistry clears theme registrations (for tests).
func ResetRegistry() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultRegistry = NewRegistry()
}
