// Package output provides formatters for displaying dupsweep scan results
// in various output formats (plain, pretty, json, yaml, paths).
//
// The package uses a registry pattern to allow registration of multiple
// formatter implementations that can be selected at runtime.
//
// Basic usage:
//
//	formatter, err := output.Get("plain")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	var buf bytes.Buffer
//	if err := formatter.Format(&buf, result); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(buf.String())
package output

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/jamesainslie/dupsweep/pkg/dupsweep/types"
)

// DefaultFormat is the formatter used when none is selected.
const DefaultFormat = "plain"

// ErrUnknownFormat is returned by Get for a name nothing registered.
var ErrUnknownFormat = errors.New("unknown output format")

// Formatter renders a scan result.
type Formatter interface {
	// Format writes the rendered result to w. Nothing is written to the
	// caller's destination until Format succeeds.
	Format(w *bytes.Buffer, r *types.ScanResult) error
}

// FormatterFactory creates a Formatter.
type FormatterFactory func() Formatter

// Registry maps format names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]FormatterFactory)}
}

// Register adds or replaces the factory for name.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	r.factories[name] = factory
	r.mu.Unlock()
}

// Get returns a new formatter for name.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q (available: %v)", ErrUnknownFormat, name, r.Available())
	}
	return factory(), nil
}

// Available returns the registered names in sorted order.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.factories))
}

var defaultRegistry = NewRegistry()

// Register adds a formatter factory to the package registry.
func Register(name string, factory FormatterFactory) {
	defaultRegistry.Register(name, factory)
}

// Get returns a new formatter from the package registry.
func Get(name string) (Formatter, error) {
	return defaultRegistry.Get(name)
}

// Available lists the formats in the package registry.
func Available() []string {
	return defaultRegistry.Available()
}
