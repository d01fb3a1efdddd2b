// Package registry knows which block types exist and what the editor may do
// with each: nest children, edit text in place, delete, duplicate.
package registry

import (
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/bethropolis/blox/internal/logger"
)

// Definition describes one block type.
type Definition struct {
	Type           string
	Label          string
	Container      bool // accepts child blocks as a drop target
	Horizontal     bool // children flow left to right
	InlineEditable bool
	NoDelete       bool
	NoDuplicate    bool
	Defaults       map[string]any // properties of a freshly created block
}

// Registry holds block type definitions by type name.
type Registry struct {
	mu    sync.RWMutex
	types map[string]Definition
}

func New() *Registry {
	return &Registry{types: make(map[string]Definition)}
}

// Default returns a registry with the built-in types.
func Default() *Registry {
	r := New()
	for _, d := range builtins() {
		if err := r.Register(d); err != nil {
			logger.Errorf("Registry: %v", err)
		}
	}
	return r
}

// Register adds a definition. Empty and duplicate type names are rejected.
func (r *Registry) Register(d Definition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d.Type == "" {
		return fmt.Errorf("block type registration failed: type name cannot be empty")
	}
	if _, exists := r.types[d.Type]; exists {
		return fmt.Errorf("block type registration failed: %q already registered", d.Type)
	}
	if d.Label == "" {
		d.Label = d.Type
	}
	r.types[d.Type] = d
	logger.Debugf("Registry: Registered block type %q", d.Type)
	return nil
}

func (r *Registry) Lookup(blockType string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.types[blockType]
	return d, ok
}

// Types lists registered type names in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.types))
	for t := range r.types {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// SetInlineEditable replaces the set of inline-editable types. Types not yet
// registered are added as plain leaf types.
func (r *Registry) SetInlineEditable(types []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, d := range r.types {
		d.InlineEditable = slices.Contains(types, name)
		r.types[name] = d
	}
	for _, name := range types {
		if _, ok := r.types[name]; !ok && name != "" {
			r.types[name] = Definition{Type: name, Label: name, InlineEditable: true}
		}
	}
}

// InlineEditable reports whether blocks of the type are edited in place.
func (r *Registry) InlineEditable(blockType string) bool {
	d, ok := r.Lookup(blockType)
	return ok && d.InlineEditable
}

func (r *Registry) IsContainer(blockType string) bool {
	d, ok := r.Lookup(blockType)
	return ok && d.Container
}

// Horizontal reports whether a container lays its children out in a row.
func (r *Registry) Horizontal(blockType string) bool {
	d, ok := r.Lookup(blockType)
	return ok && d.Container && d.Horizontal
}

// CanDelete defaults to true for unknown types.
func (r *Registry) CanDelete(blockType string) bool {
	d, ok := r.Lookup(blockType)
	return !ok || !d.NoDelete
}

// CanDuplicate defaults to true for unknown types.
func (r *Registry) CanDuplicate(blockType string) bool {
	d, ok := r.Lookup(blockType)
	return !ok || !d.NoDuplicate
}
