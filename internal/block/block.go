// Package block defines the document node record shared by every editing component.
package block

import (
	"maps"

	"github.com/google/uuid"
)

// ContentKey is the property read and written by inline text editing.
const ContentKey = "content"

// Block is a single node of the document tree. Children are not embedded: a block
// points at its parent and sibling order is the storage order of the document.
type Block struct {
	ID             string
	Type           string
	Name           string
	ParentID       string // Empty for top-level blocks
	Properties     map[string]any
	LibraryBlockID string
}

// NewID returns a fresh block id.
func NewID() string {
	return uuid.NewString()
}

// New creates a block of the given type with a fresh id.
func New(blockType string, props map[string]any) Block {
	return Block{
		ID:         NewID(),
		Type:       blockType,
		Properties: maps.Clone(props),
	}
}

// Label returns the user-facing name, falling back to the type.
func (b Block) Label() string {
	if b.Name != "" {
		return b.Name
	}
	return b.Type
}

// IsRoot reports whether the block sits at the top level.
func (b Block) IsRoot() bool {
	return b.ParentID == ""
}

// Content returns the inline-editable text of the block.
func (b Block) Content() string {
	s, _ := b.Properties[ContentKey].(string)
	return s
}

// Clone returns a deep copy so callers can never alias document state.
func (b Block) Clone() Block {
	b.Properties = cloneValue(b.Properties).(map[string]any)
	return b
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		if val == nil {
			return map[string]any(nil)
		}
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[k] = cloneValue(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = cloneValue(inner)
		}
		return out
	default:
		return val
	}
}
