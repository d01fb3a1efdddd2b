// Package clipboard copies block subtrees as flat JSON records and pastes them
// back with fresh ids.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/bethropolis/blox/internal/block"
	"github.com/bethropolis/blox/internal/core/store"
	"github.com/bethropolis/blox/internal/logger"
)

// ErrEmpty is returned when the clipboard holds no blocks.
var ErrEmpty = errors.New("clipboard holds no blocks")

// Mutator is the history surface a paste writes through.
type Mutator interface {
	Insert(b block.Block, parentID string, index int, descendants ...block.Block) (store.Change, error)
	Commit()
	Hold()
	Rollback() error
	Reader() store.Reader
}

// Manager handles clipboard operations.
type Manager struct {
	backend Backend
	mut     Mutator
}

func NewManager(backend Backend, mut Mutator) *Manager {
	if backend == nil {
		backend = &Register{}
	}
	return &Manager{backend: backend, mut: mut}
}

// Copy writes the subtrees rooted at ids to the clipboard. Ids nested inside
// another copied id are folded into that subtree.
func (m *Manager) Copy(ids []string) (int, error) {
	blocks, err := Collect(m.mut.Reader(), ids)
	if err != nil {
		return 0, err
	}
	if len(blocks) == 0 {
		return 0, ErrEmpty
	}
	records := make([]block.Record, len(blocks))
	for i, b := range blocks {
		records[i] = block.ToRecord(b)
	}
	data, err := block.MarshalRecords(records)
	if err != nil {
		return 0, fmt.Errorf("encode clipboard: %w", err)
	}
	if err := m.backend.WriteAll(string(data)); err != nil {
		return 0, fmt.Errorf("write clipboard: %w", err)
	}
	logger.Debugf("ClipboardManager: Copied %d blocks", len(blocks))
	return len(blocks), nil
}

// Paste inserts the clipboard subtrees under parentID starting at index, as one
// history entry. It returns the new root ids.
func (m *Manager) Paste(parentID string, index int) ([]string, error) {
	text, err := m.backend.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read clipboard: %w", err)
	}
	if text == "" {
		return nil, ErrEmpty
	}
	records, err := block.UnmarshalRecords([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmpty, err)
	}
	if len(records) == 0 {
		return nil, ErrEmpty
	}
	blocks := make([]block.Block, len(records))
	for i, r := range records {
		blocks[i] = block.FromRecord(r)
	}
	return InsertSubtrees(m.mut, block.Reidentify(blocks), parentID, index)
}

// Collect returns the blocks of every subtree rooted at ids, each root followed
// by its descendants in storage order.
func Collect(reader store.Reader, ids []string) ([]block.Block, error) {
	seen := make(map[string]struct{})
	var out []block.Block
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		root, err := reader.Get(id)
		if err != nil {
			return nil, err
		}
		if nestedIn(reader, id, ids) {
			continue
		}
		out = append(out, root)
		seen[id] = struct{}{}
		for _, d := range reader.Descendants(id) {
			b, err := reader.Get(d)
			if err != nil {
				return nil, err
			}
			out = append(out, b)
			seen[d] = struct{}{}
		}
	}
	return out, nil
}

func nestedIn(reader store.Reader, id string, ids []string) bool {
	anc, _ := reader.Ancestors(id)
	for _, a := range anc {
		for _, other := range ids {
			if a.ID == other {
				return true
			}
		}
	}
	return false
}

// InsertSubtrees inserts blocks grouped by root. A root is a block whose parent
// is not in the set. Roots land contiguously from index, in order, and the
// whole paste is committed as one entry. A failure rolls back the roots
// already inserted.
func InsertSubtrees(mut Mutator, blocks []block.Block, parentID string, index int) ([]string, error) {
	members := make(map[string]struct{}, len(blocks))
	for _, b := range blocks {
		members[b.ID] = struct{}{}
	}
	var roots []block.Block
	children := make(map[string][]block.Block)
	for _, b := range blocks {
		if _, ok := members[b.ParentID]; ok && b.ParentID != "" {
			children[b.ParentID] = append(children[b.ParentID], b)
			continue
		}
		roots = append(roots, b)
	}

	mut.Commit()
	mut.Hold()
	var ids []string
	for i, root := range roots {
		if _, err := mut.Insert(root, parentID, index+i, subtreeOf(root.ID, children)...); err != nil {
			if rerr := mut.Rollback(); rerr != nil {
				return nil, errors.Join(err, rerr)
			}
			return nil, err
		}
		ids = append(ids, root.ID)
	}
	mut.Commit()
	return ids, nil
}

// subtreeOf flattens the descendants of id depth-first, keeping sibling order.
func subtreeOf(id string, children map[string][]block.Block) []block.Block {
	var out []block.Block
	for _, c := range children[id] {
		out = append(out, c)
		out = append(out, subtreeOf(c.ID, children)...)
	}
	return out
}
