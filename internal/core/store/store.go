// Package store holds the canonical block mapping of a document. Sibling order is
// the storage order of the flat block slice; every mutation validates before it
// commits and either applies completely or not at all.
package store

import (
	"fmt"
	"slices"

	"github.com/bethropolis/blox/internal/block"
	"github.com/bethropolis/blox/internal/logger"
)

// Reader is the read-only view handed to components that must not mutate.
type Reader interface {
	Get(id string) (block.Block, error)
	Has(id string) bool
	Len() int
	Blocks() []block.Block
	Children(parentID string) []block.Block
	ChildIDs(parentID string) []string
	IndexOf(id string) (int, error)
	Ancestors(id string) ([]block.Block, error)
	Descendants(id string) []string
	Records() []block.Record
}

// Store is the block entity store. It is not safe for concurrent mutation.
type Store struct {
	blocks []block.Block
	index  map[string]int // id -> position in blocks
}

var _ Reader = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{index: make(map[string]int)}
}

// Load replaces the whole document. The blocks must satisfy every invariant.
func (s *Store) Load(blocks []block.Block) error {
	next := make([]block.Block, len(blocks))
	for i, b := range blocks {
		next[i] = b.Clone()
	}
	if err := validate(next); err != nil {
		return err
	}
	s.commit(next)
	logger.DebugTagf("store", "Store: Loaded %d blocks", len(next))
	return nil
}

// LoadRecords replaces the document from flat records.
func (s *Store) LoadRecords(records []block.Record) error {
	blocks := make([]block.Block, len(records))
	for i, r := range records {
		blocks[i] = block.FromRecord(r)
	}
	return s.Load(blocks)
}

// --- Reads ---

func (s *Store) Get(id string) (block.Block, error) {
	pos, ok := s.index[id]
	if !ok {
		return block.Block{}, fmt.Errorf("%w: %q", block.ErrNotFound, id)
	}
	return s.blocks[pos].Clone(), nil
}

func (s *Store) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

func (s *Store) Len() int {
	return len(s.blocks)
}

// Blocks returns a copy of every block in storage order.
func (s *Store) Blocks() []block.Block {
	out := make([]block.Block, len(s.blocks))
	for i, b := range s.blocks {
		out[i] = b.Clone()
	}
	return out
}

// Children returns the direct children of parentID in order. "" addresses the top level.
func (s *Store) Children(parentID string) []block.Block {
	var out []block.Block
	for _, b := range s.blocks {
		if b.ParentID == parentID {
			out = append(out, b.Clone())
		}
	}
	return out
}

func (s *Store) ChildIDs(parentID string) []string {
	var out []string
	for _, b := range s.blocks {
		if b.ParentID == parentID {
			out = append(out, b.ID)
		}
	}
	return out
}

// IndexOf returns the position of id among its siblings.
func (s *Store) IndexOf(id string) (int, error) {
	pos, ok := s.index[id]
	if !ok {
		return -1, fmt.Errorf("%w: %q", block.ErrNotFound, id)
	}
	parent := s.blocks[pos].ParentID
	idx := 0
	for _, b := range s.blocks[:pos] {
		if b.ParentID == parent {
			idx++
		}
	}
	return idx, nil
}

// Ancestors returns the parent chain of id, nearest first.
func (s *Store) Ancestors(id string) ([]block.Block, error) {
	pos, ok := s.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", block.ErrNotFound, id)
	}
	var out []block.Block
	parent := s.blocks[pos].ParentID
	for parent != "" {
		p, ok := s.index[parent]
		if !ok {
			break
		}
		out = append(out, s.blocks[p].Clone())
		parent = s.blocks[p].ParentID
	}
	return out, nil
}

// Descendants returns every block below id in storage order.
func (s *Store) Descendants(id string) []string {
	set := s.subtree([]string{id})
	delete(set, id)
	var out []string
	for _, b := range s.blocks {
		if _, ok := set[b.ID]; ok {
			out = append(out, b.ID)
		}
	}
	return out
}

// Records flattens the document in storage order.
func (s *Store) Records() []block.Record {
	out := make([]block.Record, len(s.blocks))
	for i, b := range s.blocks {
		out[i] = block.ToRecord(b)
	}
	return out
}

// --- Mutations ---

// Insert adds b under parentID at sibling index (clamped). Optional descendants form
// b's subtree; each must point at b or at another descendant.
func (s *Store) Insert(b block.Block, parentID string, index int, descendants ...block.Block) (Change, error) {
	if parentID != "" && !s.Has(parentID) {
		return Change{}, fmt.Errorf("%w: parent %q does not exist", block.ErrStructuralViolation, parentID)
	}
	root := b.Clone()
	root.ParentID = parentID
	added := make([]block.Block, 0, 1+len(descendants))
	added = append(added, root)
	for _, d := range descendants {
		added = append(added, d.Clone())
	}
	if err := s.checkNewSubtree(added); err != nil {
		return Change{}, err
	}

	pos := s.insertPosition(s.blocks, parentID, index)
	next := make([]block.Block, 0, len(s.blocks)+len(added))
	next = append(next, s.blocks[:pos]...)
	next = append(next, added...)
	next = append(next, s.blocks[pos:]...)

	change := Change{Kind: KindInsert}
	for i, a := range added {
		change.After = append(change.After, Slot{Pos: pos + i, Block: a.Clone()})
	}
	s.commit(next)
	logger.DebugTagf("store", "Store: Inserted %q (%d blocks) under %q at %d", root.ID, len(added), parentID, index)
	return change, nil
}

// Remove deletes the given blocks together with all of their descendants.
func (s *Store) Remove(ids []string) (Change, error) {
	for _, id := range ids {
		if !s.Has(id) {
			return Change{}, fmt.Errorf("%w: %q", block.ErrNotFound, id)
		}
	}
	set := s.subtree(ids)
	if len(set) == 0 {
		return Change{Kind: KindRemove}, nil
	}

	change := Change{Kind: KindRemove}
	next := make([]block.Block, 0, len(s.blocks)-len(set))
	for pos, b := range s.blocks {
		if _, gone := set[b.ID]; gone {
			change.Before = append(change.Before, Slot{Pos: pos, Block: b.Clone()})
			continue
		}
		next = append(next, b)
	}
	s.commit(next)
	logger.DebugTagf("store", "Store: Removed %d blocks (%d requested)", len(change.Before), len(ids))
	return change, nil
}

// Move reparents the given blocks under newParentID. They land contiguously in
// argument order with the first one at final sibling index (clamped).
func (s *Store) Move(ids []string, newParentID string, index int) (Change, error) {
	ids = dedupe(ids)
	moved := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if !s.Has(id) {
			return Change{}, fmt.Errorf("%w: %q", block.ErrNotFound, id)
		}
		moved[id] = struct{}{}
	}
	ids = s.outermost(ids, moved)
	if len(ids) == 0 {
		return Change{Kind: KindMove}, nil
	}
	if newParentID != "" {
		if !s.Has(newParentID) {
			return Change{}, fmt.Errorf("%w: parent %q does not exist", block.ErrStructuralViolation, newParentID)
		}
		// The destination may not be a moved block or sit anywhere below one.
		for cur := newParentID; cur != ""; cur = s.blocks[s.index[cur]].ParentID {
			if _, ok := moved[cur]; ok {
				return Change{}, fmt.Errorf("%w: cannot move %q into its own subtree", block.ErrStructuralViolation, cur)
			}
		}
	}

	change := Change{Kind: KindMove}
	remaining := make([]block.Block, 0, len(s.blocks))
	for pos, b := range s.blocks {
		if _, ok := moved[b.ID]; ok {
			change.Before = append(change.Before, Slot{Pos: pos, Block: b.Clone()})
			continue
		}
		remaining = append(remaining, b)
	}

	pos := s.insertPosition(remaining, newParentID, index)
	next := make([]block.Block, 0, len(s.blocks))
	next = append(next, remaining[:pos]...)
	for i, id := range ids {
		b := s.blocks[s.index[id]].Clone()
		b.ParentID = newParentID
		next = append(next, b)
		change.After = append(change.After, Slot{Pos: pos + i, Block: b.Clone()})
	}
	next = append(next, remaining[pos:]...)

	if sameSlots(change.Before, change.After) {
		return Change{Kind: KindMove}, nil
	}
	s.commit(next)
	logger.DebugTagf("store", "Store: Moved %v under %q at %d", ids, newParentID, index)
	return change, nil
}

// UpdateProperties applies patch to every listed block.
func (s *Store) UpdateProperties(ids []string, patch block.Patch) (Change, error) {
	if err := patch.Validate(); err != nil {
		return Change{}, err
	}
	ids = dedupe(ids)
	for _, id := range ids {
		if !s.Has(id) {
			return Change{}, fmt.Errorf("%w: %q", block.ErrNotFound, id)
		}
	}

	change := Change{Kind: KindUpdate}
	next := make([]block.Block, len(s.blocks))
	copy(next, s.blocks)
	for _, id := range ids {
		pos := s.index[id]
		change.Before = append(change.Before, Slot{Pos: pos, Block: next[pos].Clone()})
		next[pos] = patch.Apply(next[pos])
		change.After = append(change.After, Slot{Pos: pos, Block: next[pos].Clone()})
	}
	sortSlots(change.Before)
	sortSlots(change.After)
	s.commit(next)
	logger.DebugTagf("store", "Store: Updated %d blocks", len(ids))
	return change, nil
}

// Revert restores the state before c was applied.
func (s *Store) Revert(c Change) error {
	return s.swap(c.After, c.Before)
}

// Reapply restores the state after c was applied.
func (s *Store) Reapply(c Change) error {
	return s.swap(c.Before, c.After)
}

// swap removes the blocks of from (which must sit exactly at their recorded
// positions) and inserts the blocks of to at theirs.
func (s *Store) swap(from, to []Slot) error {
	drop := make(map[string]struct{}, len(from))
	for _, slot := range from {
		pos, ok := s.index[slot.Block.ID]
		if !ok || pos != slot.Pos {
			return fmt.Errorf("%w: %q is not at recorded position %d", block.ErrStructuralViolation, slot.Block.ID, slot.Pos)
		}
		drop[slot.Block.ID] = struct{}{}
	}

	next := make([]block.Block, 0, len(s.blocks)-len(from)+len(to))
	for _, b := range s.blocks {
		if _, ok := drop[b.ID]; !ok {
			next = append(next, b)
		}
	}
	for _, slot := range to {
		if slot.Pos < 0 || slot.Pos > len(next) {
			return fmt.Errorf("%w: position %d out of range", block.ErrStructuralViolation, slot.Pos)
		}
		next = append(next, block.Block{})
		copy(next[slot.Pos+1:], next[slot.Pos:])
		next[slot.Pos] = slot.Block.Clone()
	}
	if err := validate(next); err != nil {
		return err
	}
	s.commit(next)
	return nil
}

// --- internals ---

func (s *Store) commit(next []block.Block) {
	s.blocks = next
	s.index = make(map[string]int, len(next))
	for i, b := range next {
		s.index[b.ID] = i
	}
}

// insertPosition maps a sibling index under parentID to a slot in list.
func (s *Store) insertPosition(list []block.Block, parentID string, index int) int {
	var siblings []int
	for pos, b := range list {
		if b.ParentID == parentID {
			siblings = append(siblings, pos)
		}
	}
	index = clamp(index, 0, len(siblings))
	switch {
	case index < len(siblings):
		return siblings[index]
	case len(siblings) > 0:
		return siblings[len(siblings)-1] + 1
	case parentID != "":
		// First child: keep it next to its parent.
		for pos, b := range list {
			if b.ID == parentID {
				return pos + 1
			}
		}
	}
	return len(list)
}

// subtree returns ids plus all of their descendants.
func (s *Store) subtree(ids []string) map[string]struct{} {
	children := make(map[string][]string)
	for _, b := range s.blocks {
		children[b.ParentID] = append(children[b.ParentID], b.ID)
	}
	set := make(map[string]struct{})
	queue := append([]string(nil), ids...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if _, ok := set[id]; ok {
			continue
		}
		set[id] = struct{}{}
		queue = append(queue, children[id]...)
	}
	return set
}

// checkNewSubtree validates blocks about to be inserted; added[0] is the root.
func (s *Store) checkNewSubtree(added []block.Block) error {
	members := make(map[string]string, len(added))
	for _, b := range added {
		if b.ID == "" {
			return fmt.Errorf("%w: empty block id", block.ErrStructuralViolation)
		}
		if s.Has(b.ID) {
			return fmt.Errorf("%w: duplicate id %q", block.ErrStructuralViolation, b.ID)
		}
		if _, dup := members[b.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", block.ErrStructuralViolation, b.ID)
		}
		members[b.ID] = b.ParentID
	}
	rootID := added[0].ID
	for _, d := range added[1:] {
		steps := 0
		for cur := d.ID; cur != rootID; cur = members[cur] {
			if _, ok := members[cur]; !ok || steps > len(added) {
				return fmt.Errorf("%w: %q is not part of the inserted subtree", block.ErrStructuralViolation, d.ID)
			}
			steps++
		}
	}
	return nil
}

// validate checks invariants 1 and 2 over a whole document.
func validate(blocks []block.Block) error {
	parents := make(map[string]string, len(blocks))
	for _, b := range blocks {
		if b.ID == "" {
			return fmt.Errorf("%w: empty block id", block.ErrStructuralViolation)
		}
		if _, dup := parents[b.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", block.ErrStructuralViolation, b.ID)
		}
		parents[b.ID] = b.ParentID
	}
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(blocks))
	for _, b := range blocks {
		var path []string
		cur := b.ID
		for cur != "" && state[cur] != done {
			if state[cur] == visiting {
				return fmt.Errorf("%w: cycle through %q", block.ErrStructuralViolation, cur)
			}
			state[cur] = visiting
			path = append(path, cur)
			parent := parents[cur]
			if _, ok := parents[parent]; parent != "" && !ok {
				return fmt.Errorf("%w: %q references missing parent %q", block.ErrStructuralViolation, cur, parent)
			}
			cur = parent
		}
		for _, id := range path {
			state[id] = done
		}
	}
	return nil
}

func sameSlots(a, b []Slot) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Pos != b[i].Pos || a[i].Block.ID != b[i].Block.ID || a[i].Block.ParentID != b[i].Block.ParentID {
			return false
		}
	}
	return true
}

func sortSlots(slots []Slot) {
	for i := 1; i < len(slots); i++ {
		for j := i; j > 0 && slots[j].Pos < slots[j-1].Pos; j-- {
			slots[j], slots[j-1] = slots[j-1], slots[j]
		}
	}
}

// outermost drops ids that sit below another listed id; they travel with
// their ancestor's subtree. moved is trimmed to match.
func (s *Store) outermost(ids []string, moved map[string]struct{}) []string {
	out := ids[:0:0]
	for _, id := range ids {
		nested := false
		for cur := s.blocks[s.index[id]].ParentID; cur != ""; cur = s.blocks[s.index[cur]].ParentID {
			if _, ok := moved[cur]; ok {
				nested = true
				break
			}
		}
		if !nested {
			out = append(out, id)
		}
	}
	for _, id := range ids {
		if !slices.Contains(out, id) {
			delete(moved, id)
		}
	}
	return out
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
