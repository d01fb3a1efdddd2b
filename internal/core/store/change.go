package store

import "github.com/bethropolis/blox/internal/block"

// Kind identifies the mutation that produced a Change.
type Kind int

const (
	KindInsert Kind = iota
	KindRemove
	KindMove
	KindUpdate
)

func (k Kind) String() string {
	switch k {
	case KindInsert:
		return "insert"
	case KindRemove:
		return "remove"
	case KindMove:
		return "move"
	case KindUpdate:
		return "update"
	default:
		return "unknown"
	}
}

// Structural reports whether the kind can alter parent/child relations or order.
func (k Kind) Structural() bool {
	return k != KindUpdate
}

// Slot is a block together with its position in storage order.
type Slot struct {
	Pos   int
	Block block.Block
}

// Change records every block a mutation touched, as it was before and after.
// Before positions index the pre-mutation slice and After positions the
// post-mutation slice; both are ascending.
type Change struct {
	Kind   Kind
	Before []Slot
	After  []Slot
}

// Empty reports whether the change touched nothing.
func (c Change) Empty() bool {
	return len(c.Before) == 0 && len(c.After) == 0
}

// Inverse returns the change that undoes c.
func (c Change) Inverse() Change {
	inv := Change{Kind: c.Kind, Before: c.After, After: c.Before}
	switch c.Kind {
	case KindInsert:
		inv.Kind = KindRemove
	case KindRemove:
		inv.Kind = KindInsert
	}
	return inv
}

// TouchedIDs lists every block id present on either side, once.
func (c Change) TouchedIDs() []string {
	seen := make(map[string]struct{}, len(c.Before)+len(c.After))
	var ids []string
	for _, side := range [][]Slot{c.Before, c.After} {
		for _, s := range side {
			if _, ok := seen[s.Block.ID]; ok {
				continue
			}
			seen[s.Block.ID] = struct{}{}
			ids = append(ids, s.Block.ID)
		}
	}
	return ids
}

// ChangedParents lists the parents whose ordered child list the change altered.
// The top level is reported as "". Property updates never alter child lists.
func (c Change) ChangedParents() []string {
	if !c.Kind.Structural() {
		return nil
	}
	seen := make(map[string]struct{})
	var parents []string
	for _, side := range [][]Slot{c.Before, c.After} {
		for _, s := range side {
			if _, ok := seen[s.Block.ParentID]; ok {
				continue
			}
			seen[s.Block.ParentID] = struct{}{}
			parents = append(parents, s.Block.ParentID)
		}
	}
	return parents
}
