package core

import (
	"errors"
	"fmt"
	"slices"

	"github.com/bethropolis/blox/internal/block"
	"github.com/bethropolis/blox/internal/core/clipboard"
	"github.com/bethropolis/blox/internal/logger"
)

// --- Persistence collaborator ---

// Records exports the document as flat records in storage order.
func (e *Editor) Records() []block.Record {
	return e.store.Records()
}

// Load replaces the document and clears history and selection.
func (e *Editor) Load(records []block.Record) error {
	if s := e.dnd.Active(); s != nil {
		s.Cancel()
	}
	if err := e.history.Load(records); err != nil {
		return err
	}
	e.selection.ClearAll()
	logger.Infof("Editor: Loaded %d blocks", len(records))
	return nil
}

// --- Mutations ---

// Insert adds a block. An empty id is assigned a fresh one.
func (e *Editor) Insert(b block.Block, parentID string, index int, descendants ...block.Block) (string, error) {
	if b.ID == "" {
		b.ID = block.NewID()
	}
	if _, err := e.history.Insert(b, parentID, index, descendants...); err != nil {
		return "", err
	}
	return b.ID, nil
}

// AddBlock creates a block of a registered type with its default properties.
func (e *Editor) AddBlock(blockType, parentID string, index int) (string, error) {
	props := map[string]any{}
	if def, ok := e.registry.Lookup(blockType); ok {
		for k, v := range def.Defaults {
			props[k] = v
		}
	}
	id, err := e.Insert(block.New(blockType, props), parentID, index)
	if err != nil {
		return "", err
	}
	e.history.Commit()
	e.selection.Select(id)
	return id, nil
}

// Remove deletes blocks with their subtrees. Types the registry protects are
// refused with ErrNotAllowed before anything changes.
func (e *Editor) Remove(ids []string) error {
	for _, id := range ids {
		b, err := e.store.Get(id)
		if err != nil {
			return err
		}
		if !e.registry.CanDelete(b.Type) {
			return fmt.Errorf("%w: cannot delete %s block %q", block.ErrNotAllowed, b.Type, id)
		}
	}
	_, err := e.history.Remove(ids)
	return err
}

func (e *Editor) Move(ids []string, newParentID string, index int) error {
	_, err := e.history.Move(ids, newParentID, index)
	return err
}

// UpdateProperties is the entry point for the settings collaborator.
func (e *Editor) UpdateProperties(ids []string, patch block.Patch) error {
	_, err := e.history.UpdateProperties(ids, patch)
	return err
}

// UnlinkLibraryBlock removes the link to the library block, keeping the content.
func (e *Editor) UnlinkLibraryBlock(id string) error {
	b, err := e.store.Get(id)
	if err != nil {
		return err
	}
	if b.LibraryBlockID == "" {
		return nil
	}
	if err := e.UpdateProperties([]string{id}, block.Patch{block.KeyLibraryBlockID: nil}); err != nil {
		return err
	}
	e.history.Commit()
	return nil
}

// Duplicate copies each subtree with fresh ids right after its original, as
// one history entry, and selects the copies.
func (e *Editor) Duplicate(ids []string) ([]string, error) {
	var plan [][]block.Block
	for _, id := range ids {
		b, err := e.store.Get(id)
		if err != nil {
			return nil, err
		}
		if !e.registry.CanDuplicate(b.Type) {
			return nil, fmt.Errorf("%w: cannot duplicate %s block %q", block.ErrNotAllowed, b.Type, id)
		}
		subtree, err := clipboard.Collect(e.store, []string{id})
		if err != nil {
			return nil, err
		}
		plan = append(plan, block.Reidentify(subtree))
	}

	e.history.Commit()
	e.history.Hold()
	var created []string
	for i, copies := range plan {
		orig, err := e.store.Get(ids[i])
		if err != nil {
			return nil, e.rollback(err)
		}
		idx, err := e.store.IndexOf(orig.ID)
		if err != nil {
			return nil, e.rollback(err)
		}
		root := copies[0]
		if _, err := e.history.Insert(root, orig.ParentID, idx+1, copies[1:]...); err != nil {
			return nil, e.rollback(err)
		}
		created = append(created, root.ID)
	}
	e.history.Commit()
	e.selection.Select(created...)
	return created, nil
}

// rollback undoes the partial entry of a multi-step operation that failed.
func (e *Editor) rollback(err error) error {
	if rerr := e.history.Rollback(); rerr != nil {
		return errors.Join(err, rerr)
	}
	return err
}

// RemoveSelected deletes the selected blocks as one entry.
func (e *Editor) RemoveSelected() error {
	ids := e.selection.Selected()
	if len(ids) == 0 {
		return nil
	}
	e.history.Commit()
	if err := e.Remove(ids); err != nil {
		return err
	}
	e.history.Commit()
	return nil
}

// DuplicateSelected duplicates the selected blocks.
func (e *Editor) DuplicateSelected() ([]string, error) {
	ids := e.selection.Selected()
	if len(ids) == 0 {
		return nil, nil
	}
	return e.Duplicate(ids)
}

// InsertionPoint is where new content goes: the end of a selected container,
// right after a selected leaf, or the end of the document.
func (e *Editor) InsertionPoint() (parentID string, index int) {
	parentID, index = "", len(e.store.ChildIDs(""))
	first, ok := e.selection.First()
	if !ok {
		return parentID, index
	}
	b, err := e.store.Get(first)
	if err != nil {
		return parentID, index
	}
	if e.registry.IsContainer(b.Type) {
		return b.ID, len(e.store.ChildIDs(b.ID))
	}
	if idx, err := e.store.IndexOf(b.ID); err == nil {
		return b.ParentID, idx + 1
	}
	return parentID, index
}

// AddBlockAtSelection creates a block of blockType at the insertion point.
func (e *Editor) AddBlockAtSelection(blockType string) (string, error) {
	parent, index := e.InsertionPoint()
	return e.AddBlock(blockType, parent, index)
}

// Nudge moves the first selected block delta places among its siblings,
// stopping at either end.
func (e *Editor) Nudge(delta int) error {
	first, ok := e.selection.First()
	if !ok {
		return nil
	}
	b, err := e.store.Get(first)
	if err != nil {
		return err
	}
	idx, err := e.store.IndexOf(first)
	if err != nil {
		return err
	}
	last := len(e.store.ChildIDs(b.ParentID)) - 1
	target := max(0, min(idx+delta, last))
	if target == idx {
		return nil
	}
	e.history.Commit()
	if err := e.Move([]string{first}, b.ParentID, target); err != nil {
		return err
	}
	e.history.Commit()
	return nil
}

// --- History ---

func (e *Editor) Commit() { e.history.Commit() }

func (e *Editor) Undo() error {
	if e.styleDrag != nil {
		e.styleDrag.End()
	}
	return e.history.Undo()
}

func (e *Editor) Redo() error { return e.history.Redo() }

func (e *Editor) CanUndo() bool { return e.history.CanUndo() }

func (e *Editor) CanRedo() bool { return e.history.CanRedo() }

// --- Selection helpers ---

// SelectParent selects the parent of the first selected block and drops the
// style target. Top-level blocks have no parent to select.
func (e *Editor) SelectParent() bool {
	first, ok := e.selection.First()
	if !ok {
		return false
	}
	b, err := e.store.Get(first)
	if err != nil || b.ParentID == "" {
		return false
	}
	e.selection.ClearStyleTarget()
	e.selection.Select(b.ParentID)
	return true
}

// Crumb is one step of the breadcrumb.
type Crumb struct {
	ID    string
	Label string
}

// Breadcrumb returns the path to the first selected block, root first,
// ending with the block itself.
func (e *Editor) Breadcrumb() []Crumb {
	first, ok := e.selection.First()
	if !ok {
		return nil
	}
	b, err := e.store.Get(first)
	if err != nil {
		return nil
	}
	anc, _ := e.store.Ancestors(first)
	crumbs := make([]Crumb, 0, len(anc)+1)
	for _, a := range anc {
		crumbs = append(crumbs, Crumb{ID: a.ID, Label: a.Label()})
	}
	slices.Reverse(crumbs)
	return append(crumbs, Crumb{ID: b.ID, Label: b.Label()})
}

// --- Clipboard ---

func (e *Editor) Copy(ids []string) (int, error) {
	return e.clipboard.Copy(ids)
}

// CopySelected copies the selected subtrees.
func (e *Editor) CopySelected() (int, error) {
	return e.clipboard.Copy(e.selection.Selected())
}

// Paste inserts the clipboard at the insertion point and selects the pasted roots.
func (e *Editor) Paste() ([]string, error) {
	parent, index := e.InsertionPoint()
	ids, err := e.clipboard.Paste(parent, index)
	if err != nil {
		return ids, err
	}
	e.selection.Select(ids...)
	return ids, nil
}
