// Package commands registers the built-in ':' commands.
package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bethropolis/blox/internal/block"
	"github.com/bethropolis/blox/internal/core"
	"github.com/bethropolis/blox/internal/logger"
	"github.com/bethropolis/blox/internal/plugin"
	"github.com/bethropolis/blox/internal/storage"
)

// ErrUnsaved is returned by Quit when the page has unsaved changes.
var ErrUnsaved = errors.New("unsaved changes (add ! to override)")

// Host is the application side of the page commands.
type Host interface {
	Save() error
	Open(pageID string) error
	Pages(ctx context.Context) ([]storage.Page, error)
	DeletePage(ctx context.Context, pageID string) error
	Quit(force bool) error
}

type registrar struct {
	api  plugin.EditorAPI
	ed   *core.Editor
	host Host
}

// RegisterAppCommands registers the page, structure and property commands.
// All registrations are attempted; the first error is returned.
func RegisterAppCommands(api plugin.EditorAPI, ed *core.Editor, host Host) error {
	r := &registrar{api: api, ed: ed, host: host}
	table := []struct {
		names []string
		fn    plugin.CommandFunc
	}{
		{[]string{"w", "save"}, r.save},
		{[]string{"q"}, r.quit(false)},
		{[]string{"q!"}, r.quit(true)},
		{[]string{"wq", "x"}, r.saveQuit},
		{[]string{"e", "open"}, r.open},
		{[]string{"pages"}, r.pages},
		{[]string{"delpage"}, r.deletePage},
		{[]string{"add"}, r.add},
		{[]string{"types"}, r.types},
		{[]string{"name"}, r.name},
		{[]string{"set"}, r.set},
		{[]string{"unset"}, r.unset},
		{[]string{"unlink"}, r.unlink},
	}

	var first error
	for _, entry := range table {
		for _, name := range entry.names {
			if err := api.RegisterCommand(name, entry.fn); err != nil {
				logger.Warnf("Failed to register ':%s' command: %v", name, err)
				if first == nil {
					first = err
				}
			}
		}
	}
	return first
}

func (r *registrar) save(args []string) error {
	return r.host.Save()
}

func (r *registrar) quit(force bool) plugin.CommandFunc {
	return func(args []string) error {
		return r.host.Quit(force)
	}
}

func (r *registrar) saveQuit(args []string) error {
	if err := r.host.Save(); err != nil {
		return err
	}
	return r.host.Quit(true)
}

func (r *registrar) open(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: open <page>")
	}
	return r.host.Open(args[0])
}

func (r *registrar) pages(args []string) error {
	pages, err := r.host.Pages(context.Background())
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		r.api.SetStatusMessage("No saved pages")
		return nil
	}
	current := r.api.PageID()
	names := make([]string, len(pages))
	for i, p := range pages {
		names[i] = fmt.Sprintf("%s(%d)", p.ID, p.Blocks)
		if p.ID == current {
			names[i] += "*"
		}
	}
	r.api.SetStatusMessage("Pages: %s", strings.Join(names, ", "))
	return nil
}

func (r *registrar) deletePage(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: delpage <page>")
	}
	if args[0] == r.api.PageID() {
		return fmt.Errorf("cannot delete the open page %q", args[0])
	}
	if err := r.host.DeletePage(context.Background(), args[0]); err != nil {
		return err
	}
	r.api.SetStatusMessage("Deleted page %s", args[0])
	return nil
}

func (r *registrar) add(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: add <Type>")
	}
	if _, ok := r.ed.Registry().Lookup(args[0]); !ok {
		return fmt.Errorf("unknown block type %q. Available: %s", args[0], strings.Join(r.ed.Registry().Types(), ", "))
	}
	_, err := r.ed.AddBlockAtSelection(args[0])
	return err
}

func (r *registrar) types(args []string) error {
	r.api.SetStatusMessage("Types: %s", strings.Join(r.ed.Registry().Types(), ", "))
	return nil
}

// patchSelected applies patch to the selection as its own history entry.
func (r *registrar) patchSelected(patch block.Patch) error {
	ids := r.api.Selected()
	if len(ids) == 0 {
		return fmt.Errorf("no block selected")
	}
	r.ed.Commit()
	if err := r.api.UpdateProperties(ids, patch); err != nil {
		return err
	}
	r.ed.Commit()
	return nil
}

// name sets the display name of the selection; no argument clears it.
func (r *registrar) name(args []string) error {
	var label any
	if len(args) > 0 {
		label = strings.Join(args, " ")
	}
	return r.patchSelected(block.Patch{block.KeyName: label})
}

// set stores a property on the selection. The value is parsed as JSON when
// possible and kept as a string otherwise.
func (r *registrar) set(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: set <key> <value>")
	}
	if strings.HasPrefix(args[0], "_") {
		return fmt.Errorf("property %q is reserved", args[0])
	}
	return r.patchSelected(block.Patch{args[0]: ParseValue(strings.Join(args[1:], " "))})
}

func (r *registrar) unset(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: unset <key>")
	}
	if strings.HasPrefix(args[0], "_") {
		return fmt.Errorf("property %q is reserved", args[0])
	}
	return r.patchSelected(block.Patch{args[0]: nil})
}

func (r *registrar) unlink(args []string) error {
	ids := r.api.Selected()
	if len(ids) == 0 {
		return fmt.Errorf("no block selected")
	}
	for _, id := range ids {
		if err := r.ed.UnlinkLibraryBlock(id); err != nil {
			return err
		}
	}
	return nil
}

// ParseValue decodes raw as a JSON value, falling back to the raw string.
func ParseValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil || v == nil {
		return raw
	}
	return v
}
