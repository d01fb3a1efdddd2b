// Package layout places the block tree on a terminal cell grid. The result is
// both the drop geometry for the drag engine and the element tree the
// interaction controller resolves pointer events against.
package layout

import (
	"math"

	"github.com/rivo/uniseg"

	"github.com/bethropolis/blox/internal/block"
	"github.com/bethropolis/blox/internal/core/dnd"
)

// Indent is the number of cells children are shifted right of their container.
const Indent = 2

// Source lists children in document order. Both store.Reader and the
// projection satisfy it.
type Source interface {
	Children(parentID string) []block.Block
}

// Types answers the layout questions about block types.
type Types interface {
	IsContainer(blockType string) bool
	Horizontal(blockType string) bool
}

// Box is the laid-out area of one block, including its descendants.
type Box struct {
	ID         string
	ParentID   string
	Type       string
	Label      string
	Content    string
	Depth      int
	Container  bool
	Horizontal bool
	Rect       dnd.Rect
	ContentX   float64 // first cell of the content span on the header row
	Children   []string
}

// Header is the single row carrying the block's label.
func (b Box) Header() dnd.Rect {
	return dnd.Rect{X: b.Rect.X, Y: b.Rect.Y, W: b.Rect.W, H: 1}
}

// Body is the area below the header where children are placed.
func (b Box) Body() dnd.Rect {
	return dnd.Rect{X: b.Rect.X, Y: b.Rect.Y + 1, W: b.Rect.W, H: b.Rect.H - 1}
}

// Layout is an immutable placement of the document.
type Layout struct {
	area    dnd.Rect
	boxes   []Box // pre-order
	byID    map[string]int
	roots   []string
	height  float64
	exclude map[string]bool
}

// Build lays out every block reachable from the top level inside area.
func Build(src Source, types Types, area dnd.Rect) *Layout {
	l := &Layout{area: area, byID: make(map[string]int)}
	y := area.Y
	for _, b := range src.Children("") {
		y += l.place(src, types, b, area.X, y, area.W, 0)
		l.roots = append(l.roots, b.ID)
	}
	l.height = y - area.Y
	return l
}

func (l *Layout) place(src Source, types Types, b block.Block, x, y, w float64, depth int) float64 {
	idx := len(l.boxes)
	box := Box{
		ID:        b.ID,
		ParentID:  b.ParentID,
		Type:      b.Type,
		Label:     b.Label(),
		Content:   b.Content(),
		Depth:     depth,
		Container: types.IsContainer(b.Type),
	}
	box.Horizontal = box.Container && types.Horizontal(b.Type)
	box.ContentX = x + 2 + float64(uniseg.StringWidth(box.Label)) + 1
	l.boxes = append(l.boxes, box)
	l.byID[b.ID] = idx

	h := 1.0
	var ids []string
	if box.Container {
		children := src.Children(b.ID)
		cx, cw := x+Indent, math.Max(w-Indent, 1)
		body := 0.0
		if box.Horizontal && len(children) > 0 {
			col := math.Max(math.Floor(cw/float64(len(children))), 2)
			for i, c := range children {
				ch := l.place(src, types, c, cx+float64(i)*col, y+1, col-1, depth+1)
				body = math.Max(body, ch)
				ids = append(ids, c.ID)
			}
		} else {
			for _, c := range children {
				body += l.place(src, types, c, cx, y+1+body, cw, depth+1)
				ids = append(ids, c.ID)
			}
		}
		// An empty container keeps one row to drop into.
		h += math.Max(body, 1)
	}
	l.boxes[idx].Rect = dnd.Rect{X: x, Y: y, W: w, H: h}
	l.boxes[idx].Children = ids
	return h
}

func (l *Layout) Area() dnd.Rect { return l.area }

// Height is the number of rows the document occupies.
func (l *Layout) Height() float64 { return l.height }

// Boxes returns every box in pre-order.
func (l *Layout) Boxes() []Box {
	return append([]Box(nil), l.boxes...)
}

func (l *Layout) Box(id string) (Box, bool) {
	i, ok := l.byID[id]
	if !ok {
		return Box{}, false
	}
	return l.boxes[i], true
}

// BoxAt returns the innermost box under p.
func (l *Layout) BoxAt(p dnd.Point) (Box, bool) {
	if i := l.boxAt(p); i >= 0 {
		return l.boxes[i], true
	}
	return Box{}, false
}

// boxAt relies on pre-order: the last containing box is the deepest.
func (l *Layout) boxAt(p dnd.Point) int {
	found := -1
	for i, b := range l.boxes {
		if b.Rect.Contains(p) {
			found = i
		}
	}
	return found
}

// Excluding returns a view of the layout in which ids and their descendants
// are neither drop containers nor drop slots, e.g. the block being dragged.
func (l *Layout) Excluding(ids ...string) *Layout {
	cp := *l
	cp.exclude = make(map[string]bool, len(ids))
	for _, id := range ids {
		cp.exclude[id] = true
	}
	return &cp
}

func (l *Layout) excluded(id string) bool {
	if len(l.exclude) == 0 {
		return false
	}
	for id != "" {
		if l.exclude[id] {
			return true
		}
		i, ok := l.byID[id]
		if !ok {
			return false
		}
		id = l.boxes[i].ParentID
	}
	return false
}

// ContainerAt implements dnd.HitTester. Points in the canvas area outside
// every container body resolve to the top level.
func (l *Layout) ContainerAt(p dnd.Point) (dnd.Container, bool) {
	found := -1
	for i, b := range l.boxes {
		if b.Container && b.Body().Contains(p) && !l.excluded(b.ID) {
			found = i
		}
	}
	if found >= 0 {
		b := l.boxes[found]
		return dnd.Container{ID: b.ID, Rect: b.Body(), Children: l.geometry(b.Children)}, true
	}
	if !l.area.Contains(p) {
		return dnd.Container{}, false
	}
	return dnd.Container{ID: "", Rect: l.area, Children: l.geometry(l.roots)}, true
}

func (l *Layout) geometry(ids []string) []dnd.ChildGeometry {
	out := make([]dnd.ChildGeometry, 0, len(ids))
	for _, id := range ids {
		b := l.boxes[l.byID[id]]
		out = append(out, dnd.ChildGeometry{ID: id, Rect: b.Rect, NonInteractive: l.excluded(id)})
	}
	return out
}

var _ dnd.HitTester = (*Layout)(nil)
