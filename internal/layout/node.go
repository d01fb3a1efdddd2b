package layout

import (
	"github.com/bethropolis/blox/internal/block"
	"github.com/bethropolis/blox/internal/core/dnd"
	"github.com/bethropolis/blox/internal/core/interaction"
)

// node is a rendered element carrying the canvas attribute contract.
type node struct {
	attrs  map[string]string
	parent *node
}

func (n *node) Attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

func (n *node) Parent() interaction.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

// ContentStyleID is the style id of the content span inside a block.
func ContentStyleID(blockID string) string {
	return blockID + "-content"
}

// NodeAt returns the element under p: the content span of a block, the block
// itself, or the canvas root. Outside the canvas area it returns nil.
func (l *Layout) NodeAt(p dnd.Point) interaction.Node {
	if !l.area.Contains(p) {
		return nil
	}
	canvas := &node{attrs: map[string]string{interaction.AttrBlockID: interaction.CanvasID}}
	i := l.boxAt(p)
	if i < 0 {
		return canvas
	}
	b := l.boxes[i]
	n := l.nodeFor(i, canvas)
	if b.Content != "" && b.Header().Contains(p) && p.X >= b.ContentX {
		return &node{
			attrs: map[string]string{
				interaction.AttrBlockParent: b.ID,
				interaction.AttrBlockType:   b.Type,
				interaction.AttrStyleID:     ContentStyleID(b.ID),
				interaction.AttrStyleProp:   block.ContentKey,
			},
			parent: n,
		}
	}
	return n
}

func (l *Layout) nodeFor(i int, canvas *node) *node {
	b := l.boxes[i]
	parent := canvas
	if pi, ok := l.byID[b.ParentID]; ok {
		parent = l.nodeFor(pi, canvas)
	}
	return &node{
		attrs: map[string]string{
			interaction.AttrBlockID:   b.ID,
			interaction.AttrBlockType: b.Type,
		},
		parent: parent,
	}
}

// NodeFor returns the element of a laid-out block, or nil.
func (l *Layout) NodeFor(id string) interaction.Node {
	i, ok := l.byID[id]
	if !ok {
		return nil
	}
	canvas := &node{attrs: map[string]string{interaction.AttrBlockID: interaction.CanvasID}}
	return l.nodeFor(i, canvas)
}
