// Package interaction maps pointer input on rendered elements to selection,
// highlight and inline-edit changes.
package interaction

import "github.com/bethropolis/blox/internal/block"

// Attributes every rendered block element carries.
const (
	AttrBlockID     = "data-block-id"
	AttrBlockParent = "data-block-parent"
	AttrBlockType   = "data-block-type"
	AttrStyleID     = "data-style-id"
	AttrStyleProp   = "data-style-prop"

	// CanvasID is the data-block-id of the canvas root element.
	CanvasID = "canvas"
)

// Node is an element in the rendered tree. Parent returns nil at the root.
type Node interface {
	Attr(name string) (string, bool)
	Parent() Node
}

type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetCanvas
	TargetBlock
	TargetStyle
)

func (k TargetKind) String() string {
	switch k {
	case TargetCanvas:
		return "canvas"
	case TargetBlock:
		return "block"
	case TargetStyle:
		return "style"
	default:
		return "none"
	}
}

// Target is what a pointer event landed on.
type Target struct {
	Kind    TargetKind
	BlockID string // owning block for TargetBlock and TargetStyle
	Type    string // data-block-type when present
	Style   block.StyleTarget
}

// Resolve walks up from n to the closest element carrying a block id or a
// block parent attribute.
func Resolve(n Node) Target {
	for ; n != nil; n = n.Parent() {
		if owner, ok := n.Attr(AttrBlockParent); ok && owner != "" {
			id, _ := n.Attr(AttrStyleID)
			prop, _ := n.Attr(AttrStyleProp)
			typ, _ := n.Attr(AttrBlockType)
			return Target{
				Kind:    TargetStyle,
				BlockID: owner,
				Type:    typ,
				Style:   block.StyleTarget{ID: id, Prop: prop, BlockID: owner},
			}
		}
		if id, ok := n.Attr(AttrBlockID); ok && id != "" {
			if id == CanvasID {
				return Target{Kind: TargetCanvas}
			}
			typ, _ := n.Attr(AttrBlockType)
			return Target{Kind: TargetBlock, BlockID: id, Type: typ}
		}
	}
	return Target{Kind: TargetNone}
}
