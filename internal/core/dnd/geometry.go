// Package dnd computes drop positions for pointer drags over block containers
// and turns a drop into a single insert or move.
package dnd

import "math"

// Orientation is the axis children flow along inside a container.
type Orientation int

const (
	Vertical Orientation = iota
	Horizontal
)

func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

type Point struct {
	X, Y float64
}

type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// ChildGeometry is the laid-out box of one child of a container.
type ChildGeometry struct {
	ID             string
	Rect           Rect
	NonInteractive bool // excluded from drop positions
}

// Container is a drop target. ID is the block id, or "" for the canvas root.
type Container struct {
	ID       string
	Rect     Rect
	Children []ChildGeometry
}

// HitTester resolves the innermost container under a point.
type HitTester interface {
	ContainerAt(p Point) (Container, bool)
}

// Position is one candidate drop slot, relative to the container origin.
type Position struct {
	Offset      float64 // along the flow axis
	CrossOffset float64
	CrossSize   float64
}

// InferOrientation reports horizontal when every consecutive pair of children
// shares a row and flows left to right; anything else, including fewer than
// two children, is vertical.
func InferOrientation(children []ChildGeometry) Orientation {
	if len(children) < 2 {
		return Vertical
	}
	for i := 1; i < len(children); i++ {
		prev, cur := children[i-1].Rect, children[i].Rect
		sameRow := cur.Y < prev.Y+prev.H && prev.Y < cur.Y+cur.H
		if !sameRow || cur.X < prev.X+prev.W {
			return Vertical
		}
	}
	return Horizontal
}

// eligible drops non-interactive children.
func eligible(children []ChildGeometry) []ChildGeometry {
	out := make([]ChildGeometry, 0, len(children))
	for _, c := range children {
		if !c.NonInteractive {
			out = append(out, c)
		}
	}
	return out
}

// ComputePositions returns one slot per child plus a trailing slot at the far
// edge of the last child. A container without children has a single slot at 0.
func ComputePositions(c Container, children []ChildGeometry, o Orientation) []Position {
	if len(children) == 0 {
		return []Position{{Offset: 0, CrossSize: crossExtent(c.Rect, o)}}
	}
	out := make([]Position, 0, len(children)+1)
	for _, ch := range children {
		out = append(out, slot(c.Rect, ch.Rect, o, false))
	}
	out = append(out, slot(c.Rect, children[len(children)-1].Rect, o, true))
	return out
}

func slot(origin, r Rect, o Orientation, farEdge bool) Position {
	if o == Horizontal {
		off := r.X - origin.X
		if farEdge {
			off += r.W
		}
		return Position{Offset: off, CrossOffset: r.Y - origin.Y, CrossSize: r.H}
	}
	off := r.Y - origin.Y
	if farEdge {
		off += r.H
	}
	return Position{Offset: off, CrossOffset: r.X - origin.X, CrossSize: r.W}
}

func crossExtent(r Rect, o Orientation) float64 {
	if o == Horizontal {
		return r.H
	}
	return r.W
}

// axisPos is the pointer coordinate along the flow axis, relative to the container.
func axisPos(c Rect, p Point, o Orientation) float64 {
	if o == Horizontal {
		return p.X - c.X
	}
	return p.Y - c.Y
}

// ClosestIndex returns the index of the offset nearest to pos. Ties resolve to
// the lowest index; an empty list yields 0.
func ClosestIndex(offsets []float64, pos float64) int {
	best, bestDist := 0, math.Inf(1)
	for i, off := range offsets {
		if d := math.Abs(off - pos); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Indicator is the drop line shown during a drag.
type Indicator struct {
	Visible     bool
	Orientation Orientation // flow axis; the line is perpendicular to it
	Index       int
	X, Y, W, H  float64 // absolute
}

func indicatorFor(c Rect, pos Position, o Orientation, index int, thickness float64) Indicator {
	ind := Indicator{Visible: true, Orientation: o, Index: index}
	if o == Horizontal {
		ind.X, ind.Y = c.X+pos.Offset, c.Y
		ind.W, ind.H = thickness, c.H
		return ind
	}
	ind.X, ind.Y = c.X, c.Y+pos.Offset
	ind.W, ind.H = c.W, thickness
	return ind
}
