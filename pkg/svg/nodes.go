package svg

import (
	"fmt"
	"math"

	"github.com/go-drift/shadowtree/pkg/core"
	"github.com/go-drift/shadowtree/pkg/geometry"
)

// Element is implemented by every node of this package.
type Element interface {
	core.Node
	svgElement()
}

// Renderable is an element carrying [RenderableProps].
type Renderable interface {
	Element
	Renderable() RenderableProps
}

// Shape is a drawable leaf with local bounds.
type Shape interface {
	Renderable
	// Bounds returns the shape's bounds in its own coordinate space, before
	// its transform.
	Bounds() geometry.Rect
}

// container is the capability shared by Group, ClipPath, Mask and Defs: an
// ordered child list restricted to svg elements.
type container struct {
	core.Container
}

func (*container) svgElement() {}

// AcceptChild rejects nodes from other packages.
func (*container) AcceptChild(child core.Node) error {
	if _, ok := child.(Element); !ok {
		return fmt.Errorf("%s is not an svg element", child.Kind())
	}
	return nil
}

type leaf struct{}

func (leaf) svgElement() {}

// Group applies its props to all children.
type Group struct {
	core.Base[GroupProps]
	container
}

func (g *Group) Renderable() RenderableProps { return g.TypedProps().RenderableProps }

// ClipPath is a container whose children define a clipping region.
type ClipPath struct {
	core.Base[ClipPathProps]
	container
}

func (c *ClipPath) Renderable() RenderableProps { return c.TypedProps().RenderableProps }

// Mask is a container whose children define a luminance mask.
type Mask struct {
	core.Base[MaskProps]
	container
}

func (m *Mask) Renderable() RenderableProps { return m.TypedProps().RenderableProps }

// Defs holds elements that are only referenced, never drawn directly.
type Defs struct {
	core.Base[DefsProps]
	container
}

// Rect is an axis-aligned rectangle, optionally with rounded corners.
type Rect struct {
	core.Base[RectProps]
	leaf
}

func (r *Rect) Renderable() RenderableProps { return r.TypedProps().RenderableProps }

func (r *Rect) Bounds() geometry.Rect {
	p := r.TypedProps()
	return geometry.RectFromLTWH(p.X, p.Y, p.Width, p.Height)
}

// RRect returns the rectangle with its corner radii.
func (r *Rect) RRect() geometry.RRect {
	p := r.TypedProps()
	rx, ry := p.RX, p.RY
	// A single missing radius takes the other's value.
	if rx == 0 {
		rx = ry
	}
	if ry == 0 {
		ry = rx
	}
	return geometry.RRect{
		Rect:   r.Bounds(),
		Radius: geometry.Radius{X: math.Min(rx, p.Width/2), Y: math.Min(ry, p.Height/2)},
	}
}

// Circle is a circle given by center and radius.
type Circle struct {
	core.Base[CircleProps]
	leaf
}

func (c *Circle) Renderable() RenderableProps { return c.TypedProps().RenderableProps }

func (c *Circle) Bounds() geometry.Rect {
	p := c.TypedProps()
	return geometry.Rect{Left: p.CX - p.R, Top: p.CY - p.R, Right: p.CX + p.R, Bottom: p.CY + p.R}
}

// Ellipse is an axis-aligned ellipse.
type Ellipse struct {
	core.Base[EllipseProps]
	leaf
}

func (e *Ellipse) Renderable() RenderableProps { return e.TypedProps().RenderableProps }

func (e *Ellipse) Bounds() geometry.Rect {
	p := e.TypedProps()
	return geometry.Rect{Left: p.CX - p.RX, Top: p.CY - p.RY, Right: p.CX + p.RX, Bottom: p.CY + p.RY}
}

// Line is a single segment.
type Line struct {
	core.Base[LineProps]
	leaf
}

func (l *Line) Renderable() RenderableProps { return l.TypedProps().RenderableProps }

func (l *Line) Bounds() geometry.Rect {
	p := l.TypedProps()
	return geometry.RectFromPoints(geometry.Offset{X: p.X1, Y: p.Y1}, geometry.Offset{X: p.X2, Y: p.Y2})
}

// Path is an arbitrary outline built from path commands.
type Path struct {
	core.Base[PathProps]
	leaf
}

func (p *Path) Renderable() RenderableProps { return p.TypedProps().RenderableProps }

// Bounds includes control points. An empty path has empty bounds.
func (p *Path) Bounds() geometry.Rect {
	r, _ := geometry.Bounds(p.TypedProps().Commands)
	return r
}

var (
	_ Shape       = (*Rect)(nil)
	_ Shape       = (*Circle)(nil)
	_ Shape       = (*Ellipse)(nil)
	_ Shape       = (*Line)(nil)
	_ Shape       = (*Path)(nil)
	_ Renderable  = (*Group)(nil)
	_ Renderable  = (*ClipPath)(nil)
	_ Renderable  = (*Mask)(nil)
	_ Element     = (*Defs)(nil)
	_ core.Parent = (*Group)(nil)
)
