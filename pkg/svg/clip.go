package svg

import (
	"github.com/go-drift/shadowtree/pkg/core"
	"github.com/go-drift/shadowtree/pkg/geometry"
)

// IsSimpleClipShape reports whether the clip region is an axis-aligned
// rectangle, or empty, so a renderer can clip with a plain rect instead of
// a path. It is computed from the current children on every call.
//
// A clip path is simple when it is not itself clipped and has no children,
// or exactly one child that reduces to a square-cornered Rect or a
// rectangular Path, possibly wrapped in single-child Groups, and the
// combined transform keeps it axis-aligned.
func (c *ClipPath) IsSimpleClipShape() bool {
	_, simple := c.resolveRect()
	return simple
}

// ClipRect returns the clip rectangle in the clip path's parent coordinate
// space. ok is false when the clip path is not simple or has no children; an
// empty clip path clips everything.
func (c *ClipPath) ClipRect() (rect geometry.Rect, ok bool) {
	if c.ChildCount() == 0 {
		return geometry.Rect{}, false
	}
	return c.resolveRect()
}

func (c *ClipPath) resolveRect() (geometry.Rect, bool) {
	// The region is intersected with the referenced clip, whose shape is
	// unknown here.
	if c.Renderable().ClipPath != "" {
		return geometry.Rect{}, false
	}
	switch c.ChildCount() {
	case 0:
		return geometry.Rect{}, true
	case 1:
	default:
		return geometry.Rect{}, false
	}

	xf := c.Renderable().Transform()
	n := c.ChildAt(0)
	for {
		var local geometry.Rect
		switch v := n.(type) {
		case *Group:
			p := v.Renderable()
			if v.ChildCount() != 1 || p.ClipPath != "" {
				return geometry.Rect{}, false
			}
			xf = p.Transform().Then(xf)
			n = v.ChildAt(0)
			continue
		case *Rect:
			if !v.RRect().IsRect() {
				return geometry.Rect{}, false
			}
			local = v.Bounds()
		case *Path:
			r, ok := geometry.DetectRect(v.TypedProps().Commands)
			if !ok {
				return geometry.Rect{}, false
			}
			local = r
		default:
			return geometry.Rect{}, false
		}

		shape := n.(Shape).Renderable()
		if shape.ClipPath != "" {
			return geometry.Rect{}, false
		}
		xf = shape.Transform().Then(xf)
		if !xf.IsAxisAligned() {
			return geometry.Rect{}, false
		}
		return xf.MapRect(local), true
	}
}

// FindClipPath returns the first ClipPath named name under root, in
// document order.
func FindClipPath(root core.Node, name string) (*ClipPath, bool) {
	var found *ClipPath
	core.Walk(root, func(n core.Node, _ int) bool {
		if found != nil {
			return false
		}
		if c, ok := n.(*ClipPath); ok && c.Renderable().Name == name {
			found = c
			return false
		}
		return true
	})
	return found, found != nil
}

// ClipPaths returns every ClipPath under root in document order.
func ClipPaths(root core.Node) []*ClipPath {
	var out []*ClipPath
	core.Walk(root, func(n core.Node, _ int) bool {
		if c, ok := n.(*ClipPath); ok {
			out = append(out, c)
		}
		return true
	})
	return out
}

// ResolveClip returns the ClipPath referenced by el's clipPath prop, looked
// up under root. ok is false when el has no reference or it is dangling.
func ResolveClip(root core.Node, el Renderable) (*ClipPath, bool) {
	name := el.Renderable().ClipPath
	if name == "" {
		return nil, false
	}
	return FindClipPath(root, name)
}
