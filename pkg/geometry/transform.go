package geometry

import (
	"fmt"

	"golang.org/x/image/math/f64"
)

// Transform is a 2D affine transform stored row-major as
// [a b c d e f], mapping (x, y) to (a*x + b*y + c, d*x + e*y + f).
type Transform struct {
	m f64.Aff3
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{m: f64.Aff3{1, 0, 0, 0, 1, 0}}
}

// FromSVGMatrix builds a transform from the SVG/CSS ordering
// [a b c d e f], where x' = a*x + c*y + e and y' = b*x + d*y + f.
// An empty slice yields the identity.
func FromSVGMatrix(v []float64) (Transform, error) {
	switch len(v) {
	case 0:
		return Identity(), nil
	case 6:
		if !IsFinite(v...) {
			return Transform{}, fmt.Errorf("matrix values must be finite, got %v", v)
		}
		return Transform{m: f64.Aff3{v[0], v[2], v[4], v[1], v[3], v[5]}}, nil
	default:
		return Transform{}, fmt.Errorf("matrix must have 0 or 6 values, got %d", len(v))
	}
}

// Then returns the transform that applies t first and next second.
func (t Transform) Then(next Transform) Transform {
	a, b := next.m, t.m
	return Transform{m: f64.Aff3{
		a[0]*b[0] + a[1]*b[3],
		a[0]*b[1] + a[1]*b[4],
		a[0]*b[2] + a[1]*b[5] + a[2],
		a[3]*b[0] + a[4]*b[3],
		a[3]*b[1] + a[4]*b[4],
		a[3]*b[2] + a[4]*b[5] + a[5],
	}}
}

// Apply maps a point through the transform.
func (t Transform) Apply(p Offset) Offset {
	return Offset{
		X: t.m[0]*p.X + t.m[1]*p.Y + t.m[2],
		Y: t.m[3]*p.X + t.m[4]*p.Y + t.m[5],
	}
}

// IsIdentity reports whether t is the identity within tolerance.
func (t Transform) IsIdentity() bool {
	id := Identity()
	for i := range t.m {
		if !floatEqual(t.m[i], id.m[i]) {
			return false
		}
	}
	return true
}

// IsAxisAligned reports whether t maps axis-aligned rectangles to
// axis-aligned rectangles: scale and translation, optionally combined with
// quarter-turn rotations.
func (t Transform) IsAxisAligned() bool {
	diag := floatEqual(t.m[1], 0) && floatEqual(t.m[3], 0)
	anti := floatEqual(t.m[0], 0) && floatEqual(t.m[4], 0)
	return (diag || anti) && !t.IsDegenerate()
}

// IsDegenerate reports whether t collapses area to zero.
func (t Transform) IsDegenerate() bool {
	return floatEqual(t.m[0]*t.m[4]-t.m[1]*t.m[3], 0)
}

// MapRect returns the bounding box of r after the transform.
func (t Transform) MapRect(r Rect) Rect {
	p0 := t.Apply(Offset{X: r.Left, Y: r.Top})
	p1 := t.Apply(Offset{X: r.Right, Y: r.Top})
	p2 := t.Apply(Offset{X: r.Right, Y: r.Bottom})
	p3 := t.Apply(Offset{X: r.Left, Y: r.Bottom})
	return RectFromPoints(p0, p2).Union(RectFromPoints(p1, p3))
}
