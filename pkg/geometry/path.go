package geometry

import (
	"fmt"
	"slices"
)

// PathOp represents a path drawing operation type.
type PathOp int

const (
	PathOpMoveTo  PathOp = iota // Start new subpath at point (x, y)
	PathOpLineTo                // Draw line to point (x, y)
	PathOpQuadTo                // Draw quadratic curve to (x2, y2) via control (x1, y1)
	PathOpCubicTo               // Draw cubic curve to (x3, y3) via controls (x1, y1), (x2, y2)
	PathOpClose                 // Close subpath with line to start point
)

var pathOpNames = [...]string{"move_to", "line_to", "quad_to", "cubic_to", "close"}

// argCount is the number of coordinates each op consumes.
var argCount = [...]int{2, 2, 4, 6, 0}

// String returns a human-readable representation of the path operation.
func (o PathOp) String() string {
	if o >= 0 && int(o) < len(pathOpNames) {
		return pathOpNames[o]
	}
	return fmt.Sprintf("PathOp(%d)", int(o))
}

// MarshalText implements encoding.TextMarshaler.
func (o PathOp) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *PathOp) UnmarshalText(text []byte) error {
	i := slices.Index(pathOpNames[:], string(text))
	if i < 0 {
		return fmt.Errorf("unknown path op %q", text)
	}
	*o = PathOp(i)
	return nil
}

// FillRule determines how path interiors are calculated for filling and clipping.
type FillRule int

const (
	// FillRuleNonZero fills regions with nonzero winding count.
	FillRuleNonZero FillRule = iota
	// FillRuleEvenOdd fills regions crossed an odd number of times.
	FillRuleEvenOdd
)

// String returns a human-readable representation of the fill rule.
func (r FillRule) String() string {
	switch r {
	case FillRuleNonZero:
		return "nonzero"
	case FillRuleEvenOdd:
		return "evenodd"
	default:
		return fmt.Sprintf("FillRule(%d)", int(r))
	}
}

// Validate rejects values outside the defined rules, which can only arrive
// as integers.
func (r FillRule) Validate() error {
	if r != FillRuleNonZero && r != FillRuleEvenOdd {
		return fmt.Errorf("unknown fill rule %d", int(r))
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (r FillRule) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *FillRule) UnmarshalText(text []byte) error {
	switch string(text) {
	case "nonzero":
		*r = FillRuleNonZero
	case "evenodd":
		*r = FillRuleEvenOdd
	default:
		return fmt.Errorf("unknown fill rule %q", text)
	}
	return nil
}

// PathCommand represents a single path operation with its coordinate arguments.
type PathCommand struct {
	Op   PathOp    `mapstructure:"op" json:"op"`
	Args []float64 `mapstructure:"args" json:"args,omitempty"` // MoveTo/LineTo=[x,y], QuadTo=[x1,y1,x2,y2], CubicTo=[x1,y1,x2,y2,x3,y3]
}

// Validate checks the argument count against the op.
func (c PathCommand) Validate() error {
	if c.Op < 0 || int(c.Op) >= len(argCount) {
		return fmt.Errorf("unknown path op %d", int(c.Op))
	}
	if want := argCount[c.Op]; len(c.Args) != want {
		return fmt.Errorf("%s takes %d args, got %d", c.Op, want, len(c.Args))
	}
	if !IsFinite(c.Args...) {
		return fmt.Errorf("%s args must be finite, got %v", c.Op, c.Args)
	}
	return nil
}

// Bounds returns the bounding box of all command points, control points
// included. ok is false for a path without points.
func Bounds(cmds []PathCommand) (r Rect, ok bool) {
	for _, c := range cmds {
		for i := 0; i+1 < len(c.Args); i += 2 {
			pt := Offset{X: c.Args[i], Y: c.Args[i+1]}
			if !ok {
				r = Rect{Left: pt.X, Top: pt.Y, Right: pt.X, Bottom: pt.Y}
				ok = true
				continue
			}
			r = r.Union(Rect{Left: pt.X, Top: pt.Y, Right: pt.X, Bottom: pt.Y})
		}
	}
	return r, ok
}
