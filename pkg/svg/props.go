package svg

import (
	"fmt"
	"math"

	"github.com/go-drift/shadowtree/pkg/geometry"
)

// RenderableProps are shared by every drawable kind. They are squashed into
// each kind's props, so raw props use the flat keys below.
type RenderableProps struct {
	// Name identifies the element for clipPath references.
	Name string `mapstructure:"name"`
	// Opacity is in [0, 1].
	Opacity float64 `mapstructure:"opacity"`
	// Matrix is an affine transform in SVG order [a b c d e f], or empty.
	Matrix []float64 `mapstructure:"matrix"`
	// ClipPath names the ClipPath applied to this element.
	ClipPath string `mapstructure:"clipPath"`
	// ClipRule is the fill rule used when clipping.
	ClipRule geometry.FillRule `mapstructure:"clipRule"`
}

// DefaultRenderableProps returns fully opaque, untransformed props.
func DefaultRenderableProps() RenderableProps {
	return RenderableProps{Opacity: 1}
}

// Validate checks opacity, the matrix and the clip rule.
func (p RenderableProps) Validate() error {
	if math.IsNaN(p.Opacity) || p.Opacity < 0 || p.Opacity > 1 {
		return fmt.Errorf("opacity %v outside [0,1]", p.Opacity)
	}
	if _, err := geometry.FromSVGMatrix(p.Matrix); err != nil {
		return err
	}
	if err := p.ClipRule.Validate(); err != nil {
		return fmt.Errorf("clipRule: %w", err)
	}
	return nil
}

// finite reports an error naming the kind when any value is NaN or infinite.
func finite(what string, vs ...float64) error {
	if !geometry.IsFinite(vs...) {
		return fmt.Errorf("%s geometry must be finite, got %v", what, vs)
	}
	return nil
}

// Transform returns the element's local transform. Props that failed
// validation never reach a node, so an invalid matrix yields the identity.
func (p RenderableProps) Transform() geometry.Transform {
	t, err := geometry.FromSVGMatrix(p.Matrix)
	if err != nil {
		return geometry.Identity()
	}
	return t
}

// GroupProps configure a Group.
type GroupProps struct {
	RenderableProps `mapstructure:",squash"`
}

// ClipPathProps configure a ClipPath. Name is required.
type ClipPathProps struct {
	RenderableProps `mapstructure:",squash"`
}

// Validate requires a name in addition to the renderable checks.
func (p ClipPathProps) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("clip path requires a name")
	}
	return p.RenderableProps.Validate()
}

// Units selects the coordinate system of mask geometry.
type Units int

const (
	// UnitsObjectBoundingBox expresses geometry as fractions of the masked
	// element's bounding box.
	UnitsObjectBoundingBox Units = iota
	// UnitsUserSpaceOnUse expresses geometry in the user coordinate system.
	UnitsUserSpaceOnUse
)

func (u Units) String() string {
	switch u {
	case UnitsObjectBoundingBox:
		return "objectBoundingBox"
	case UnitsUserSpaceOnUse:
		return "userSpaceOnUse"
	default:
		return fmt.Sprintf("Units(%d)", int(u))
	}
}

// Validate rejects undefined units.
func (u Units) Validate() error {
	if u != UnitsObjectBoundingBox && u != UnitsUserSpaceOnUse {
		return fmt.Errorf("unknown units %d", int(u))
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (u Units) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *Units) UnmarshalText(text []byte) error {
	switch string(text) {
	case "objectBoundingBox":
		*u = UnitsObjectBoundingBox
	case "userSpaceOnUse":
		*u = UnitsUserSpaceOnUse
	default:
		return fmt.Errorf("unknown units %q", text)
	}
	return nil
}

// MaskProps configure a Mask.
type MaskProps struct {
	RenderableProps `mapstructure:",squash"`
	X               float64 `mapstructure:"x"`
	Y               float64 `mapstructure:"y"`
	Width           float64 `mapstructure:"width"`
	Height          float64 `mapstructure:"height"`
	MaskUnits       Units   `mapstructure:"maskUnits"`
}

// Validate rejects negative mask sizes.
func (p MaskProps) Validate() error {
	if err := finite("mask", p.X, p.Y, p.Width, p.Height); err != nil {
		return err
	}
	if err := p.MaskUnits.Validate(); err != nil {
		return fmt.Errorf("maskUnits: %w", err)
	}
	if p.Width < 0 || p.Height < 0 {
		return fmt.Errorf("mask size must be non-negative, got %vx%v", p.Width, p.Height)
	}
	return p.RenderableProps.Validate()
}

// Region returns the mask region in its declared units.
func (p MaskProps) Region() geometry.Rect {
	return geometry.RectFromLTWH(p.X, p.Y, p.Width, p.Height)
}

// DefsProps is empty; Defs only holds referenced elements.
type DefsProps struct{}

// RectProps configure a Rect.
type RectProps struct {
	RenderableProps `mapstructure:",squash"`
	X               float64 `mapstructure:"x"`
	Y               float64 `mapstructure:"y"`
	Width           float64 `mapstructure:"width"`
	Height          float64 `mapstructure:"height"`
	RX              float64 `mapstructure:"rx"`
	RY              float64 `mapstructure:"ry"`
}

func (p RectProps) Validate() error {
	if err := finite("rect", p.X, p.Y, p.Width, p.Height, p.RX, p.RY); err != nil {
		return err
	}
	if p.Width < 0 || p.Height < 0 {
		return fmt.Errorf("rect size must be non-negative, got %vx%v", p.Width, p.Height)
	}
	if p.RX < 0 || p.RY < 0 {
		return fmt.Errorf("rect radii must be non-negative, got %v,%v", p.RX, p.RY)
	}
	return p.RenderableProps.Validate()
}

// CircleProps configure a Circle.
type CircleProps struct {
	RenderableProps `mapstructure:",squash"`
	CX              float64 `mapstructure:"cx"`
	CY              float64 `mapstructure:"cy"`
	R               float64 `mapstructure:"r"`
}

func (p CircleProps) Validate() error {
	if err := finite("circle", p.CX, p.CY, p.R); err != nil {
		return err
	}
	if p.R < 0 {
		return fmt.Errorf("circle radius must be non-negative, got %v", p.R)
	}
	return p.RenderableProps.Validate()
}

// EllipseProps configure an Ellipse.
type EllipseProps struct {
	RenderableProps `mapstructure:",squash"`
	CX              float64 `mapstructure:"cx"`
	CY              float64 `mapstructure:"cy"`
	RX              float64 `mapstructure:"rx"`
	RY              float64 `mapstructure:"ry"`
}

func (p EllipseProps) Validate() error {
	if err := finite("ellipse", p.CX, p.CY, p.RX, p.RY); err != nil {
		return err
	}
	if p.RX < 0 || p.RY < 0 {
		return fmt.Errorf("ellipse radii must be non-negative, got %v,%v", p.RX, p.RY)
	}
	return p.RenderableProps.Validate()
}

// LineProps configure a Line.
type LineProps struct {
	RenderableProps `mapstructure:",squash"`
	X1              float64 `mapstructure:"x1"`
	Y1              float64 `mapstructure:"y1"`
	X2              float64 `mapstructure:"x2"`
	Y2              float64 `mapstructure:"y2"`
}

func (p LineProps) Validate() error {
	if err := finite("line", p.X1, p.Y1, p.X2, p.Y2); err != nil {
		return err
	}
	return p.RenderableProps.Validate()
}

// PathProps configure a Path.
type PathProps struct {
	RenderableProps `mapstructure:",squash"`
	Commands        []geometry.PathCommand `mapstructure:"commands"`
	FillRule        geometry.FillRule      `mapstructure:"fillRule"`
}

func (p PathProps) Validate() error {
	if err := p.FillRule.Validate(); err != nil {
		return fmt.Errorf("fillRule: %w", err)
	}
	for i, c := range p.Commands {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("command %d: %w", i, err)
		}
	}
	if len(p.Commands) > 0 && p.Commands[0].Op != geometry.PathOpMoveTo {
		return fmt.Errorf("path must start with %s, got %s", geometry.PathOpMoveTo, p.Commands[0].Op)
	}
	return p.RenderableProps.Validate()
}
