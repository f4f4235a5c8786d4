// Package svg defines the vector drawing kinds of a shadow tree: grouping
// and clipping containers and the basic shapes.
//
// Every kind is bound to its node type by a [core.ConcreteDescriptor]:
//
//	reg := core.NewRegistry()
//	reg.MustRegister(svg.Descriptors()...)
//	clip, _ := reg.Create(svg.KindClipPath, core.RawProps{"name": "c"})
//
// Raw props use SVG attribute names (cx, rx, clipPath, fillRule, ...).
package svg

import "github.com/go-drift/shadowtree/pkg/core"

// Kind names. They are part of the serialized form of trees.
const (
	KindGroup    core.KindName = "Group"
	KindClipPath core.KindName = "ClipPath"
	KindMask     core.KindName = "Mask"
	KindDefs     core.KindName = "Defs"
	KindRect     core.KindName = "Rect"
	KindCircle   core.KindName = "Circle"
	KindEllipse  core.KindName = "Ellipse"
	KindLine     core.KindName = "Line"
	KindPath     core.KindName = "Path"
)

var (
	GroupDescriptor = core.NewConcreteDescriptor[Group, GroupProps](KindGroup,
		core.WithDefaultProps(GroupProps{RenderableProps: DefaultRenderableProps()}))
	ClipPathDescriptor = core.NewConcreteDescriptor[ClipPath, ClipPathProps](KindClipPath,
		core.WithDefaultProps(ClipPathProps{RenderableProps: DefaultRenderableProps()}))
	MaskDescriptor = core.NewConcreteDescriptor[Mask, MaskProps](KindMask,
		core.WithDefaultProps(MaskProps{
			RenderableProps: DefaultRenderableProps(),
			X:               -0.1,
			Y:               -0.1,
			Width:           1.2,
			Height:          1.2,
			MaskUnits:       UnitsObjectBoundingBox,
		}))
	DefsDescriptor = core.NewConcreteDescriptor[Defs, DefsProps](KindDefs)
	RectDescriptor = core.NewConcreteDescriptor[Rect, RectProps](KindRect,
		core.WithDefaultProps(RectProps{RenderableProps: DefaultRenderableProps()}))
	CircleDescriptor = core.NewConcreteDescriptor[Circle, CircleProps](KindCircle,
		core.WithDefaultProps(CircleProps{RenderableProps: DefaultRenderableProps()}))
	EllipseDescriptor = core.NewConcreteDescriptor[Ellipse, EllipseProps](KindEllipse,
		core.WithDefaultProps(EllipseProps{RenderableProps: DefaultRenderableProps()}))
	LineDescriptor = core.NewConcreteDescriptor[Line, LineProps](KindLine,
		core.WithDefaultProps(LineProps{RenderableProps: DefaultRenderableProps()}))
	PathDescriptor = core.NewConcreteDescriptor[Path, PathProps](KindPath,
		core.WithDefaultProps(PathProps{RenderableProps: DefaultRenderableProps()}))
)

// Descriptors returns the descriptors of every kind in this package.
func Descriptors() []core.Descriptor {
	return []core.Descriptor{
		GroupDescriptor,
		ClipPathDescriptor,
		MaskDescriptor,
		DefsDescriptor,
		RectDescriptor,
		CircleDescriptor,
		EllipseDescriptor,
		LineDescriptor,
		PathDescriptor,
	}
}
