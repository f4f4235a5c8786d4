package svg

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/shadowtree/pkg/core"
	"github.com/go-drift/shadowtree/pkg/errors"
	"github.com/go-drift/shadowtree/pkg/geometry"
)

func TestDescriptorsKinds(t *testing.T) {
	r := newRegistry(t)
	assert.Equal(t, []core.KindName{
		"Circle", "ClipPath", "Defs", "Ellipse", "Group", "Line", "Mask", "Path", "Rect",
	}, r.Kinds())

	containers := map[core.KindName]bool{KindGroup: true, KindClipPath: true, KindMask: true, KindDefs: true}
	for _, d := range Descriptors() {
		assert.Equal(t, containers[d.Kind()], d.IsContainer(), "kind %s", d.Kind())
	}
}

func TestCreateDefaults(t *testing.T) {
	r := newRegistry(t)

	rect := create(t, r, KindRect, core.RawProps{"width": 3}).(*Rect)
	assert.Equal(t, 1.0, rect.Renderable().Opacity)
	assert.Equal(t, geometry.RectFromLTWH(0, 0, 3, 0), rect.Bounds())
	assert.True(t, rect.Renderable().Transform().IsIdentity())

	mask := create(t, r, KindMask, nil).(*Mask)
	assert.Equal(t, UnitsObjectBoundingBox, mask.TypedProps().MaskUnits)
	assert.True(t, mask.TypedProps().Region().ApproxEqual(geometry.Rect{Left: -0.1, Top: -0.1, Right: 1.1, Bottom: 1.1}))

	mask = create(t, r, KindMask, core.RawProps{"maskUnits": "userSpaceOnUse"}).(*Mask)
	assert.Equal(t, UnitsUserSpaceOnUse, mask.TypedProps().MaskUnits)
	mask = create(t, r, KindMask, core.RawProps{"maskUnits": 1}).(*Mask)
	assert.Equal(t, UnitsUserSpaceOnUse, mask.TypedProps().MaskUnits)

	path := create(t, r, KindPath, core.RawProps{"fillRule": "evenodd", "clipRule": "evenodd"}).(*Path)
	assert.Equal(t, geometry.FillRuleEvenOdd, path.TypedProps().FillRule)
	assert.Equal(t, geometry.FillRuleEvenOdd, path.Renderable().ClipRule)
}

func TestInvalidProps(t *testing.T) {
	r := newRegistry(t)
	tests := []struct {
		name  string
		kind  core.KindName
		props core.RawProps
	}{
		{"opacity above one", KindRect, core.RawProps{"opacity": 1.5}},
		{"negative opacity", KindGroup, core.RawProps{"opacity": -0.1}},
		{"short matrix", KindGroup, core.RawProps{"matrix": []any{1, 0, 0}}},
		{"negative width", KindRect, core.RawProps{"width": -1}},
		{"negative radius", KindCircle, core.RawProps{"r": -2}},
		{"negative ellipse radius", KindEllipse, core.RawProps{"ry": -2}},
		{"unnamed clip path", KindClipPath, nil},
		{"unknown mask units", KindMask, core.RawProps{"maskUnits": "pixels"}},
		{"unknown fill rule", KindPath, core.RawProps{"fillRule": "winding"}},
		{"bad command args", KindPath, core.RawProps{"commands": []any{
			map[string]any{"op": "move_to", "args": []any{1}},
		}}},
		{"path without move", KindPath, core.RawProps{"commands": []any{
			map[string]any{"op": "line_to", "args": []any{1, 1}},
		}}},
		{"string number", KindLine, core.RawProps{"x1": "3"}},
		{"unknown attribute", KindRect, core.RawProps{"fill": "red"}},
		{"props on defs", KindDefs, core.RawProps{"name": "d"}},
		{"integer mask units out of range", KindMask, core.RawProps{"maskUnits": 7}},
		{"integer clip rule out of range", KindRect, core.RawProps{"clipRule": 5}},
		{"integer fill rule out of range", KindPath, core.RawProps{"fillRule": 2}},
		{"integer path op out of range", KindPath, core.RawProps{"commands": []any{
			map[string]any{"op": 9, "args": []any{}},
		}}},
		{"fractional clip rule", KindRect, core.RawProps{"clipRule": 0.5}},
		{"nan width", KindRect, core.RawProps{"width": math.NaN()}},
		{"infinite height", KindRect, core.RawProps{"height": math.Inf(1)}},
		{"infinite position", KindRect, core.RawProps{"x": math.Inf(-1)}},
		{"nan radius", KindCircle, core.RawProps{"r": math.NaN()}},
		{"infinite ellipse center", KindEllipse, core.RawProps{"cx": math.Inf(1)}},
		{"infinite line end", KindLine, core.RawProps{"x1": math.Inf(1)}},
		{"infinite mask width", KindMask, core.RawProps{"width": math.Inf(1)}},
		{"nan matrix entry", KindGroup, core.RawProps{"matrix": []any{1, 0, 0, 1, math.NaN(), 0}}},
		{"nan opacity", KindGroup, core.RawProps{"opacity": math.NaN()}},
		{"nan path arg", KindPath, core.RawProps{"commands": []any{
			map[string]any{"op": "move_to", "args": []any{math.NaN(), 0}},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Create(tt.kind, tt.props)
			require.ErrorIs(t, err, errors.ErrInvalidProps)
			assert.Equal(t, string(tt.kind), errors.KindNameOf(err))
		})
	}
}

type foreign struct {
	core.Base[struct{}]
}

func TestContainersRejectForeignChildren(t *testing.T) {
	r := newRegistry(t)
	other, err := core.NewConcreteDescriptor[foreign, struct{}]("Foreign").New(struct{}{})
	require.NoError(t, err)

	group := create(t, r, KindGroup, nil)
	_, err = r.CloneWithChildren(group, []core.Node{other})
	require.ErrorIs(t, err, errors.ErrInvalidChildren)
	assert.Contains(t, err.Error(), "Foreign is not an svg element")

	_, err = r.CloneWithChildren(create(t, r, KindRect, nil), []core.Node{group})
	require.ErrorIs(t, err, errors.ErrInvalidChildren)
}

func TestCloneWithPropsMerges(t *testing.T) {
	r := newRegistry(t)
	orig := create(t, r, KindRect, core.RawProps{"x": 1, "width": 10, "height": 10, "matrix": []any{1, 0, 0, 1, 2, 2}})

	moved, err := r.CloneWithProps(orig, core.RawProps{"x": 5})
	require.NoError(t, err)

	assert.Equal(t, 1.0, orig.(*Rect).TypedProps().X)
	p := moved.(*Rect).TypedProps()
	assert.Equal(t, 5.0, p.X)
	assert.Equal(t, 10.0, p.Width)
	assert.Equal(t, []float64{1, 0, 0, 1, 2, 2}, p.Matrix)
}

func TestShapeBounds(t *testing.T) {
	r := newRegistry(t)
	tests := []struct {
		kind  core.KindName
		props core.RawProps
		want  geometry.Rect
	}{
		{KindCircle, core.RawProps{"cx": 5, "cy": 5, "r": 2}, geometry.Rect{Left: 3, Top: 3, Right: 7, Bottom: 7}},
		{KindEllipse, core.RawProps{"cx": 0, "cy": 0, "rx": 4, "ry": 1}, geometry.Rect{Left: -4, Top: -1, Right: 4, Bottom: 1}},
		{KindLine, core.RawProps{"x1": 5, "y1": 0, "x2": 0, "y2": 3}, geometry.Rect{Left: 0, Top: 0, Right: 5, Bottom: 3}},
		{KindPath, core.RawProps{"commands": []any{
			map[string]any{"op": "move_to", "args": []any{1, 2}},
			map[string]any{"op": "quad_to", "args": []any{4, 8, 6, 2}},
		}}, geometry.Rect{Left: 1, Top: 2, Right: 6, Bottom: 8}},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			n := create(t, r, tt.kind, tt.props)
			assert.Equal(t, tt.want, n.(Shape).Bounds())
		})
	}
}

func TestRectRRect(t *testing.T) {
	rect, err := RectDescriptor.New(RectProps{Width: 10, Height: 4, RX: 3})
	require.NoError(t, err)

	rr := rect.RRect()
	assert.Equal(t, geometry.Radius{X: 3, Y: 2}, rr.Radius)
	assert.False(t, rr.IsRect())
}

func TestEncodePropsFlattensRenderable(t *testing.T) {
	raw, err := core.EncodeProps(RectProps{RenderableProps: RenderableProps{Name: "r", Opacity: 1}, Width: 2})
	require.NoError(t, err)
	assert.Equal(t, "r", raw["name"])
	assert.Equal(t, 2.0, raw["width"])
	_, nested := raw["RenderableProps"]
	assert.False(t, nested)
}
