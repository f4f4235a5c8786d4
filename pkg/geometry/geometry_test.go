package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMatrix(t *testing.T, v ...float64) Transform {
	t.Helper()
	tr, err := FromSVGMatrix(v)
	require.NoError(t, err)
	return tr
}

func moveTo(x, y float64) PathCommand { return PathCommand{Op: PathOpMoveTo, Args: []float64{x, y}} }
func lineTo(x, y float64) PathCommand { return PathCommand{Op: PathOpLineTo, Args: []float64{x, y}} }
func closePath() PathCommand          { return PathCommand{Op: PathOpClose} }

func TestRectBasics(t *testing.T) {
	r := RectFromLTWH(10, 20, 30, 40)
	assert.Equal(t, 30.0, r.Width())
	assert.Equal(t, 40.0, r.Height())
	assert.False(t, r.IsEmpty())
	assert.True(t, Rect{}.IsEmpty())
	assert.Equal(t, r, RectFromPoints(Offset{X: 40, Y: 60}, Offset{X: 10, Y: 20}))
}

func TestRectUnion(t *testing.T) {
	a := RectFromLTWH(0, 0, 10, 10)
	b := RectFromLTWH(5, 5, 10, 10)
	assert.Equal(t, Rect{Left: 0, Top: 0, Right: 15, Bottom: 15}, a.Union(b))
}

func TestRRectIsRect(t *testing.T) {
	assert.True(t, RRect{Rect: RectFromLTWH(0, 0, 1, 1)}.IsRect())
	assert.False(t, RRect{Rect: RectFromLTWH(0, 0, 1, 1), Radius: Radius{X: 2}}.IsRect())
}

func TestIsFinite(t *testing.T) {
	assert.True(t, IsFinite())
	assert.True(t, IsFinite(0, -1, 1e300))
	assert.False(t, IsFinite(1, math.NaN()))
	assert.False(t, IsFinite(math.Inf(-1)))
}

func TestTransformCompose(t *testing.T) {
	scale := mustMatrix(t, 2, 0, 0, 3, 0, 0)
	translate := mustMatrix(t, 1, 0, 0, 1, 10, 20)
	got := scale.Then(translate).Apply(Offset{X: 1, Y: 1})
	assert.InDelta(t, 12.0, got.X, 1e-9)
	assert.InDelta(t, 23.0, got.Y, 1e-9)

	assert.True(t, Identity().IsIdentity())
	assert.True(t, Identity().Then(Identity()).IsIdentity())
	assert.False(t, translate.IsIdentity())
}

func TestTransformAxisAligned(t *testing.T) {
	sin, cos := math.Sincos(math.Pi / 4)
	tests := []struct {
		name   string
		matrix []float64
		want   bool
	}{
		{"identity", nil, true},
		{"translate", []float64{1, 0, 0, 1, 3, 4}, true},
		{"scale", []float64{2, 0, 0, -1, 0, 0}, true},
		{"quarter turn", []float64{0, 1, -1, 0, 0, 0}, true},
		{"half turn", []float64{-1, 0, 0, -1, 0, 0}, true},
		{"rotate 45", []float64{cos, sin, -sin, cos, 0, 0}, false},
		{"degenerate", []float64{0, 0, 0, 1, 0, 0}, false},
		{"skew", []float64{1, 0, 0.5, 1, 0, 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mustMatrix(t, tt.matrix...).IsAxisAligned())
		})
	}
}

func TestTransformMapRect(t *testing.T) {
	r := RectFromLTWH(0, 0, 10, 20)
	got := mustMatrix(t, 0, 1, -1, 0, 0, 0).MapRect(r)
	assert.True(t, got.ApproxEqual(Rect{Left: -20, Top: 0, Right: 0, Bottom: 10}), "got %+v", got)
}

func TestFromSVGMatrix(t *testing.T) {
	tr, err := FromSVGMatrix(nil)
	require.NoError(t, err)
	assert.True(t, tr.IsIdentity())

	// translate(5, 6)
	tr, err = FromSVGMatrix([]float64{1, 0, 0, 1, 5, 6})
	require.NoError(t, err)
	assert.Equal(t, Offset{X: 5, Y: 6}, tr.Apply(Offset{}))

	_, err = FromSVGMatrix([]float64{1, 2, 3})
	assert.Error(t, err)
	_, err = FromSVGMatrix([]float64{1, 0, 0, 1, math.Inf(1), 0})
	assert.Error(t, err)
}

func TestPathOpText(t *testing.T) {
	var op PathOp
	require.NoError(t, op.UnmarshalText([]byte("cubic_to")))
	assert.Equal(t, PathOpCubicTo, op)
	assert.Error(t, op.UnmarshalText([]byte("arc_to")))

	text, err := PathOpClose.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "close", string(text))
	assert.Equal(t, "PathOp(9)", PathOp(9).String())
}

func TestFillRule(t *testing.T) {
	var r FillRule
	require.NoError(t, r.UnmarshalText([]byte("evenodd")))
	assert.Equal(t, FillRuleEvenOdd, r)
	assert.Error(t, r.UnmarshalText([]byte("odd")))

	assert.NoError(t, FillRuleEvenOdd.Validate())
	assert.Error(t, FillRule(5).Validate())
	assert.Error(t, FillRule(-1).Validate())
}

func TestPathCommandValidate(t *testing.T) {
	assert.NoError(t, lineTo(1, 2).Validate())
	assert.NoError(t, closePath().Validate())
	assert.Error(t, PathCommand{Op: PathOpQuadTo, Args: []float64{1, 2}}.Validate())
	assert.Error(t, PathCommand{Op: PathOp(42)}.Validate())
	assert.Error(t, lineTo(math.NaN(), 2).Validate())
}

func TestBounds(t *testing.T) {
	quad := PathCommand{Op: PathOpQuadTo, Args: []float64{0, 10, 10, 10}}
	r, ok := Bounds([]PathCommand{moveTo(5, 5), quad, closePath()})
	require.True(t, ok)
	assert.Equal(t, Rect{Left: 0, Top: 5, Right: 10, Bottom: 10}, r)

	_, ok = Bounds([]PathCommand{closePath()})
	assert.False(t, ok)
}

func TestDetectRect(t *testing.T) {
	tests := []struct {
		name string
		cmds []PathCommand
		want Rect
		ok   bool
	}{
		{
			name: "closed with close",
			cmds: []PathCommand{moveTo(0, 0), lineTo(10, 0), lineTo(10, 5), lineTo(0, 5), closePath()},
			want: Rect{Right: 10, Bottom: 5},
			ok:   true,
		},
		{
			name: "returns to start",
			cmds: []PathCommand{moveTo(10, 5), lineTo(10, 0), lineTo(0, 0), lineTo(0, 5), lineTo(10, 5)},
			want: Rect{Right: 10, Bottom: 5},
			ok:   true,
		},
		{
			name: "returns to start then close",
			cmds: []PathCommand{moveTo(0, 0), lineTo(0, 4), lineTo(4, 4), lineTo(4, 0), lineTo(0, 0), closePath()},
			want: Rect{Right: 4, Bottom: 4},
			ok:   true,
		},
		{
			name: "implicitly closed",
			cmds: []PathCommand{moveTo(0, 0), lineTo(10, 0), lineTo(10, 5), lineTo(0, 5)},
			want: Rect{Right: 10, Bottom: 5},
			ok:   true,
		},
		{
			name: "open polyline with five points",
			cmds: []PathCommand{moveTo(0, 0), lineTo(10, 0), lineTo(10, 5), lineTo(0, 5), lineTo(0, 2)},
		},
		{
			name: "diamond",
			cmds: []PathCommand{moveTo(5, 0), lineTo(10, 5), lineTo(5, 10), lineTo(0, 5), closePath()},
		},
		{
			name: "curve",
			cmds: []PathCommand{moveTo(0, 0), lineTo(10, 0), {Op: PathOpQuadTo, Args: []float64{10, 5, 0, 5}}, lineTo(0, 0), closePath()},
		},
		{
			name: "zero area",
			cmds: []PathCommand{moveTo(0, 0), lineTo(10, 0), lineTo(10, 0), lineTo(0, 0), closePath()},
		},
		{
			name: "close in middle",
			cmds: []PathCommand{moveTo(0, 0), lineTo(10, 0), closePath(), lineTo(10, 5), lineTo(0, 5)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DetectRect(tt.cmds)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
