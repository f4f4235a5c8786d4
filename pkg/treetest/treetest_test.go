package treetest

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/shadowtree/pkg/catalog"
	"github.com/go-drift/shadowtree/pkg/core"
	"github.com/go-drift/shadowtree/pkg/svg"
	"github.com/go-drift/shadowtree/pkg/text"
)

func newRegistry(t *testing.T) *core.Registry {
	t.Helper()
	r, err := catalog.NewRegistry(catalog.Options{})
	require.NoError(t, err)
	return r
}

func node(t *testing.T, r *core.Registry, kind core.KindName, props core.RawProps, children ...core.Node) core.Node {
	t.Helper()
	n, err := r.Create(kind, props)
	require.NoError(t, err)
	if len(children) > 0 {
		n, err = r.CloneWithChildren(n, children)
		require.NoError(t, err)
	}
	return n
}

func clipTree(t *testing.T, r *core.Registry) core.Node {
	return node(t, r, svg.KindClipPath, core.RawProps{"name": "clip"},
		node(t, r, svg.KindRect, core.RawProps{"width": 10, "height": 10}))
}

func TestSnapshotMatchesGolden(t *testing.T) {
	r := newRegistry(t)
	MustCapture(t, clipTree(t, r)).MatchesFile(t, filepath.Join("testdata", "clip.json"))
}

// fakeT records failures instead of stopping the test.
type fakeT struct {
	fatals []string
	errors []string
}

func (f *fakeT) Helper()      {}
func (f *fakeT) Name() string { return "TestFake" }
func (f *fakeT) Fatalf(format string, args ...any) {
	f.fatals = append(f.fatals, fmt.Sprintf(format, args...))
}
func (f *fakeT) Errorf(format string, args ...any) {
	f.errors = append(f.errors, fmt.Sprintf(format, args...))
}

func TestSnapshotMismatchReportsDiff(t *testing.T) {
	r := newRegistry(t)
	wide := node(t, r, svg.KindClipPath, core.RawProps{"name": "clip"},
		node(t, r, svg.KindRect, core.RawProps{"width": 20, "height": 10}))

	ft := &fakeT{}
	MustCapture(t, wide).MatchesFile(ft, filepath.Join("testdata", "clip.json"))
	require.Len(t, ft.errors, 1)
	assert.Contains(t, ft.errors[0], "--- expected")
	assert.Contains(t, ft.errors[0], `-          "width": 10,`)
	assert.Contains(t, ft.errors[0], `+          "width": 20,`)
	assert.Contains(t, ft.errors[0], UpdateEnv+"=1 go test -run TestFake")
}

func TestSnapshotMissingFile(t *testing.T) {
	ft := &fakeT{}
	MustCapture(t, clipTree(t, newRegistry(t))).MatchesFile(ft, filepath.Join(t.TempDir(), "none.json"))
	require.Len(t, ft.fatals, 1)
	assert.Contains(t, ft.fatals[0], "snapshot file missing")
}

func TestSnapshotUpdate(t *testing.T) {
	t.Setenv(UpdateEnv, "1")
	path := filepath.Join(t.TempDir(), "nested", "tree.json")
	r := newRegistry(t)
	tree := node(t, r, text.KindParagraph, core.RawProps{"numberOfLines": 2},
		node(t, r, text.KindRawText, core.RawProps{"text": "hello"}))

	snap := MustCapture(t, tree)
	snap.MatchesFile(t, path)

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Empty(t, snap.Diff(loaded))
	assert.Equal(t, map[string]any{"numberOfLines": 2.0, "ellipsizeMode": "tail"}, loaded.Root.Props)
}

func TestCaptureRoundsFloats(t *testing.T) {
	r := newRegistry(t)
	snap, err := Capture(node(t, r, svg.KindCircle, core.RawProps{"r": 1.23456}))
	require.NoError(t, err)
	assert.Equal(t, 1.23, snap.Root.Props["r"])

	empty, err := Capture(node(t, r, svg.KindDefs, nil))
	require.NoError(t, err)
	assert.Nil(t, empty.Root.Props)
}

func TestFinders(t *testing.T) {
	r := newRegistry(t)
	clip := clipTree(t, r)
	para := node(t, r, text.KindParagraph, nil,
		node(t, r, text.KindRawText, core.RawProps{"text": "hello "}),
		node(t, r, text.KindText, core.RawProps{"fontWeight": "bold"},
			node(t, r, text.KindRawText, core.RawProps{"text": "world"})))
	root := node(t, r, svg.KindGroup, nil,
		node(t, r, svg.KindDefs, nil, clip),
		node(t, r, svg.KindRect, core.RawProps{"clipPath": "clip"}))

	rects := Find(root, ByKind(svg.KindRect))
	assert.Equal(t, 2, rects.Count())
	assert.Same(t, clip.(core.Parent).ChildAt(0), rects.First())

	assert.Same(t, clip, Find(root, ByName("clip")).First())
	assert.False(t, Find(root, ByName("missing")).Exists())
	assert.Nil(t, Find(root, ByName("missing")).FirstOrNil())

	inClip := Find(root, Descendant(ByKind(svg.KindClipPath), ByKind(svg.KindRect)))
	assert.Equal(t, 1, inClip.Count())

	assert.Same(t, para, Find(para, ByText("hello world")).First())
	assert.Equal(t, 3, Find(para, ByTextContaining("world")).Count())

	clipped := Find(root, ByPredicate(func(n core.Node) bool {
		s, ok := n.(svg.Shape)
		return ok && s.Renderable().ClipPath != ""
	}))
	assert.Equal(t, 1, clipped.Count())

	assert.PanicsWithValue(t, "Finder found no nodes: ByKind(Mask)", func() {
		Find(root, ByKind(svg.KindMask)).First()
	})
	assert.Panics(t, func() { rects.At(5) })
}
