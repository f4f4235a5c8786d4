package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/shadowtree/pkg/core"
	"github.com/go-drift/shadowtree/pkg/text"
)

func TestCollectorObservesRegistry(t *testing.T) {
	m := New()
	r := core.NewRegistry(core.WithObserver(m))
	r.MustRegister(text.Descriptors()...)

	n, err := r.Create(text.KindRawText, core.RawProps{"text": "a"})
	require.NoError(t, err)
	_, err = r.CloneWithProps(n, core.RawProps{"text": "b"})
	require.NoError(t, err)
	_, err = r.Create(text.KindText, core.RawProps{"fontSize": -1})
	require.Error(t, err)
	_, ok := r.Lookup("Image")
	require.False(t, ok)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.created.WithLabelValues("RawText")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cloned.WithLabelValues("RawText")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.propsRejected.WithLabelValues("Text")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.lookupMisses.WithLabelValues("Image")))
}

func TestWriteText(t *testing.T) {
	m := New()
	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(m))

	m.NodeCreated("Rect")
	m.BuildFinished(2*time.Millisecond, 3)

	var b strings.Builder
	require.NoError(t, WriteText(&b, reg))
	out := b.String()
	assert.Contains(t, out, `shadowtree_nodes_created_total{kind="Rect"} 1`)
	assert.Contains(t, out, "shadowtree_subtrees_aborted_total 3")
	assert.Contains(t, out, "shadowtree_build_duration_seconds_count 1")
}
