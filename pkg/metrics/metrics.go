// Package metrics exports registry and builder activity as Prometheus
// metrics.
//
//	m := metrics.New()
//	prometheus.MustRegister(m)
//	reg := core.NewRegistry(core.WithObserver(m))
package metrics

import (
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/go-drift/shadowtree/pkg/core"
)

const namespace = "shadowtree"

// Collector counts node activity per kind. It implements [core.Observer]
// and [prometheus.Collector].
type Collector struct {
	created       *prometheus.CounterVec
	cloned        *prometheus.CounterVec
	lookupMisses  *prometheus.CounterVec
	propsRejected *prometheus.CounterVec
	buildDuration prometheus.Histogram
	buildAborted  prometheus.Counter
}

// New returns a Collector. Register it with a prometheus.Registerer to
// export it.
func New() *Collector {
	byKind := func(name, help string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, []string{"kind"})
	}
	return &Collector{
		created:       byKind("nodes_created_total", "Nodes created through the registry."),
		cloned:        byKind("nodes_cloned_total", "Nodes cloned through the registry."),
		lookupMisses:  byKind("lookup_misses_total", "Lookups of unregistered kinds."),
		propsRejected: byKind("props_rejected_total", "Create or clone calls rejected for invalid props."),
		buildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Duration of tree builds.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		buildAborted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "subtrees_aborted_total",
			Help:      "Subtrees dropped by builds.",
		}),
	}
}

func (c *Collector) NodeCreated(kind core.KindName) {
	c.created.WithLabelValues(string(kind)).Inc()
}

func (c *Collector) NodeCloned(kind core.KindName) {
	c.cloned.WithLabelValues(string(kind)).Inc()
}

func (c *Collector) LookupMissed(kind core.KindName) {
	c.lookupMisses.WithLabelValues(string(kind)).Inc()
}

func (c *Collector) PropsRejected(kind core.KindName) {
	c.propsRejected.WithLabelValues(string(kind)).Inc()
}

// BuildFinished records one completed build.
func (c *Collector) BuildFinished(d time.Duration, aborted int) {
	c.buildDuration.Observe(d.Seconds())
	c.buildAborted.Add(float64(aborted))
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.created.Describe(ch)
	c.cloned.Describe(ch)
	c.lookupMisses.Describe(ch)
	c.propsRejected.Describe(ch)
	c.buildDuration.Describe(ch)
	c.buildAborted.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.created.Collect(ch)
	c.cloned.Collect(ch)
	c.lookupMisses.Collect(ch)
	c.propsRejected.Collect(ch)
	c.buildDuration.Collect(ch)
	c.buildAborted.Collect(ch)
}

// WriteText writes every metric gathered from g in the Prometheus text
// exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

var _ core.Observer = (*Collector)(nil)
