// Package observe exports the occupancy of memkit containers as Prometheus
// metrics.
//
// Containers are not goroutine-safe, while Prometheus collects from the
// HTTP handler's goroutine. Pass the lock that guards the containers with
// WithLocker so Collect reads them under it.
package observe

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pavanmanishd/memkit/hashmap"
	"github.com/pavanmanishd/memkit/vector"
)

// Sizer is implemented by every container in memkit.
type Sizer interface {
	Len() int
	Cap() int
}

// Tombstoner is implemented by containers that leave erased slots behind.
type Tombstoner interface {
	Tombstones() int
}

type source struct {
	name string
	s    Sizer
}

// Collector is a prometheus.Collector over a set of named containers.
type Collector struct {
	mu      sync.Locker
	sources *vector.Vector[source]
	names   *hashmap.Map[string, int]

	lenDesc  *prometheus.Desc
	capDesc  *prometheus.Desc
	utilDesc *prometheus.Desc
	tombDesc *prometheus.Desc
}

// Option is a configuration option for Collector.
type Option func(*config)

type config struct {
	locker sync.Locker
	labels prometheus.Labels
}

// WithLocker makes Collect hold l while reading containers.
func WithLocker(l sync.Locker) Option {
	return func(c *config) {
		c.locker = l
	}
}

// WithConstLabels attaches labels to every exported series.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *config) {
		c.labels = labels
	}
}

type noopLocker struct{}

func (noopLocker) Lock()   {}
func (noopLocker) Unlock() {}

// NewCollector creates a collector whose metric names start with namespace.
func NewCollector(namespace string, opts ...Option) *Collector {
	c := config{locker: noopLocker{}}
	for _, opt := range opts {
		opt(&c)
	}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "container", name),
			help, []string{"container"}, c.labels,
		)
	}
	return &Collector{
		mu:       c.locker,
		sources:  vector.New[source](),
		names:    hashmap.New[string, int](hashmap.String[string]()),
		lenDesc:  desc("len", "Number of live elements."),
		capDesc:  desc("capacity", "Number of elements the current storage can hold."),
		utilDesc: desc("utilization", "Live elements divided by capacity."),
		tombDesc: desc("tombstones", "Erased slots not yet reclaimed."),
	}
}

// Register adds a container under name. Names must be unique.
func (c *Collector) Register(name string, s Sizer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.names.Contains(name) {
		return fmt.Errorf("observe: container %q already registered", name)
	}
	c.names.Insert(name, c.sources.Len())
	c.sources.PushBack(source{name: name, s: s})
	return nil
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.lenDesc
	ch <- c.capDesc
	ch <- c.utilDesc
	ch <- c.tombDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for src := range c.sources.Values() {
		n, capacity := src.s.Len(), src.s.Cap()
		var util float64
		if capacity > 0 {
			util = float64(n) / float64(capacity)
		}
		ch <- prometheus.MustNewConstMetric(c.lenDesc, prometheus.GaugeValue, float64(n), src.name)
		ch <- prometheus.MustNewConstMetric(c.capDesc, prometheus.GaugeValue, float64(capacity), src.name)
		ch <- prometheus.MustNewConstMetric(c.utilDesc, prometheus.GaugeValue, util, src.name)
		if t, ok := src.s.(Tombstoner); ok {
			ch <- prometheus.MustNewConstMetric(c.tombDesc, prometheus.GaugeValue, float64(t.Tombstones()), src.name)
		}
	}
}
