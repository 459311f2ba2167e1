// Package metrics exposes scheduler observability counters as Prometheus
// gauges, scraped by cmd/v4rtos-sim's serve command.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Source is the subset of *rtos.Scheduler this package reads from. Defined
// here, not imported from internal/rtos, so metrics stays a leaf package.
type Source interface {
	TaskCount() uint8
	TickCount() uint32
	ContextSwitches() uint64
	Preemptions() uint64
	CriticalNesting() uint32
}

// QueueSource reports the live message queue depth.
type QueueSource interface {
	QueueLen() int
}

// Registry wires a scheduler (and queue) into a dedicated Prometheus
// registry via GaugeFunc collectors, so scraping always reads live state
// rather than a stale snapshot.
type Registry struct {
	reg *prometheus.Registry
}

// NewRegistry constructs a Registry that reports sched's and queue's live
// counters under the v4rtos namespace.
func NewRegistry(sched Source, queue QueueSource) *Registry {
	reg := prometheus.NewRegistry()

	gauge := func(name, help string, fn func() float64) {
		reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "v4rtos",
			Name:      name,
			Help:      help,
		}, fn))
	}

	gauge("task_count", "Number of non-DEAD task-table slots.", func() float64 {
		return float64(sched.TaskCount())
	})
	gauge("tick_count", "Total scheduling ticks observed.", func() float64 {
		return float64(sched.TickCount())
	})
	gauge("context_switches_total", "Completed context switches.", func() float64 {
		return float64(sched.ContextSwitches())
	})
	gauge("preemptions_total", "Timer-driven preemptions performed.", func() float64 {
		return float64(sched.Preemptions())
	})
	gauge("critical_nesting", "Current critical-section nesting depth.", func() float64 {
		return float64(sched.CriticalNesting())
	})
	gauge("queue_depth", "Current message queue depth.", func() float64 {
		return float64(queue.QueueLen())
	})

	return &Registry{reg: reg}
}

// Handler returns the http.Handler serving this registry's metrics in the
// Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
