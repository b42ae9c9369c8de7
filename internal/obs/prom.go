package obs

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// PromMeter bridges Meter onto Prometheus, registering one collector per
// metric name on first use. Label names must stay consistent for a given
// metric name across calls.
type PromMeter struct {
	reg prometheus.Registerer

	mu       sync.Mutex
	counters map[string]*prometheus.CounterVec
	hists    map[string]*prometheus.HistogramVec
}

// NewPromMeter returns a PromMeter registering on r, or on the default
// registerer when r is nil.
func NewPromMeter(r prometheus.Registerer) *PromMeter {
	if r == nil {
		r = prometheus.DefaultRegisterer
	}
	return &PromMeter{
		reg:      r,
		counters: make(map[string]*prometheus.CounterVec),
		hists:    make(map[string]*prometheus.HistogramVec),
	}
}

func (m *PromMeter) Counter(name string, value float64, labels ...Label) {
	names, values := splitLabels(labels)
	m.mu.Lock()
	cv, ok := m.counters[name]
	if !ok {
		cv = prometheus.NewCounterVec(prometheus.CounterOpts{Name: name}, names)
		if existing, replaced := m.register(cv); replaced {
			cv = existing.(*prometheus.CounterVec)
		}
		m.counters[name] = cv
	}
	m.mu.Unlock()
	cv.WithLabelValues(values...).Add(value)
}

func (m *PromMeter) Histogram(name string, value float64, labels ...Label) {
	names, values := splitLabels(labels)
	m.mu.Lock()
	hv, ok := m.hists[name]
	if !ok {
		hv = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    name,
			Buckets: prometheus.DefBuckets,
		}, names)
		if existing, replaced := m.register(hv); replaced {
			hv = existing.(*prometheus.HistogramVec)
		}
		m.hists[name] = hv
	}
	m.mu.Unlock()
	hv.WithLabelValues(values...).Observe(value)
}

func (m *PromMeter) register(c prometheus.Collector) (prometheus.Collector, bool) {
	err := m.reg.Register(c)
	if err == nil {
		return c, false
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		return are.ExistingCollector, true
	}
	return c, false
}

func splitLabels(labels []Label) ([]string, []string) {
	names := make([]string, len(labels))
	values := make([]string, len(labels))
	for i, l := range labels {
		names[i] = l.Key
		values[i] = l.Value
	}
	return names, values
}
