package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/san-kum/vlasim/internal/kinetic"
)

// Collector exports per-step instrumentation on its own registry.
type Collector struct {
	registry *prometheus.Registry

	advances       prometheus.Counter
	advanceSeconds prometheus.Histogram
	energy         prometheus.Gauge
	fieldMax       *prometheus.GaugeVec
	simTime        prometheus.Gauge
}

func NewCollector(run string) *Collector {
	labels := prometheus.Labels{"run": run}
	c := &Collector{
		registry: prometheus.NewRegistry(),
		advances: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "vlasim",
			Name:        "advances_total",
			Help:        "Completed velocity-space advances.",
			ConstLabels: labels,
		}),
		advanceSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   "vlasim",
			Name:        "advance_duration_seconds",
			Help:        "Wall time of one advance including the field solve.",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(1e-5, 4, 10),
		}),
		energy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "vlasim",
			Name:        "spectral_energy",
			Help:        "Sum of squared spectral coefficient magnitudes.",
			ConstLabels: labels,
		}),
		fieldMax: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   "vlasim",
			Name:        "field_max_abs",
			Help:        "Largest absolute electric field component.",
			ConstLabels: labels,
		}, []string{"component"}),
		simTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "vlasim",
			Name:        "simulation_time",
			Help:        "Simulation time after the latest advance.",
			ConstLabels: labels,
		}),
	}
	c.registry.MustRegister(c.advances, c.advanceSeconds, c.energy, c.fieldMax, c.simTime)
	return c
}

func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// OnStep records one advance.
func (c *Collector) OnStep(info kinetic.StepInfo) {
	c.advances.Inc()
	c.advanceSeconds.Observe(info.Elapsed.Seconds())
	c.energy.Set(SpectralEnergy(info.Spectrum))
	c.fieldMax.WithLabelValues("ex").Set(MaxAbs(info.Ex))
	c.fieldMax.WithLabelValues("ey").Set(MaxAbs(info.Ey))
	c.simTime.Set(info.Time)
}

// WriteTextfile writes the current metrics in the text exposition format.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}
