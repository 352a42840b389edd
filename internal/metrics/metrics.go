// Package metrics exposes check results as Prometheus metrics written to a
// node-exporter textfile.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"upkeep/internal/checker"
)

const namespace = "upkeep"

// Registry holds the upkeep collectors. It is safe for concurrent use.
type Registry struct {
	reg  *prometheus.Registry
	path string
	log  *zap.Logger

	// mu serializes textfile writes.
	mu sync.Mutex

	upgradesAvailable prometheus.Gauge
	lastCheck         prometheus.Gauge
	lastSuccess       prometheus.Gauge
	checkDuration     prometheus.Gauge
	checksTotal       *prometheus.CounterVec
}

// NewRegistry creates the collectors. When path is non-empty every observed
// report is also written to that textfile.
func NewRegistry(path string, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}

	r := &Registry{
		reg:  prometheus.NewRegistry(),
		path: path,
		log:  log,
		upgradesAvailable: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "upgrades_available",
			Help:      "Number of package upgrades found by the last successful check",
		}),
		lastCheck: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_check_timestamp_seconds",
			Help:      "Unix time of the last upgrade check",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_check_success",
			Help:      "Whether the last upgrade check could launch the package manager",
		}),
		checkDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "check_duration_seconds",
			Help:      "Duration of the last upgrade check",
		}),
		checksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checks_total",
			Help:      "Total number of upgrade checks",
		}, []string{"result"}),
	}

	r.reg.MustRegister(r.upgradesAvailable, r.lastCheck, r.lastSuccess, r.checkDuration, r.checksTotal)
	return r
}

// Gatherer returns the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Observe updates the collectors from a check report. The available-upgrade
// gauge keeps its previous value when the check failed to launch.
func (r *Registry) Observe(report checker.Report) {
	r.lastCheck.Set(float64(report.CheckedAt.Unix()))
	r.checkDuration.Set(report.Duration.Seconds())

	if report.LaunchFailed {
		r.lastSuccess.Set(0)
		r.checksTotal.WithLabelValues("failed").Inc()
		return
	}

	r.lastSuccess.Set(1)
	r.upgradesAvailable.Set(float64(len(report.Upgrades)))
	r.checksTotal.WithLabelValues("success").Inc()
}

// ObserveReport implements checker.Observer. It updates the collectors and
// refreshes the textfile; write errors are logged.
func (r *Registry) ObserveReport(report checker.Report) {
	r.Observe(report)
	if r.path == "" {
		return
	}
	if err := r.WriteTextfile(r.path); err != nil {
		r.log.Warn("failed to write metrics textfile", zap.String("path", r.path), zap.Error(err))
	}
}

// WriteTextfile writes all metrics to path in the text exposition format.
// The file is replaced atomically.
func (r *Registry) WriteTextfile(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
