// Package metrics exports analysis results in the Prometheus textfile format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ccollicutt/backuplog/pkg/output"
)

const namespace = "backuplog"

// Exporter holds one gauge family per derived value, labelled by source.
type Exporter struct {
	registry *prometheus.Registry

	found      *prometheus.GaugeVec
	start      *prometheus.GaugeVec
	end        *prometheus.GaugeVec
	marker     *prometheus.GaugeVec
	warnings   *prometheus.GaugeVec
	linesRead  *prometheus.GaugeVec
	analyzedAt prometheus.Gauge
}

// NewExporter creates an exporter backed by its own registry.
func NewExporter() *Exporter {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	labels := []string{"source"}

	return &Exporter{
		registry: reg,
		found: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "source_found",
			Help:      "1 if a log file matched the source pattern for the analysis date.",
		}, labels),
		start: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "start_timestamp_seconds",
			Help:      "Timestamp of the first dated line of the source log.",
		}, labels),
		end: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "end_timestamp_seconds",
			Help:      "Timestamp of the last dated line of the source log.",
		}, labels),
		marker: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "marker_timestamp_seconds",
			Help:      "Timestamp of the first line containing the source marker.",
		}, labels),
		warnings: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "parse_warnings",
			Help:      "Lines whose leading timestamp could not be parsed.",
		}, labels),
		linesRead: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "lines_read",
			Help:      "Lines read from the source log.",
		}, labels),
		analyzedAt: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "When the analysis ran.",
		}),
	}
}

// Observe sets the gauges from a report. Timestamps that were not found
// produce no series.
func (e *Exporter) Observe(report *output.Report) {
	for _, src := range report.Sources {
		found := 0.0
		if src.Found {
			found = 1
		}
		e.found.WithLabelValues(src.Name).Set(found)
		e.warnings.WithLabelValues(src.Name).Set(float64(src.WarningCount))
		e.linesRead.WithLabelValues(src.Name).Set(float64(src.LinesRead))

		setTime(e.start, src.Name, src.Summary.Start)
		setTime(e.end, src.Name, src.Summary.End)
		setTime(e.marker, src.Name, src.Summary.Marker)
	}
	if !report.Metadata.AnalyzedAt.IsZero() {
		e.analyzedAt.Set(float64(report.Metadata.AnalyzedAt.Unix()))
	}
}

// Gatherer exposes the exporter's registry.
func (e *Exporter) Gatherer() prometheus.Gatherer {
	return e.registry
}

// WriteTextfile atomically writes the current gauges to path.
func (e *Exporter) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, e.registry)
}

// WriteTextfile exports a single report to path.
func WriteTextfile(path string, report *output.Report) error {
	e := NewExporter()
	e.Observe(report)
	return e.WriteTextfile(path)
}

// setTime records a naive log timestamp as wall clock time in the local zone,
// the zone the backup job wrote it in.
func setTime(vec *prometheus.GaugeVec, source string, t *time.Time) {
	if t == nil {
		return
	}
	vec.WithLabelValues(source).Set(float64(LocalUnix(*t)))
}

// LocalUnix interprets the wall clock fields of t in the local zone.
func LocalUnix(t time.Time) int64 {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.Local).Unix()
}
