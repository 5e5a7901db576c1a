// Package metrics exposes per-run gauges for the node_exporter textfile
// collector. relfeed exits after each run, so nothing is served over HTTP.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Run struct {
	Registry *prometheus.Registry

	Sources        prometheus.Gauge
	Releases       prometheus.Gauge
	Misses         prometheus.Gauge
	Entries        prometheus.Gauge
	Duration       prometheus.Gauge
	LastSuccess    prometheus.Gauge
	LastRunSuccess prometheus.Gauge
}

func New() *Run {
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "relfeed",
			Name:      name,
			Help:      help,
		})
	}

	m := &Run{
		Registry:       prometheus.NewRegistry(),
		Sources:        gauge("sources", "Starred repositories collected in the last run"),
		Releases:       gauge("releases", "Repositories with a usable latest release in the last run"),
		Misses:         gauge("enrichment_misses", "Release lookups skipped in the last run"),
		Entries:        gauge("feed_entries", "Entries written to the feed in the last run"),
		Duration:       gauge("run_duration_seconds", "Wall time of the last run"),
		LastSuccess:    gauge("last_success_timestamp_seconds", "Unix time of the last successful run"),
		LastRunSuccess: gauge("last_run_success", "1 if the last run wrote a feed, 0 otherwise"),
	}
	m.Registry.MustRegister(m.Sources, m.Releases, m.Misses, m.Entries, m.Duration, m.LastSuccess, m.LastRunSuccess)
	return m
}

// Observe records the outcome of one run.
func (m *Run) Observe(sources, releases, entries int, took time.Duration, err error) {
	m.Sources.Set(float64(sources))
	m.Releases.Set(float64(releases))
	m.Misses.Set(float64(sources - releases))
	m.Entries.Set(float64(entries))
	m.Duration.Set(took.Seconds())
	if err != nil {
		m.LastRunSuccess.Set(0)
		return
	}
	m.LastRunSuccess.Set(1)
	m.LastSuccess.SetToCurrentTime()
}

// WriteFile atomically writes the registry in the text exposition format.
func (m *Run) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
