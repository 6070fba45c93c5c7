/*
Package monitoring provides Prometheus metrics for the filesystem service.

# Overview

Each collector set is backed by its own registry, so several sandboxed
services can run in one process without collector name collisions. All
recording methods are safe on a nil *Metrics, which keeps instrumentation
optional at construction time.

# Metrics

  - Operation counters, durations, and taxonomy-coded errors
  - Cache hit/miss counters and occupancy gauges
  - Lock table size gauge

# Usage

	metrics := monitoring.NewMetrics()

	timer := monitoring.StartTimer(metrics, "read")
	// ... perform operation ...
	timer.Stop("success")

	metrics.RecordCacheHit()
	metrics.SetCacheUsage(12, 4096)

Expose the registry via the standard Prometheus handler:

	import "github.com/prometheus/client_golang/prometheus/promhttp"
	http.Handle("/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))
*/
package monitoring
