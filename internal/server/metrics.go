package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	scansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contrast_scans_total",
		Help: "Gcode settings scans by slicer and outcome.",
	}, []string{"slicer", "status"})

	comparesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contrast_compares_total",
		Help: "Comparison requests by output format.",
	}, []string{"format"})

	scanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "contrast_scan_duration_seconds",
		Help:    "Time spent parsing a gcode settings block.",
		Buckets: prometheus.DefBuckets,
	})
)
