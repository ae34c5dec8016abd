package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: prometheus.DefBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Pipeline Metrics
var (
	PollCyclesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePollCyclesTotal,
			Help: HelpTextPollCyclesTotal,
		},
	)

	CharactersProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCharactersProcessed,
			Help: HelpTextCharactersProcessed,
		},
		[]string{LabelOutcome},
	)

	GearSlotFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameGearSlotFailures,
			Help: HelpTextGearSlotFailures,
		},
		[]string{LabelSlot},
	)

	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameUpstreamRequestsTotal,
			Help: HelpTextUpstreamRequestsTotal,
		},
		[]string{LabelEndpoint, LabelStatus},
	)

	AggregationRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameAggregationRunsTotal,
			Help: HelpTextAggregationRunsTotal,
		},
		[]string{LabelOutcome},
	)

	SnapshotExportsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSnapshotExportsTotal,
			Help: HelpTextSnapshotExportsTotal,
		},
	)
)
