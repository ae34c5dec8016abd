package metrics

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Pipeline metric names
const (
	MetricNamePollCyclesTotal       = "poll_cycles_total"
	MetricNameCharactersProcessed   = "characters_processed_total"
	MetricNameGearSlotFailures      = "gear_slot_failures_total"
	MetricNameUpstreamRequestsTotal = "upstream_requests_total"
	MetricNameAggregationRunsTotal  = "aggregation_runs_total"
	MetricNameSnapshotExportsTotal  = "snapshot_exports_total"
)

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Pipeline metric help text
const (
	HelpTextPollCyclesTotal       = "Total number of polling cycles started"
	HelpTextCharactersProcessed   = "Total number of characters processed, by outcome"
	HelpTextGearSlotFailures      = "Total number of gear slots whose persistence failed"
	HelpTextUpstreamRequestsTotal = "Total number of upstream API requests, by endpoint and status"
	HelpTextAggregationRunsTotal  = "Total number of weekly progress aggregation runs, by outcome"
	HelpTextSnapshotExportsTotal  = "Total number of snapshot files written"
)

// Common label names used across metrics
const (
	LabelMethod   = "method"
	LabelPath     = "path"
	LabelStatus   = "status"
	LabelSlot     = "slot"
	LabelOutcome  = "outcome"
	LabelEndpoint = "endpoint"
)

// Outcome label values
const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)
