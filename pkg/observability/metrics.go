// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the rekurs service.
package observability

import "github.com/prometheus/client_golang/prometheus"

// LLMBuckets defines histogram buckets suited for LLM inference latencies,
// ranging from 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

// IterationBuckets covers the iteration counts a run can consume before
// its budget is exhausted.
var IterationBuckets = []float64{1, 2, 3, 4, 5, 7, 10, 15, 20}

var (
	// RequestsTotal counts all HTTP requests by method and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rekurs_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "status"},
	)

	// RequestDuration records HTTP request duration in seconds by method.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rekurs_request_duration_seconds",
			Help:    "Request duration",
			Buckets: LLMBuckets,
		},
		[]string{"method"},
	)

	// RunsTotal counts completed query runs by outcome: answered,
	// budget_exhausted, provider_error, or cancelled.
	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rekurs_runs_total",
			Help: "Completed query runs",
		},
		[]string{"outcome"},
	)

	// RunsActive tracks the number of query runs currently executing.
	RunsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rekurs_runs_active",
			Help: "Query runs in flight",
		},
	)

	// RunIterations records how many loop iterations a run consumed.
	RunIterations = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rekurs_run_iterations",
			Help:    "Iterations per run",
			Buckets: IterationBuckets,
		},
	)

	// LLMCallsTotal counts model invocations by kind: root for the driving
	// generation calls, sub_query for llm_query calls issued from fragments,
	// and summary for summarizer calls.
	LLMCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rekurs_llm_calls_total",
			Help: "Model invocations",
		},
		[]string{"kind"},
	)

	// SandboxFaultsTotal counts fragment executions that faulted and were
	// recovered into textual output.
	SandboxFaultsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rekurs_sandbox_faults_total",
			Help: "Recovered fragment faults",
		},
	)

	// ProviderRequestsTotal counts requests sent to backend LLM providers.
	ProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rekurs_provider_requests_total",
			Help: "Provider requests",
		},
		[]string{"provider", "model", "status"},
	)

	// ProviderLatency records backend provider latency in seconds.
	ProviderLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rekurs_provider_latency_seconds",
			Help:    "Provider latency",
			Buckets: LLMBuckets,
		},
		[]string{"provider", "model"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		RunsTotal,
		RunsActive,
		RunIterations,
		LLMCallsTotal,
		SandboxFaultsTotal,
		ProviderRequestsTotal,
		ProviderLatency,
	)
}
