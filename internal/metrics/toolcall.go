package metrics

import "github.com/prometheus/client_golang/prometheus"

// Tool dispatch Prometheus metrics.
var (
	ToolDispatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "toolvec",
			Name:      "tool_dispatch_total",
			Help:      "Total number of tool call dispatches",
		},
		[]string{"function", "status"},
	)

	ToolDispatchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "toolvec",
			Name:      "tool_dispatch_duration_seconds",
			Help:      "Tool call dispatch duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.025, 0.1, 0.5, 1, 5, 30},
		},
		[]string{"function"},
	)

	ChatRoundsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "toolvec",
			Name:      "chat_rounds_total",
			Help:      "Total number of chat completion rounds (including tool-call rounds)",
		},
	)
)

var toolMetricsRegistered bool

// RegisterToolMetrics registers Prometheus tool metrics. Must be called once from main.
func RegisterToolMetrics() {
	if toolMetricsRegistered {
		return
	}
	prometheus.MustRegister(ToolDispatchTotal)
	prometheus.MustRegister(ToolDispatchDuration)
	prometheus.MustRegister(ChatRoundsTotal)
	toolMetricsRegistered = true
}
