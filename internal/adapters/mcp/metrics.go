package mcp

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Tool invocation outcomes.
const (
	outcomeSuccess    = "success"
	outcomeFailure    = "failure"
	outcomeUnexpected = "unexpected"
)

var toolCallsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gelato_mcp_tool_calls_total",
		Help: "Tool invocations by tool name and outcome.",
	},
	[]string{"tool", "outcome"},
)

func recordToolCall(tool, outcome string) {
	toolCallsTotal.WithLabelValues(tool, outcome).Inc()
}
