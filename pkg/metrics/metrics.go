// Package metrics exposes Prometheus counters for workflow runs, access
// decisions and notification delivery.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the registered collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	workflowExecutions *prometheus.CounterVec
	workflowActions    *prometheus.CounterVec
	accessDecisions    *prometheus.CounterVec
	notifications      *prometheus.CounterVec
}

// New registers the collectors on a fresh registry together with the Go and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		workflowExecutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hirelane_workflow_executions_total",
				Help: "Workflow executions by final status.",
			},
			[]string{"status"},
		),
		workflowActions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hirelane_workflow_actions_total",
				Help: "Workflow actions by type and outcome.",
			},
			[]string{"action_type", "outcome"},
		),
		accessDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hirelane_access_decisions_total",
				Help: "Access guard decisions by reason.",
			},
			[]string{"reason"},
		),
		notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hirelane_notifications_total",
				Help: "Notification deliveries by channel and outcome.",
			},
			[]string{"channel", "outcome"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.workflowExecutions,
		m.workflowActions,
		m.accessDecisions,
		m.notifications,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ExecutionFinished(status string) {
	if m == nil {
		return
	}

	m.workflowExecutions.WithLabelValues(status).Inc()
}

func (m *Metrics) ActionFinished(actionType, outcome string) {
	if m == nil {
		return
	}

	m.workflowActions.WithLabelValues(actionType, outcome).Inc()
}

func (m *Metrics) AccessDecision(reason string) {
	if m == nil {
		return
	}

	m.accessDecisions.WithLabelValues(reason).Inc()
}

func (m *Metrics) NotificationDelivered(channel, outcome string) {
	if m == nil {
		return
	}

	m.notifications.WithLabelValues(channel, outcome).Inc()
}
