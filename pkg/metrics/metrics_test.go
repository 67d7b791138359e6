package metrics_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/hirelane/hirelane/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	return string(body)
}

func TestMetrics_ExposesCounters(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	m.ExecutionFinished("completed")
	m.ExecutionFinished("completed")
	m.ActionFinished("send_email", "ok")
	m.AccessDecision("privileged_role")
	m.NotificationDelivered("email", "failed")

	body := scrape(t, m)

	assert.Contains(t, body, `hirelane_workflow_executions_total{status="completed"} 2`)
	assert.Contains(t, body, `hirelane_workflow_actions_total{action_type="send_email",outcome="ok"} 1`)
	assert.Contains(t, body, `hirelane_access_decisions_total{reason="privileged_role"} 1`)
	assert.Contains(t, body, `hirelane_notifications_total{channel="email",outcome="failed"} 1`)
}

func TestMetrics_NilRecordsNothing(t *testing.T) {
	t.Parallel()

	var m *metrics.Metrics

	assert.NotPanics(t, func() {
		m.ExecutionFinished("failed")
		m.ActionFinished("change_status", "error")
		m.AccessDecision("subscription_inactive")
		m.NotificationDelivered("in_app", "sent")
	})
}
