package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRequest_CountsByOutcome(t *testing.T) {
	before := testutil.ToFloat64(apiRequests.WithLabelValues("get_event", "not_found"))

	ObserveRequest("get_event", "not_found", 15*time.Millisecond)
	ObserveRequest("get_event", "not_found", 5*time.Millisecond)

	after := testutil.ToFloat64(apiRequests.WithLabelValues("get_event", "not_found"))
	assert.Equal(t, before+2, after)
}

func TestObserveWorkflow(t *testing.T) {
	okBefore := testutil.ToFloat64(workflows.WithLabelValues("delete_event", "success"))
	failBefore := testutil.ToFloat64(workflows.WithLabelValues("delete_event", "failure"))

	ObserveWorkflow("delete_event", true)
	ObserveWorkflow("delete_event", false)
	ObserveWorkflow("delete_event", false)

	assert.Equal(t, okBefore+1, testutil.ToFloat64(workflows.WithLabelValues("delete_event", "success")))
	assert.Equal(t, failBefore+2, testutil.ToFloat64(workflows.WithLabelValues("delete_event", "failure")))
}

func TestStaleResponse(t *testing.T) {
	before := testutil.ToFloat64(staleResponses.WithLabelValues("events"))
	StaleResponse("events")
	assert.Equal(t, before+1, testutil.ToFloat64(staleResponses.WithLabelValues("events")))
}
