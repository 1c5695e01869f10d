package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestObserveRequest verifies the request counter labels.
func TestObserveRequest(t *testing.T) {
	c := HTTPRequestsTotal.WithLabelValues("POST", "/*", "303")
	before := testutil.ToFloat64(c)
	ObserveRequest("POST", "/*", 303, 5*time.Millisecond)
	if got := testutil.ToFloat64(c); got != before+1 {
		t.Errorf("counter = %v, want %v", got, before+1)
	}
}

// TestObserveAction verifies the handled label.
func TestObserveAction(t *testing.T) {
	c := PageActionsTotal.WithLabelValues("contrast-toggle", "false")
	before := testutil.ToFloat64(c)
	ObserveAction("contrast-toggle", false)
	if got := testutil.ToFloat64(c); got != before+1 {
		t.Errorf("counter = %v, want %v", got, before+1)
	}
}
