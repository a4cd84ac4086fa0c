package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterBackendMetrics_Idempotent(t *testing.T) {
	RegisterBackendMetrics()
	RegisterBackendMetrics()

	before := testutil.ToFloat64(BackendRequestsTotal.WithLabelValues("search", OutcomeSuccess))
	BackendRequestsTotal.WithLabelValues("search", OutcomeSuccess).Inc()
	after := testutil.ToFloat64(BackendRequestsTotal.WithLabelValues("search", OutcomeSuccess))
	if after-before != 1 {
		t.Errorf("expected counter to grow by 1, got %f", after-before)
	}
}
