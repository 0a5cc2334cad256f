// internal/common/observability/metrics_test.go
package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Recording
// ==========================

func TestRecordSearch_RealPipeline(t *testing.T) {
	obs := New("observability-test")
	require.NotNil(t, obs)
	defer obs.Shutdown()

	assert.NotPanics(t, func() {
		obs.RecordSearch(context.Background(), "ok")
		obs.RecordSearchDuration(context.Background(), 150*time.Millisecond, "ok")
	})
}

func TestRecordSearch_NilReceiverIsNoop(t *testing.T) {
	var obs *Observability

	assert.NotPanics(t, func() {
		obs.RecordSearch(context.Background(), "ok")
		obs.RecordSearchDuration(context.Background(), time.Second, "empty")
	})
}

func TestRecordSearch_ZeroValueIsNoop(t *testing.T) {
	obs := &Observability{}

	assert.NotPanics(t, func() {
		obs.RecordSearch(context.Background(), "ok")
		obs.RecordSearchDuration(context.Background(), time.Second, "ok")
		obs.Shutdown()
	})
}
