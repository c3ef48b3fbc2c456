package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.RecordDispatch("predict", "success", 0.25)
	r.RecordDispatch("predict", "failed", 1.5)
	r.RecordFailure("predict", "http")
	r.RecordResultShape("forecast_series")
	r.RecordRejection("add_price")
	r.RecordJournal("kafka", "ok")
	r.InFlight(1)
	r.InFlight(1)
	r.InFlight(-1)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.dispatches.WithLabelValues("predict", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.failures.WithLabelValues("predict", "http")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.shapes.WithLabelValues("forecast_series")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.rejections.WithLabelValues("add_price")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.journal.WithLabelValues("kafka", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.inFlight))
	assert.Equal(t, 1, testutil.CollectAndCount(r.latency))
}

func TestRecordersUseSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
