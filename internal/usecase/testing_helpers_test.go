package usecase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"FuelDesk/internal/domain/models"
	drepo "FuelDesk/internal/domain/repository"
	"FuelDesk/internal/service/forecast"
	xhttp "FuelDesk/pkg/http"
	"FuelDesk/pkg/logger"
	"FuelDesk/pkg/metrics"
)

type gatewayFunc func(ctx context.Context, ep models.Endpoint, spec models.RequestSpec) (*models.ResponseEnvelope, error)

func (f gatewayFunc) Send(ctx context.Context, ep models.Endpoint, spec models.RequestSpec) (*models.ResponseEnvelope, error) {
	return f(ctx, ep, spec)
}

func testMetrics() drepo.Metrics {
	return metrics.New(prometheus.NewRegistry())
}

func newTestDispatcher(gw drepo.ForecastGateway, dropStale bool) (*Dispatcher, *StateStore) {
	store := NewStateStore(dropStale)
	return NewDispatcher(gw, store, testMetrics(), logger.Nop()), store
}

// fakeService starts an httptest forecasting service and counts its requests.
func fakeService(t *testing.T, h http.HandlerFunc) (drepo.ForecastGateway, *atomic.Int64) {
	t.Helper()
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return forecast.New(srv.URL, xhttp.NewClient(xhttp.WithTimeout(0))), &hits
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}
