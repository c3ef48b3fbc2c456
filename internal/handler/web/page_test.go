package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FuelDesk/internal/domain/models"
	"FuelDesk/internal/service/forecast"
	"FuelDesk/internal/usecase"
	xhttp "FuelDesk/pkg/http"
	xlogger "FuelDesk/pkg/logger"
	"FuelDesk/pkg/metrics"
)

type pageEnv struct {
	e    *echo.Echo
	hits *atomic.Int64
}

func newPageEnv(t *testing.T, service http.HandlerFunc) *pageEnv {
	t.Helper()
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		service(w, r)
	}))
	t.Cleanup(srv.Close)

	rec := metrics.New(prometheus.NewRegistry())
	store := usecase.NewStateStore(false)
	d := usecase.NewDispatcher(forecast.New(srv.URL, xhttp.NewClient()), store, rec, xlogger.Nop())
	console := usecase.NewConsole(d, store, rec, xlogger.Nop())

	r, err := NewRenderer()
	require.NoError(t, err)

	e := echo.New()
	e.Renderer = r
	NewPageHandler(xlogger.Nop(), console, nil).RegisterRoutes(e)
	return &pageEnv{e: e, hits: &hits}
}

func serveJSON(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func (pe *pageEnv) post(t *testing.T, endpoint string, form url.Values) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/actions/"+endpoint, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	pe.e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
}

func (pe *pageEnv) page(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	pe.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestIndex_InitialValues(t *testing.T) {
	pe := newPageEnv(t, serveJSON(`{}`))
	body := pe.page(t)

	assert.Contains(t, body, "Oil Price Predictor")
	assert.Contains(t, body, `<option value="diesel" selected>Diesel</option>`)
	assert.Contains(t, body, `name="retrain" value="true" checked`)
	assert.Contains(t, body, `name="horizon" value="7"`)
	assert.Contains(t, body, `name="price" value="32.5"`)
	assert.Contains(t, body, `name="limit" value="5"`)
	assert.Contains(t, body, `name="date" value="`+time.Now().Format("2006-01-02")+`"`)
	assert.Contains(t, body, "dataset_11_86.csv")
	assert.NotContains(t, body, "Response Data")
}

func TestAction_ForecastRendered(t *testing.T) {
	pe := newPageEnv(t, serveJSON(`{"current_price":32.5,"fuel_type":"lpg","predictions":[{"day":1,"date":"2024-01-02","predicted_price":32.567,"lower_bound":31.0,"upper_bound":34.0}]}`))

	pe.post(t, "predict", url.Values{"fuel_type": {"lpg"}, "horizon": {"3"}})
	body := pe.page(t)

	assert.Contains(t, body, "✅ Prediction generated for lpg")
	assert.Contains(t, body, "<td>฿32.57</td>")
	assert.Contains(t, body, "<td>฿31.00 - ฿34.00</td>")
	assert.Contains(t, body, `name="horizon" value="3"`)
	// the fuel choice carries over to the other forms
	assert.Equal(t, 3, strings.Count(body, `<option value="lpg" selected>LPG</option>`))
}

func TestAction_SimilarityRendered(t *testing.T) {
	pe := newPageEnv(t, serveJSON(`{"similar_dates":[{"date":"2023-12-01","price":31.9,"similarity_score":0.876}]}`))

	pe.post(t, "search", url.Values{"price": {"31.9"}, "fuel_type": {"diesel"}, "limit": {"5"}})
	body := pe.page(t)

	assert.Contains(t, body, "(similarity: 87.6%)")
	assert.Contains(t, body, "✅ Operation completed successfully")
}

func TestAction_GenericShowsRaw(t *testing.T) {
	pe := newPageEnv(t, serveJSON(`{"foo":"bar"}`))

	pe.post(t, "health", url.Values{})
	body := pe.page(t)

	assert.Contains(t, body, "<pre>{\n  &#34;foo&#34;: &#34;bar&#34;\n}</pre>")
}

func TestAction_EmptyPriceEntry(t *testing.T) {
	pe := newPageEnv(t, serveJSON(`{}`))

	pe.post(t, "add-price", url.Values{"date": {"2024-01-01"}, "diesel": {""}})
	body := pe.page(t)

	assert.Contains(t, body, "Please enter at least one fuel price")
	assert.Zero(t, pe.hits.Load())
}

func TestAction_PriceFieldsClearedAfterSend(t *testing.T) {
	pe := newPageEnv(t, serveJSON(`{"status":"success"}`))

	pe.post(t, "add-price", url.Values{"date": {""}, "diesel": {"32.5"}})
	assert.Contains(t, pe.page(t), `name="diesel" placeholder="32.50" value="32.5"`)

	pe.post(t, "add-price", url.Values{"date": {"2024-01-01"}, "diesel": {"32.5"}})
	body := pe.page(t)
	assert.Contains(t, body, "✅ Price entry added successfully")
	assert.Contains(t, body, `name="diesel" placeholder="32.50" value=""`)
	assert.EqualValues(t, 1, pe.hits.Load())
}

func TestAction_RetrainUnchecked(t *testing.T) {
	pe := newPageEnv(t, serveJSON(`{"samples":10}`))

	pe.post(t, "train", url.Values{"fuel_type": {"diesel"}, "retrain": {"false"}})
	body := pe.page(t)

	assert.NotContains(t, body, `value="true" checked`)
	assert.Contains(t, body, "✅ Model trained for diesel with 10 samples")
}

func TestAction_UnknownEndpoint(t *testing.T) {
	pe := newPageEnv(t, serveJSON(`{}`))
	rec := httptest.NewRecorder()
	pe.e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/actions/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFormMemory_SharedFuelType(t *testing.T) {
	m := newFormMemory(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-05-01", m.snapshot().Date)

	m.remember(&models.SearchForm{FuelType: "gasohol_95", Price: "40", Limit: 3}, models.UiState{Phase: models.PhaseSuccess})
	v := m.snapshot()
	assert.Equal(t, "gasohol_95", v.FuelType)
	assert.Equal(t, "40", v.Price)
	assert.Equal(t, "3", v.Limit)
}
