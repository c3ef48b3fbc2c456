package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FuelDesk/internal/domain/models"
)

func TestStateStore_StartsIdle(t *testing.T) {
	s := NewStateStore(false)
	assert.Equal(t, models.IdleState(), s.Snapshot())
}

func TestStateStore_BeginDiscardsPreviousOutcome(t *testing.T) {
	s := NewStateStore(false)
	loading := s.Begin(models.EndpointHealth, "a")
	_, applied := s.Resolve(models.DispatchEvent{
		Kind:       models.EventSucceeded,
		Generation: loading.Generation,
		DispatchID: "a",
		Endpoint:   models.EndpointHealth,
		Message:    "✅ API is healthy",
		Result:     map[string]any{"status": "ok"},
		StatusCode: 200,
	})
	require.True(t, applied)

	next := s.Begin(models.EndpointLatestPrices, "b")
	assert.Equal(t, models.PhaseLoading, next.Phase)
	assert.Empty(t, next.Message)
	assert.Nil(t, next.Result)
	assert.Nil(t, next.Raw)
	assert.Empty(t, next.ErrorText)
	assert.Zero(t, next.StatusCode)
	assert.Equal(t, "b", next.DispatchID)
	assert.EqualValues(t, 2, next.Generation)
}

func TestStateStore_LastResolvedWinsByDefault(t *testing.T) {
	s := NewStateStore(false)
	a := s.Begin(models.EndpointPredict, "a")
	b := s.Begin(models.EndpointPredict, "b")

	_, ok := s.Resolve(models.DispatchEvent{Kind: models.EventSucceeded, Generation: b.Generation, DispatchID: "b", Message: "b"})
	require.True(t, ok)
	_, ok = s.Resolve(models.DispatchEvent{Kind: models.EventFailed, Generation: a.Generation, DispatchID: "a", Err: models.NewHTTPError(500, "a failed")})
	require.True(t, ok)

	final := s.Snapshot()
	assert.Equal(t, models.PhaseFailed, final.Phase)
	assert.Equal(t, "a failed", final.ErrorText)
	assert.Equal(t, 500, final.StatusCode)
}

func TestStateStore_DropStale(t *testing.T) {
	s := NewStateStore(true)
	a := s.Begin(models.EndpointPredict, "a")
	b := s.Begin(models.EndpointPredict, "b")

	_, ok := s.Resolve(models.DispatchEvent{Kind: models.EventSucceeded, Generation: b.Generation, DispatchID: "b", Message: "b"})
	require.True(t, ok)
	outcome, ok := s.Resolve(models.DispatchEvent{Kind: models.EventSucceeded, Generation: a.Generation, DispatchID: "a", Message: "a"})
	assert.False(t, ok)
	assert.Equal(t, "a", outcome.Message)
	assert.Equal(t, "b", s.Snapshot().Message)
}

func TestStateStore_RejectMakesInFlightStale(t *testing.T) {
	s := NewStateStore(true)
	a := s.Begin(models.EndpointTrain, "a")

	rejected := s.Reject(models.EndpointAddPrice, "r", models.NewValidationError("Please select a date"))
	assert.Equal(t, models.PhaseFailed, rejected.Phase)
	assert.Equal(t, models.ErrorKindValidation, rejected.ErrorKind)
	assert.Equal(t, "Please select a date", rejected.ErrorText)
	assert.Zero(t, rejected.Duration())

	_, ok := s.Resolve(models.DispatchEvent{Kind: models.EventSucceeded, Generation: a.Generation, DispatchID: "a"})
	assert.False(t, ok)
	assert.Equal(t, "r", s.Snapshot().DispatchID)
}

func TestStateStore_FailedWithoutDetailUsesFallback(t *testing.T) {
	s := NewStateStore(false)
	a := s.Begin(models.EndpointHealth, "a")
	got, _ := s.Resolve(models.DispatchEvent{Kind: models.EventFailed, Generation: a.Generation, Err: models.NewHTTPError(502, "")})
	assert.Equal(t, models.FallbackErrorMessage, got.ErrorText)
	assert.Equal(t, 502, got.StatusCode)
}

func TestStateStore_ObserversSeeEveryTransition(t *testing.T) {
	s := NewStateStore(false)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	var phases []models.Phase
	s.Subscribe(func(prev, next models.UiState) {
		phases = append(phases, next.Phase)
	})

	a := s.Begin(models.EndpointHealth, "a")
	got, _ := s.Resolve(models.DispatchEvent{Kind: models.EventSucceeded, Generation: a.Generation, StartedAt: a.StartedAt})
	s.Reject(models.EndpointAddPrice, "r", models.NewValidationError("x"))

	assert.Equal(t, []models.Phase{models.PhaseLoading, models.PhaseSuccess, models.PhaseFailed}, phases)
	assert.Equal(t, time.Second, got.Duration())
}
