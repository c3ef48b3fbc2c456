package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FuelDesk/internal/domain/models"
	"FuelDesk/pkg/logger"
)

type memJournal struct {
	mu      sync.Mutex
	entries []*models.JournalEntry
	err     error
	closed  bool
}

func (m *memJournal) Publish(_ context.Context, e *models.JournalEntry) error {
	return m.Store(context.Background(), e)
}

func (m *memJournal) Store(_ context.Context, e *models.JournalEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, e)
	return nil
}

func (m *memJournal) Init(context.Context) error   { return nil }
func (m *memJournal) Health(context.Context) error { return nil }

func (m *memJournal) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *memJournal) snapshot() []*models.JournalEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*models.JournalEntry(nil), m.entries...)
}

func TestJournalRecorder_RecordsTerminalTransitions(t *testing.T) {
	j := &memJournal{}
	r := NewJournalRecorder(j, nil, testMetrics(), logger.Nop(), JournalKafka, 8)
	r.Start(context.Background())

	store := NewStateStore(false)
	store.Subscribe(r.Observe)

	a := store.Begin(models.EndpointPredict, "a")
	store.Resolve(models.DispatchEvent{
		Kind:       models.EventSucceeded,
		Generation: a.Generation,
		DispatchID: "a",
		Endpoint:   models.EndpointPredict,
		Message:    "✅ Prediction generated for diesel",
		Result:     map[string]any{"predictions": []any{}},
		StatusCode: 200,
		StartedAt:  a.StartedAt,
	})
	store.Reject(models.EndpointAddPrice, "r", models.NewValidationError("Please select a date"))

	r.Close()

	entries := j.snapshot()
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].DispatchID)
	assert.Equal(t, models.PhaseSuccess, entries[0].Phase)
	assert.Equal(t, models.ShapeForecastSeries, entries[0].Shape)
	assert.Equal(t, 200, entries[0].StatusCode)
	assert.Equal(t, "r", entries[1].DispatchID)
	assert.Equal(t, models.ErrorKindValidation, entries[1].ErrorKind)
	assert.Empty(t, entries[1].Shape)
	assert.True(t, j.closed)
}

func TestJournalRecorder_ClickHouseBackend(t *testing.T) {
	j := &memJournal{}
	r := NewJournalRecorder(nil, j, testMetrics(), logger.Nop(), JournalClickHouse, 1)

	err := r.Process(context.Background(), &models.JournalEntry{DispatchID: "x"})
	require.NoError(t, err)
	assert.Len(t, j.snapshot(), 1)
}

func TestJournalRecorder_ProcessErrors(t *testing.T) {
	j := &memJournal{err: errors.New("broker down")}
	r := NewJournalRecorder(j, nil, testMetrics(), logger.Nop(), JournalKafka, 1)

	err := r.Process(context.Background(), &models.JournalEntry{DispatchID: "x"})
	assert.ErrorContains(t, err, "broker down")

	assert.Error(t, r.Process(context.Background(), nil))

	unknown := NewJournalRecorder(nil, nil, testMetrics(), logger.Nop(), "s3", 1)
	assert.ErrorContains(t, unknown.Process(context.Background(), &models.JournalEntry{}), "unknown backend")
}

func TestJournalRecorder_DisabledIgnoresEverything(t *testing.T) {
	r := NewJournalRecorder(nil, nil, testMetrics(), logger.Nop(), JournalNone, 1)
	assert.False(t, r.Enabled())
	r.Start(context.Background())

	r.Observe(models.UiState{}, models.UiState{Phase: models.PhaseSuccess})

	done := make(chan struct{})
	go func() {
		r.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close blocked")
	}
}

func TestJournalRecorder_FullQueueDrops(t *testing.T) {
	j := &memJournal{}
	r := NewJournalRecorder(j, nil, testMetrics(), logger.Nop(), JournalKafka, 1)

	// Not started: the queue only holds one entry.
	r.Observe(models.UiState{}, models.UiState{Phase: models.PhaseSuccess, DispatchID: "1"})
	r.Observe(models.UiState{}, models.UiState{Phase: models.PhaseFailed, DispatchID: "2"})
	r.Observe(models.UiState{}, models.UiState{Phase: models.PhaseLoading, DispatchID: "3"})

	r.Start(context.Background())
	r.Close()

	entries := j.snapshot()
	require.Len(t, entries, 1)
	assert.Equal(t, "1", entries[0].DispatchID)
}
