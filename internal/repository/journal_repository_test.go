package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FuelDesk/internal/domain/models"
)

func TestJournalSchema(t *testing.T) {
	stmts := JournalSchema("dispatch_journal")
	require.Len(t, stmts, 1)
	assert.True(t, strings.HasPrefix(stmts[0], "CREATE TABLE IF NOT EXISTS dispatch_journal ("))
	for _, col := range strings.Split(journalColumns, ", ") {
		assert.Contains(t, stmts[0], "\n    "+col+" ", col)
	}
}

func TestJournalRow_MatchesColumns(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	row := journalRow(&models.JournalEntry{
		DispatchID: "d-1",
		Generation: 4,
		Endpoint:   models.EndpointPredict,
		Phase:      models.PhaseFailed,
		ErrorKind:  models.ErrorKindHTTP,
		ErrorText:  "model not found",
		StatusCode: 404,
		DurationMs: 12,
		StartedAt:  at,
		ResolvedAt: at.Add(12 * time.Millisecond),
	})

	require.Len(t, row, len(strings.Split(journalColumns, ", ")))
	assert.Equal(t, "d-1", row[0])
	assert.Equal(t, "predict", row[2])
	assert.Equal(t, "failed", row[3])
	assert.Equal(t, "", row[4])
	assert.Equal(t, "model not found", row[7])
	assert.Equal(t, uint16(404), row[8])
}

func TestJournalMessage(t *testing.T) {
	e := &models.JournalEntry{DispatchID: "d-9", Endpoint: models.EndpointSearch, Phase: models.PhaseSuccess}
	m := journalMessage("fueldesk.dispatches", e)

	assert.Equal(t, "fueldesk.dispatches", m.Topic)
	assert.Equal(t, "d-9", m.Key)
	assert.Same(t, e, m.Value)
	assert.Equal(t, map[string]string{"endpoint": "search", "phase": "success"}, m.Headers)
}
