package models

import (
	"encoding/json"
	"time"
)

// Phase is the single status the console is in. Exactly one holds at a time.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseSuccess Phase = "success"
	PhaseFailed  Phase = "failed"
)

// Terminal reports whether the phase ends a dispatch.
func (p Phase) Terminal() bool {
	return p == PhaseSuccess || p == PhaseFailed
}

// UiState is the read-only view of the latest dispatch.
// Result and Raw are set only in PhaseSuccess; ErrorText only in PhaseFailed.
type UiState struct {
	Phase      Phase           `json:"phase"`
	Message    string          `json:"message,omitempty"`
	Result     any             `json:"result,omitempty"`
	Raw        json.RawMessage `json:"-"`
	ErrorText  string          `json:"error_text,omitempty"`
	ErrorKind  ErrorKind       `json:"error_kind,omitempty"`
	StatusCode int             `json:"status_code,omitempty"`
	Endpoint   EndpointID      `json:"endpoint,omitempty"`
	DispatchID string          `json:"dispatch_id,omitempty"`
	Generation uint64          `json:"generation"`
	StartedAt  time.Time       `json:"started_at,omitempty"`
	ResolvedAt time.Time       `json:"resolved_at,omitempty"`
}

// IdleState is the state before anything was dispatched.
func IdleState() UiState {
	return UiState{Phase: PhaseIdle}
}

// Duration is the time between Loading and resolution, zero if unresolved.
func (s UiState) Duration() time.Duration {
	if s.StartedAt.IsZero() || s.ResolvedAt.IsZero() {
		return 0
	}
	return s.ResolvedAt.Sub(s.StartedAt)
}

// EventKind enumerates the transitions the state container accepts.
type EventKind int

const (
	// EventStarted begins a dispatch and discards the previous outcome.
	EventStarted EventKind = iota
	// EventSucceeded resolves a dispatch with a parsed result.
	EventSucceeded
	// EventFailed resolves a dispatch with an error.
	EventFailed
	// EventRejected fails a submission that never reached the network.
	EventRejected
)

// DispatchEvent is the only way UiState changes.
type DispatchEvent struct {
	Kind       EventKind
	Generation uint64
	DispatchID string
	Endpoint   EndpointID
	Message    string
	Result     any
	Raw        json.RawMessage
	StatusCode int
	Err        *DispatchError
	StartedAt  time.Time
	At         time.Time
}

// ResultShape is how a successful result should be displayed.
type ResultShape string

const (
	ShapeForecastSeries      ResultShape = "forecast_series"
	ShapeLatestPriceSnapshot ResultShape = "latest_price_snapshot"
	ShapeSimilaritySearch    ResultShape = "similarity_search"
	ShapeGeneric             ResultShape = "generic"
)
