package models

import "time"

// JournalEntry is the audit record of one resolved dispatch.
type JournalEntry struct {
	DispatchID string      `json:"dispatch_id"`
	Generation uint64      `json:"generation"`
	Endpoint   EndpointID  `json:"endpoint"`
	Phase      Phase       `json:"phase"`
	Shape      ResultShape `json:"shape,omitempty"`
	Message    string      `json:"message,omitempty"`
	ErrorKind  ErrorKind   `json:"error_kind,omitempty"`
	ErrorText  string      `json:"error_text,omitempty"`
	StatusCode int         `json:"status_code,omitempty"`
	DurationMs int64       `json:"duration_ms"`
	StartedAt  time.Time   `json:"started_at"`
	ResolvedAt time.Time   `json:"resolved_at"`
}
