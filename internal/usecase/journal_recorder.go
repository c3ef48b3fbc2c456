package usecase

import (
	"context"
	"fmt"
	"sync"

	"FuelDesk/internal/domain/models"
	drepo "FuelDesk/internal/domain/repository"
	"FuelDesk/internal/services/render"
	"FuelDesk/pkg/logger"
)

// Journal backends.
const (
	JournalNone       = "none"
	JournalKafka      = "kafka"
	JournalClickHouse = "clickhouse"
)

// JournalRecorder writes every resolved dispatch to the configured backend.
// Entries are queued by Observe and written by a single worker so that the
// state store never waits on I/O. A full queue drops the entry.
type JournalRecorder struct {
	pub     drepo.JournalPublisher
	store   drepo.JournalStorage
	metrics drepo.Metrics
	log     *logger.Logger
	backend string

	mu      sync.Mutex
	started bool
	closed  bool
	queue   chan *models.JournalEntry
	done    chan struct{}
}

// NewJournalRecorder creates a recorder. pub and store may be nil when the
// backend does not use them.
func NewJournalRecorder(
	pub drepo.JournalPublisher,
	store drepo.JournalStorage,
	metrics drepo.Metrics,
	log *logger.Logger,
	backend string,
	buffer int,
) *JournalRecorder {
	if buffer <= 0 {
		buffer = 1
	}
	if log == nil {
		log = logger.Nop()
	}
	return &JournalRecorder{
		pub:     pub,
		store:   store,
		metrics: metrics,
		log:     log,
		backend: backend,
		queue:   make(chan *models.JournalEntry, buffer),
		done:    make(chan struct{}),
	}
}

// Enabled reports whether entries are written anywhere.
func (r *JournalRecorder) Enabled() bool {
	return r.backend != "" && r.backend != JournalNone
}

// Observe is a StateStore observer. Only transitions into a terminal phase
// produce an entry.
func (r *JournalRecorder) Observe(_, next models.UiState) {
	if !r.Enabled() || !next.Phase.Terminal() {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}

	select {
	case r.queue <- NewJournalEntry(next):
	default:
		r.metrics.RecordJournal(r.backend, "dropped")
	}
}

// Start runs the writer until Close. It returns immediately when disabled.
func (r *JournalRecorder) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started || r.closed {
		return
	}
	r.started = true

	if !r.Enabled() {
		close(r.done)
		return
	}
	go func() {
		defer close(r.done)
		for e := range r.queue {
			if err := r.Process(ctx, e); err != nil {
				r.log.Error("journal write failed",
					logger.String("backend", r.backend),
					logger.String("dispatch_id", e.DispatchID),
					logger.Error(err),
				)
			}
		}
	}()
}

// Process writes a single entry to the configured backend.
func (r *JournalRecorder) Process(ctx context.Context, e *models.JournalEntry) error {
	if e == nil {
		return fmt.Errorf("journal entry is nil")
	}

	var err error
	switch r.backend {
	case JournalKafka:
		err = r.pub.Publish(ctx, e)
	case JournalClickHouse:
		err = r.store.Store(ctx, e)
	default:
		err = fmt.Errorf("unknown backend: %s", r.backend)
	}

	if err != nil {
		r.metrics.RecordJournal(r.backend, "error")
		return fmt.Errorf("journal %s: %w", e.DispatchID, err)
	}
	r.metrics.RecordJournal(r.backend, "ok")
	return nil
}

// Close stops accepting entries, drains the queue and closes the backends.
// Only the first call has an effect.
func (r *JournalRecorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.queue)
	started := r.started
	r.mu.Unlock()

	if started {
		<-r.done
	}

	if r.pub != nil {
		_ = r.pub.Close()
	}
	if r.store != nil {
		_ = r.store.Close()
	}
}

// NewJournalEntry builds the audit record of a terminal state.
func NewJournalEntry(s models.UiState) *models.JournalEntry {
	e := &models.JournalEntry{
		DispatchID: s.DispatchID,
		Generation: s.Generation,
		Endpoint:   s.Endpoint,
		Phase:      s.Phase,
		Message:    s.Message,
		ErrorKind:  s.ErrorKind,
		ErrorText:  s.ErrorText,
		StatusCode: s.StatusCode,
		DurationMs: s.Duration().Milliseconds(),
		StartedAt:  s.StartedAt,
		ResolvedAt: s.ResolvedAt,
	}
	if s.Phase == models.PhaseSuccess {
		e.Shape = render.Classify(s.Result)
	}
	return e
}
