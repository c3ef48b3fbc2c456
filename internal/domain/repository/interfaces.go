package repository

import (
	"context"

	"FuelDesk/internal/domain/models"
)

// ForecastGateway performs one raw call against the forecasting service.
// Any HTTP status is returned as an envelope; only transport failures are errors.
type ForecastGateway interface {
	Send(ctx context.Context, endpoint models.Endpoint, spec models.RequestSpec) (*models.ResponseEnvelope, error)
}

type JournalPublisher interface {
	Publish(ctx context.Context, e *models.JournalEntry) error
	Close() error
}

type JournalStorage interface {
	Init(ctx context.Context) error
	Store(ctx context.Context, e *models.JournalEntry) error
	Health(ctx context.Context) error
	Close() error
}

type Metrics interface {
	RecordDispatch(endpoint, phase string, seconds float64)
	RecordFailure(endpoint, kind string)
	RecordResultShape(shape string)
	RecordRejection(endpoint string)
	RecordJournal(backend, result string)
	InFlight(delta float64)
}
