package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"FuelDesk/internal/domain/models"
	drepo "FuelDesk/internal/domain/repository"
	xhttp "FuelDesk/pkg/http"
	"FuelDesk/pkg/logger"
)

var registerRules sync.Once

// Console runs form submissions: presence checks first, then one dispatch.
type Console struct {
	dispatcher *Dispatcher
	store      *StateStore
	metrics    drepo.Metrics
	log        *logger.Logger
}

// NewConsole creates a Console.
func NewConsole(dispatcher *Dispatcher, store *StateStore, metrics drepo.Metrics, log *logger.Logger) *Console {
	registerRules.Do(func() {
		xhttp.RegisterStructValidation(priceEntryRule, models.PriceEntryForm{})
	})
	if log == nil {
		log = logger.Nop()
	}
	return &Console{
		dispatcher: dispatcher,
		store:      store,
		metrics:    metrics,
		log:        log,
	}
}

// priceEntryRule requires at least one fuel price and then a date, reported
// in that order.
func priceEntryRule(sl validator.StructLevel) {
	f := sl.Current().Interface().(models.PriceEntryForm)
	if !f.HasAnyPrice() {
		sl.ReportError(f.Diesel, "diesel", "Diesel", "oneprice", "")
	}
	if strings.TrimSpace(f.Date) == "" {
		sl.ReportError(f.Date, "date", "Date", "required", "")
	}
}

// State returns the current UiState.
func (c *Console) State() models.UiState {
	return c.store.Snapshot()
}

// Subscribe registers o on the underlying store.
func (c *Console) Subscribe(o Observer) {
	c.store.Subscribe(o)
}

// Submit validates form and, if it passes, dispatches it and waits for the result.
func (c *Console) Submit(ctx context.Context, form models.Form) models.UiState {
	spec, rejected, ok := c.prepare(ctx, form)
	if !ok {
		return rejected
	}
	return c.dispatcher.Invoke(ctx, spec)
}

// SubmitAsync is Submit without waiting: it returns the Loading state, or the
// Failed state when the form was rejected.
func (c *Console) SubmitAsync(ctx context.Context, form models.Form) models.UiState {
	spec, rejected, ok := c.prepare(ctx, form)
	if !ok {
		return rejected
	}
	return c.dispatcher.InvokeAsync(ctx, spec)
}

// Wait blocks until background submissions have resolved.
func (c *Console) Wait() {
	c.dispatcher.Wait()
}

func (c *Console) prepare(ctx context.Context, form models.Form) (models.RequestSpec, models.UiState, bool) {
	if errs := xhttp.ValidateStruct(ctx, form); len(errs) > 0 {
		return models.RequestSpec{}, c.reject(form.Endpoint(), models.NewValidationError(errs[0].Message)), false
	}

	spec, err := form.Spec()
	if err != nil {
		var derr *models.DispatchError
		if !errors.As(err, &derr) {
			derr = models.NewValidationError(err.Error())
		}
		return models.RequestSpec{}, c.reject(form.Endpoint(), derr), false
	}
	return spec, models.UiState{}, true
}

func (c *Console) reject(endpoint models.EndpointID, derr *models.DispatchError) models.UiState {
	c.metrics.RecordRejection(string(endpoint))
	c.log.Info("submission rejected",
		logger.String("endpoint", string(endpoint)),
		logger.String("reason", derr.Message),
	)
	return c.store.Reject(endpoint, uuid.NewString(), derr)
}
