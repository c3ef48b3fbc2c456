package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"

	"FuelDesk/internal/domain/models"
	drepo "FuelDesk/internal/domain/repository"
	"FuelDesk/internal/services/render"
	"FuelDesk/pkg/logger"
)

// Dispatcher is the only caller of the forecasting service. Every invocation
// makes at most one outbound request and always ends in Success or Failed.
type Dispatcher struct {
	gateway drepo.ForecastGateway
	store   *StateStore
	metrics drepo.Metrics
	log     *logger.Logger
	newID   func() string
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher writing into store.
func NewDispatcher(gateway drepo.ForecastGateway, store *StateStore, metrics drepo.Metrics, log *logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.Nop()
	}
	return &Dispatcher{
		gateway: gateway,
		store:   store,
		metrics: metrics,
		log:     log,
		newID:   uuid.NewString,
	}
}

type call struct {
	spec     models.RequestSpec
	endpoint models.Endpoint
	known    bool
	loading  models.UiState
}

// Invoke performs spec and returns the state it resolved to.
func (d *Dispatcher) Invoke(ctx context.Context, spec models.RequestSpec) models.UiState {
	c := d.begin(spec)
	return d.run(ctx, c)
}

// InvokeAsync moves to Loading and returns that state; the call completes in
// the background and is never cancelled by ctx.
func (d *Dispatcher) InvokeAsync(ctx context.Context, spec models.RequestSpec) models.UiState {
	c := d.begin(spec)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.run(context.WithoutCancel(ctx), c)
	}()
	return c.loading
}

// Wait blocks until every background dispatch has resolved.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) begin(spec models.RequestSpec) *call {
	if spec.Method == "" {
		spec.Method = models.MethodGet
	}
	ep, ok := models.LookupEndpoint(spec.Endpoint)
	return &call{
		spec:     spec,
		endpoint: ep,
		known:    ok,
		loading:  d.store.Begin(spec.Endpoint, d.newID()),
	}
}

func (d *Dispatcher) run(ctx context.Context, c *call) (state models.UiState) {
	d.metrics.InFlight(1)
	defer d.metrics.InFlight(-1)

	defer func() {
		if r := recover(); r != nil {
			d.log.Error("dispatch panicked",
				logger.String("dispatch_id", c.loading.DispatchID),
				logger.Any("panic", r),
			)
			state = d.fail(c, &models.DispatchError{
				Kind:    models.ErrorKindInternal,
				Message: fmt.Sprintf("internal error: %v", r),
			})
		}
	}()

	if !c.known {
		return d.fail(c, &models.DispatchError{
			Kind:    models.ErrorKindUnknownEndpoint,
			Message: fmt.Sprintf("unknown endpoint: %q", c.spec.Endpoint),
		})
	}

	env, err := d.gateway.Send(ctx, c.endpoint, c.spec)
	if err != nil {
		return d.fail(c, models.NewTransportError(err))
	}

	if env.StatusCode < 200 || env.StatusCode > 299 {
		return d.fail(c, models.NewHTTPError(env.StatusCode, ErrorDetail(env.Body)))
	}

	result, err := decodeJSON(env.Body)
	if err != nil {
		return d.fail(c, models.NewDecodeError(env.StatusCode, err))
	}

	return d.succeed(c, env, result)
}

func (d *Dispatcher) succeed(c *call, env *models.ResponseEnvelope, result any) models.UiState {
	state, applied := d.store.Resolve(models.DispatchEvent{
		Kind:       models.EventSucceeded,
		Generation: c.loading.Generation,
		DispatchID: c.loading.DispatchID,
		Endpoint:   c.spec.Endpoint,
		Message:    SuccessMessage(c.spec, result),
		Result:     result,
		Raw:        json.RawMessage(env.Body),
		StatusCode: env.StatusCode,
		StartedAt:  c.loading.StartedAt,
	})

	shape := render.Classify(result)
	d.metrics.RecordDispatch(string(c.spec.Endpoint), string(state.Phase), state.Duration().Seconds())
	d.metrics.RecordResultShape(string(shape))
	d.log.Info("dispatch succeeded",
		logger.String("dispatch_id", state.DispatchID),
		logger.String("endpoint", string(state.Endpoint)),
		logger.Int("status", state.StatusCode),
		logger.String("shape", string(shape)),
		logger.Duration("duration", state.Duration()),
		logger.Bool("applied", applied),
	)
	return state
}

func (d *Dispatcher) fail(c *call, derr *models.DispatchError) models.UiState {
	state, applied := d.store.Resolve(models.DispatchEvent{
		Kind:       models.EventFailed,
		Generation: c.loading.Generation,
		DispatchID: c.loading.DispatchID,
		Endpoint:   c.spec.Endpoint,
		Err:        derr,
		StartedAt:  c.loading.StartedAt,
	})

	d.metrics.RecordDispatch(string(c.spec.Endpoint), string(state.Phase), state.Duration().Seconds())
	d.metrics.RecordFailure(string(c.spec.Endpoint), string(derr.Kind))
	d.log.Warn("dispatch failed",
		logger.String("dispatch_id", state.DispatchID),
		logger.String("endpoint", string(state.Endpoint)),
		logger.String("kind", string(derr.Kind)),
		logger.Int("status", derr.Status),
		logger.Error(derr),
		logger.Duration("duration", state.Duration()),
		logger.Bool("applied", applied),
	)
	return state
}

// decodeJSON parses a success body keeping numbers as written.
func decodeJSON(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty body")
		}
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}
	return v, nil
}

// ErrorDetail extracts a readable message from a failed response body:
// "detail" first, then "message", then FallbackErrorMessage.
func ErrorDetail(body []byte) string {
	var payload map[string]any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil || payload == nil {
		return models.FallbackErrorMessage
	}

	if s := detailText(payload["detail"]); s != "" {
		return s
	}
	if s := detailText(payload["message"]); s != "" {
		return s
	}
	return models.FallbackErrorMessage
}

func detailText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []any:
		// Request validation errors arrive as a list of {loc, msg, type}.
		msgs := make([]string, 0, len(t))
		for _, item := range t {
			if s := detailText(item); s != "" {
				msgs = append(msgs, s)
			}
		}
		return strings.Join(msgs, "; ")
	case map[string]any:
		if msg, ok := t["msg"].(string); ok && msg != "" {
			return msg
		}
		if msg, ok := t["message"].(string); ok && msg != "" {
			return msg
		}
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	default:
		if !truthy(t) {
			return ""
		}
		return render.Plain(t)
	}
}
