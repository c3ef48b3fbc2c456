package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"FuelDesk/internal/domain/models"
	"FuelDesk/internal/services/render"
	"FuelDesk/internal/usecase"
	xhttp "FuelDesk/pkg/http"
	xlogger "FuelDesk/pkg/logger"
	"FuelDesk/pkg/ratelimit"
)

// StatePayload is the UiState together with its display model.
type StatePayload struct {
	State models.UiState     `json:"state"`
	View  *render.ResultView `json:"view,omitempty"`
}

// NewStatePayload builds the payload for s.
func NewStatePayload(s models.UiState) StatePayload {
	return StatePayload{State: s, View: render.Build(s)}
}

// ConsoleEchoHandler serves the JSON console API.
type ConsoleEchoHandler struct {
	logger  *xlogger.Logger
	console *usecase.Console
	limiter ratelimit.Limiter
	hub     *StateHub
}

func NewConsoleEchoHandler(logger *xlogger.Logger, console *usecase.Console, limiter ratelimit.Limiter, hub *StateHub) *ConsoleEchoHandler {
	return &ConsoleEchoHandler{logger: logger, console: console, limiter: limiter, hub: hub}
}

func (h *ConsoleEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Healthz)

	g := e.Group("/api")
	g.GET("/endpoints", h.Endpoints)
	g.GET("/state", h.State)
	g.POST("/actions/:endpoint", h.Submit, xhttp.RateLimit(h.limiter, h.logger))
	if h.hub != nil {
		g.GET("/state/stream", h.hub.Serve)
	}
}

func (h *ConsoleEchoHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *ConsoleEchoHandler) Endpoints(c echo.Context) error {
	eps := models.Endpoints()
	return xhttp.ListResponse(c, eps, int64(len(eps)))
}

func (h *ConsoleEchoHandler) State(c echo.Context) error {
	return xhttp.SuccessResponse(c, NewStatePayload(h.console.State()))
}

// Submit runs one console action. Presence-check failures are not HTTP errors:
// they come back as a Failed state like any other outcome.
func (h *ConsoleEchoHandler) Submit(c echo.Context) error {
	id := models.EndpointID(c.Param("endpoint"))
	form, ok := models.NewDefaultForm(id)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("unknown endpoint %q", id).WithParam("endpoint", id))
	}

	if err := c.Bind(form); err != nil {
		h.logger.Debug("bind console form", xlogger.String("endpoint", string(id)), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("malformed form data").WithError(err))
	}

	async, _ := strconv.ParseBool(c.QueryParam("async"))
	if async {
		state := h.console.SubmitAsync(c.Request().Context(), form)
		if state.Phase == models.PhaseLoading {
			return xhttp.AcceptedResponse(c, NewStatePayload(state))
		}
		return xhttp.SuccessResponse(c, NewStatePayload(state))
	}

	state := h.console.Submit(c.Request().Context(), form)
	return xhttp.SuccessResponse(c, NewStatePayload(state))
}
