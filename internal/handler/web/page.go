package web

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"FuelDesk/internal/domain/models"
	"FuelDesk/internal/services/render"
	"FuelDesk/internal/usecase"
	xhttp "FuelDesk/pkg/http"
	xlogger "FuelDesk/pkg/logger"
	"FuelDesk/pkg/ratelimit"
)

// PageData is everything the console page template needs.
type PageData struct {
	Endpoints []models.Endpoint
	FuelTypes []models.FuelType
	Values    FormValues
	State     models.UiState
	View      *render.ResultView
}

// PageHandler serves the server-rendered console.
type PageHandler struct {
	logger  *xlogger.Logger
	console *usecase.Console
	limiter ratelimit.Limiter
	values  *formMemory
}

func NewPageHandler(logger *xlogger.Logger, console *usecase.Console, limiter ratelimit.Limiter) *PageHandler {
	return &PageHandler{
		logger:  logger,
		console: console,
		limiter: limiter,
		values:  newFormMemory(time.Now()),
	}
}

func (h *PageHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Index)
	e.POST("/actions/:endpoint", h.Action, xhttp.RateLimit(h.limiter, h.logger))
}

func (h *PageHandler) Index(c echo.Context) error {
	state := h.console.State()
	return c.Render(http.StatusOK, "index.html", PageData{
		Endpoints: models.Endpoints(),
		FuelTypes: models.FuelTypes,
		Values:    h.values.snapshot(),
		State:     state,
		View:      render.Build(state),
	})
}

// Action submits one form and sends the browser back to the page.
func (h *PageHandler) Action(c echo.Context) error {
	id := models.EndpointID(c.Param("endpoint"))
	form, ok := models.NewForm(id)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown endpoint")
	}
	if err := c.Bind(form); err != nil {
		h.logger.Debug("bind page form", xlogger.String("endpoint", string(id)), xlogger.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "malformed form data")
	}

	state := h.console.Submit(c.Request().Context(), form)
	h.values.remember(form, state)
	return c.Redirect(http.StatusSeeOther, "/")
}
