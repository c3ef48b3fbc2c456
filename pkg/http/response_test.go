package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	applogger "FuelDesk/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newErrorEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(applogger.Nop())
	e.GET("/api/boom", func(c echo.Context) error { return errors.New("db down") })
	e.GET("/api/missing", func(c echo.Context) error {
		return NotFoundErrorf("unknown endpoint %q", "nope").WithParam("endpoint", "nope")
	})
	return e
}

func TestErrorHandlerJSON(t *testing.T) {
	e := newErrorEcho()

	cases := []struct {
		path   string
		status int
		code   string
	}{
		{"/api/missing", http.StatusNotFound, "ERR_NOT_FOUND"},
		{"/api/boom", http.StatusInternalServerError, "ERR_INTERNAL"},
		{"/api/unrouted", http.StatusNotFound, "ERR_NOT_FOUND"},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))

			assert.Equal(t, tc.status, rec.Code)
			var body struct {
				Status int         `json:"status"`
				Data   []*AppError `json:"data"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.status, body.Status)
			require.Len(t, body.Data, 1)
			assert.Equal(t, tc.code, body.Data[0].Code)
		})
	}
}

func TestErrorHandlerPlainForPages(t *testing.T) {
	rec := httptest.NewRecorder()
	newErrorEcho().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", rec.Body.String())
}

func TestAsAppErrorKeepsInternalDetailOutOfMessage(t *testing.T) {
	err := AsAppError(errors.New("password=hunter2"))
	assert.Equal(t, "Something went wrong", err.Message)
	assert.ErrorContains(t, err, "hunter2")
}
