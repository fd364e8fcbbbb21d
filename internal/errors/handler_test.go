package errors

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricedash/internal/dataprocessing"
	"pricedash/pkg/contracts/domain"
)

func newTestHandler(t *testing.T) (*ErrorHandler, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewErrorHandler(logger, false), &buf
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantCode   string
	}{
		{
			name:       "missing price file",
			err:        fmt.Errorf("load series: %w", &dataprocessing.LoadError{Path: "a.txt", Kind: dataprocessing.ErrNotFound}),
			wantStatus: http.StatusNotFound,
			wantType:   TypeDataNotFound,
			wantCode:   CodeDataNotFound,
		},
		{
			name:       "unreadable price file",
			err:        fmt.Errorf("load series: %w", dataprocessing.ErrLoadFailed),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeDataCorrupted,
			wantCode:   CodeDataLoadFailed,
		},
		{
			name:       "inverted range",
			err:        fmt.Errorf("%w: 2026-02-01 is after 2026-01-01", domain.ErrInvalidRange),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeInvalidRange,
			wantCode:   CodeInvalidRange,
		},
		{
			name:       "validation api error",
			err:        ErrValidation("start", "must be a date"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
			wantCode:   CodeValidationFailed,
		},
		{
			name:       "wrapped api error keeps its cause",
			err:        Wrap(http.StatusServiceUnavailable, CodeUnavailable, "not ready", dataprocessing.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantType:   TypeDataNotFound,
			wantCode:   CodeDataNotFound,
		},
		{
			name:       "timeout",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "unknown",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, logs := newTestHandler(t)
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/data/summary", nil)

			h.HandleError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeProblem(t, rec)
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, float64(tt.wantStatus), body["status"])
			assert.Equal(t, "/api/data/summary", body["instance"])
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, body["error_code"])
			}
			assert.Contains(t, logs.String(), "request failed")
		})
	}
}

func TestErrorHandler_RequestIDExtension(t *testing.T) {
	h, _ := newTestHandler(t)
	handler := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.HandleError(w, r, domain.ErrInvalidRange)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/data/summary", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	body := decodeProblem(t, rec)
	assert.Equal(t, "req-42", body["request_id"])
	assert.NotContains(t, body, "trace_id")
}

func TestErrorHandler_NilError(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.Equal(t, 0, rec.Body.Len())
}

func TestErrorHandler_Recoverer(t *testing.T) {
	h, logs := newTestHandler(t)
	handler := h.Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, TypeInternal, decodeProblem(t, rec)["type"])
	assert.Contains(t, logs.String(), "panic recovered")
	assert.NotContains(t, rec.Body.String(), "kaboom")
}

func TestErrorHandler_NotFoundAndMethod(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.MethodNotAllowed(rec, httptest.NewRequest(http.MethodDelete, "/dashboard", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, decodeProblem(t, rec)["detail"], "DELETE")
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	pd := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Bad", "", "").
		WithExtension("error_code", CodeValidationFailed).
		WithExtension("status", 999)

	out, err := json.Marshal(pd)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(out, &body))
	assert.Equal(t, float64(400), body["status"], "standard members win over extensions")
	assert.NotContains(t, body, "detail")
	assert.Equal(t, CodeValidationFailed, body["error_code"])
}

func TestAPIError(t *testing.T) {
	cause := errors.New("disk gone")
	err := Wrap(http.StatusInternalServerError, CodeInternal, "export failed", cause)

	assert.Equal(t, "export failed: disk gone", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Resource not found", ErrNotFound.Error())
	assert.Equal(t, "series not found", NotFoundError("series").Message)
}
