package http

import (
	"context"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "pricedash/internal/errors"
	pdmiddleware "pricedash/internal/middleware"
	"pricedash/internal/services"
	api "pricedash/pkg/contracts/api/v1"
)

// DataHandler handles data-related HTTP requests with RFC 7807 compliance
type DataHandler struct {
	service      DashboardServiceInterface
	validator    *pdmiddleware.QueryValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDataHandler creates a new data handler with RFC 7807 error handling
func NewDataHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DataHandler {
	return &DataHandler{
		service:      service,
		validator:    pdmiddleware.NewQueryValidator(logger),
		logger:       logger.With(slog.String("component", "data_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the data routes with proper Chi patterns
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/series", h.GetSeries)
		r.Get("/summary", h.GetSummary)
	})

	r.Get("/export.csv", h.ExportCSV)
	r.Get("/export.xlsx", h.ExportXLSX)

	return r
}

// GetSeries handles GET /api/data/series
func (h *DataHandler) GetSeries(w http.ResponseWriter, r *http.Request) {
	series, err := h.service.Series(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, api.NewResponse(series, series.Len()))
}

// GetSummary handles GET /api/data/summary?start=&end=
func (h *DataHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	start, end, ok := h.bounds(w, r)
	if !ok {
		return
	}

	period, err := h.service.Period(r.Context(), start, end)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, api.NewResponse(period, period.Summary.Count))
}

// ExportCSV handles GET /api/data/export.csv?start=&end=
func (h *DataHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, h.service.ExportCSV)
}

// ExportXLSX handles GET /api/data/export.xlsx?start=&end=
func (h *DataHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, h.service.ExportXLSX)
}

type exportFunc func(ctx context.Context, start, end *time.Time) (*services.Export, error)

func (h *DataHandler) export(w http.ResponseWriter, r *http.Request, fn exportFunc) {
	start, end, ok := h.bounds(w, r)
	if !ok {
		return
	}

	out, err := fn(r.Context(), start, end)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "export served",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("filename", out.Filename),
		slog.Int("bytes", len(out.Data)),
	)

	w.Header().Set("Content-Type", out.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": out.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(out.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out.Data)
}

// bounds validates the start/end query and renders the error itself.
func (h *DataHandler) bounds(w http.ResponseWriter, r *http.Request) (start, end *time.Time, ok bool) {
	q, err := h.validator.ParseRange(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return nil, nil, false
	}
	start, end = q.Bounds()
	return start, end, true
}
