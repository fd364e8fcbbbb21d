package http

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"pricedash/internal/charts"
	apierrors "pricedash/internal/errors"
	pdmiddleware "pricedash/internal/middleware"
	"pricedash/internal/services"
	"pricedash/pkg/contracts/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageFuncs = template.FuncMap{
	"iso": func(t time.Time) string { return t.Format(domain.DateFormat) },
	"spec": func(s charts.Spec) (template.JS, error) {
		b, err := json.Marshal(s)
		return template.JS(b), err
	},
}

// ParsePages parses the embedded page templates.
func ParsePages() (*template.Template, error) {
	return template.New("pages").Funcs(pageFuncs).ParseFS(templateFS, "templates/*.html")
}

type dashboardPage struct {
	View     *services.DashboardView
	HasLogo  bool
	ChartCDN string
}

type errorPage struct {
	Title     string
	Message   string
	RequestID string
}

// DashboardHandler serves the HTML dashboard and its assets.
type DashboardHandler struct {
	service      DashboardServiceInterface
	validator    *pdmiddleware.QueryValidator
	pages        *template.Template
	logoPath     string
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a dashboard handler. logoPath may be empty.
func NewDashboardHandler(service DashboardServiceInterface, logoPath string, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) (*DashboardHandler, error) {
	pages, err := ParsePages()
	if err != nil {
		return nil, err
	}
	return &DashboardHandler{
		service:      service,
		validator:    pdmiddleware.NewQueryValidator(logger),
		pages:        pages,
		logoPath:     logoPath,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}, nil
}

// Redirect sends the root URL to the dashboard.
func (h *DashboardHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// Dashboard handles GET /dashboard?start=&end=. Any load failure replaces the
// whole page with an error page.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	q, err := h.validator.ParseRange(r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	start, end := q.Bounds()
	view, err := h.service.View(r.Context(), start, end)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "dashboard", dashboardPage{
		View:     view,
		HasLogo:  h.hasLogo(),
		ChartCDN: pdmiddleware.ChartCDN,
	})
}

// Logo handles GET /assets/logo.
func (h *DashboardHandler) Logo(w http.ResponseWriter, r *http.Request) {
	if !h.hasLogo() {
		h.errorHandler.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.ServeFile(w, r, h.logoPath)
}

func (h *DashboardHandler) hasLogo() bool {
	if h.logoPath == "" {
		return false
	}
	info, err := os.Stat(h.logoPath)
	return err == nil && !info.IsDir()
}

func (h *DashboardHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	problem := h.errorHandler.ErrorToProblem(err, r)
	reqID := middleware.GetReqID(r.Context())

	h.logger.Log(r.Context(), levelFor(problem.Status), "dashboard render failed",
		slog.String("error", err.Error()),
		slog.Int("status", problem.Status),
		slog.String("request_id", reqID),
	)

	page := errorPage{Title: problem.Title, Message: problem.Detail, RequestID: reqID}
	var apiErr *apierrors.APIError
	switch {
	case problem.Type == apierrors.TypeDataNotFound:
		page.Message = "Données introuvables."
	case errors.As(err, &apiErr) && apiErr.Details != nil:
		if ve, ok := apiErr.Details.(apierrors.ValidationErrors); ok && len(ve.Errors) > 0 {
			page.Message = ve.Errors[0].Message
		}
	}
	h.render(w, r, problem.Status, "error", page)
}

func (h *DashboardHandler) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := h.pages.ExecuteTemplate(&buf, name, data); err != nil {
		h.logger.ErrorContext(r.Context(), "template execution failed",
			slog.String("template", name),
			slog.String("error", err.Error()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func levelFor(status int) slog.Level {
	if status >= http.StatusInternalServerError {
		return slog.LevelError
	}
	return slog.LevelWarn
}
