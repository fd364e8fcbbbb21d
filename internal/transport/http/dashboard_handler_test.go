package http

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricedash/internal/charts"
	apierrors "pricedash/internal/errors"
	"pricedash/internal/services"
	"pricedash/pkg/contracts/domain"
)

func sampleView() *services.DashboardView {
	series := twoDaySeries()
	span, _ := series.Span()
	return &services.DashboardView{
		Title:       "Carrefour Analytics",
		PeriodLabel: "du 14/01/2026 au 15/01/2026",
		Range:       span,
		Span:        span,
		Cards: []services.KPICard{
			{Title: "Dernier Cours", Value: "9.00 €", Delta: "-18.18% (vs veille)"},
			{Title: "Volume Période", Value: "300", Delta: "Titres échangés", Positive: true},
		},
		PriceChart:  charts.PriceTrend(series),
		VolumeChart: charts.DailyVolume(series),
		Recent: []services.RecentRow{
			{Date: "15/01/2026", Close: "9.00€", Variation: "-2.00€", Volume: "200"},
		},
	}
}

func newDashboardRouter(t *testing.T, svc *MockDashboardService, logoPath string) http.Handler {
	t.Helper()
	logger := testLogger()
	h, err := NewDashboardHandler(svc, logoPath, logger, apierrors.NewErrorHandler(logger, false))
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Get("/", h.Redirect)
	r.Get("/dashboard", h.Dashboard)
	r.Get("/assets/logo", h.Logo)
	return r
}

func TestDashboardHandler_Dashboard(t *testing.T) {
	svc := new(MockDashboardService)
	svc.On("View", noBound, noBound).Return(sampleView(), nil)

	rec := serve(newDashboardRouter(t, svc, ""), "/dashboard")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "du 14/01/2026 au 15/01/2026")
	assert.Contains(t, body, "9.00 €")
	assert.Contains(t, body, "↘ -18.18% (vs veille)")
	assert.Contains(t, body, `class="kpi-delta-neg"`)
	assert.Contains(t, body, `value="2026-01-14"`)
	assert.Contains(t, body, `vegaEmbed("#price-chart", {"$schema"`)
	assert.Contains(t, body, "https://cdn.jsdelivr.net/npm/vega-lite@5")
	assert.NotContains(t, body, `src="/assets/logo"`)
	svc.AssertExpectations(t)
}

func TestDashboardHandler_EmptyPeriod(t *testing.T) {
	view := sampleView()
	view.Empty, view.Cards, view.Recent = true, nil, nil
	svc := new(MockDashboardService)
	svc.On("View", anyBound, anyBound).Return(view, nil)

	rec := serve(newDashboardRouter(t, svc, ""), "/dashboard?start=2026-02-01&end=2026-02-28")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Aucune transaction")
	assert.NotContains(t, rec.Body.String(), "vegaEmbed(")
}

func TestDashboardHandler_ErrorPages(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		err        error
		wantStatus int
		wantText   string
	}{
		{"missing file", "/dashboard", notFound, http.StatusNotFound, "Données introuvables."},
		{"load failure", "/dashboard", loadError, http.StatusInternalServerError, "could not be read"},
		{"inverted range", "/dashboard?start=2026-01-15&end=2026-01-14", domain.ErrInvalidRange, http.StatusBadRequest, "Invalid Date Range"},
		{"bad date", "/dashboard?start=31/02/2026x", nil, http.StatusBadRequest, "start must be a date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockDashboardService)
			if tt.err != nil {
				svc.On("View", anyBound, anyBound).Return(nil, tt.err)
			}

			rec := serve(newDashboardRouter(t, svc, ""), tt.target)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantText)
			assert.NotContains(t, rec.Body.String(), "kpi-card\">", "no partial dashboard")
		})
	}
}

func TestDashboardHandler_RedirectAndLogo(t *testing.T) {
	logo := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(logo, []byte("\x89PNG\r\n\x1a\n"), 0o644))

	svc := new(MockDashboardService)
	router := newDashboardRouter(t, svc, logo)

	rec := serve(router, "/")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	rec = serve(router, "/assets/logo")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	rec = serve(newDashboardRouter(t, svc, filepath.Join(t.TempDir(), "none.png")), "/assets/logo")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestParsePages(t *testing.T) {
	pages, err := ParsePages()
	require.NoError(t, err)
	assert.NotNil(t, pages.Lookup("dashboard"))
	assert.NotNil(t, pages.Lookup("error"))
}
