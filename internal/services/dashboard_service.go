package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"pricedash/internal/charts"
	"pricedash/internal/config"
	"pricedash/internal/dataprocessing"
	"pricedash/internal/exporter"
	"pricedash/pkg/contracts/domain"
)

// SeriesProvider returns the price series stored at path.
// *dataprocessing.SeriesCache is the production implementation.
type SeriesProvider interface {
	Get(ctx context.Context, path string) (domain.PriceSeries, error)
}

// SummaryObserver is told about every computed period summary.
type SummaryObserver interface {
	SummaryComputed(ctx context.Context, empty bool)
}

// Export is a rendered download.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Export content types.
const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// DashboardService turns the configured price file into dashboard data.
type DashboardService struct {
	series   SeriesProvider
	data     config.DataConfig
	observer SummaryObserver
	prices   *priceFormat
	logger   *slog.Logger
}

// NewDashboardService creates a dashboard service. observer may be nil.
func NewDashboardService(series SeriesProvider, data config.DataConfig, observer SummaryObserver, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	if data.RecentRows <= 0 {
		data.RecentRows = config.DefaultRecentRows
	}
	if data.Currency == "" {
		data.Currency = config.DefaultCurrency
	}
	return &DashboardService{
		series:   series,
		data:     data,
		observer: observer,
		prices:   newPriceFormat(data.Currency),
		logger:   logger.With(slog.String("service", "dashboard")),
	}
}

// DataFile returns the path of the price history.
func (s *DashboardService) DataFile() string { return s.data.File }

// Series returns the full price history.
func (s *DashboardService) Series(ctx context.Context) (domain.PriceSeries, error) {
	series, err := s.series.Get(ctx, s.data.File)
	if err != nil {
		return nil, fmt.Errorf("load price history: %w", err)
	}
	return series, nil
}

// Period is the filtered series of a range and its summary.
type Period struct {
	Records domain.PriceSeries   `json:"records"`
	Summary domain.PeriodSummary `json:"summary"`
	// Span is the full history range, for bounding date pickers.
	Span domain.DateRange `json:"span"`
}

// Period loads the history and summarizes the requested range. A nil bound
// falls back to the matching end of the history.
func (s *DashboardService) Period(ctx context.Context, start, end *time.Time) (*Period, error) {
	series, err := s.Series(ctx)
	if err != nil {
		return nil, err
	}

	r, err := dataprocessing.ResolveRange(series, start, end)
	if err != nil {
		return nil, err
	}

	records, summary := dataprocessing.Summarize(series, r)
	if s.observer != nil {
		s.observer.SummaryComputed(ctx, summary.Empty)
	}

	span, _ := series.Span()
	s.logger.DebugContext(ctx, "period summarized",
		slog.String("range", r.String()),
		slog.Int("records", summary.Count),
		slog.Bool("empty", summary.Empty),
	)

	return &Period{Records: records, Summary: summary, Span: span}, nil
}

// View assembles everything the dashboard page displays.
func (s *DashboardService) View(ctx context.Context, start, end *time.Time) (*DashboardView, error) {
	p, err := s.Period(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return s.buildView(p), nil
}

// ExportCSV renders the records of a range as CSV. With both bounds nil the
// whole history is exported under the plain file name.
func (s *DashboardService) ExportCSV(ctx context.Context, start, end *time.Time) (*Export, error) {
	records, r, err := s.exportRecords(ctx, start, end)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := exporter.WriteCSV(&buf, records, exporter.WriteOptions{}); err != nil {
		return nil, fmt.Errorf("encode csv: %w", err)
	}
	return &Export{
		Filename:    exporter.Filename(s.data.ExportPrefix, "csv", r),
		ContentType: ContentTypeCSV,
		Data:        buf.Bytes(),
	}, nil
}

// ExportXLSX renders the records of a range as an Excel workbook.
func (s *DashboardService) ExportXLSX(ctx context.Context, start, end *time.Time) (*Export, error) {
	records, r, err := s.exportRecords(ctx, start, end)
	if err != nil {
		return nil, err
	}

	data, err := exporter.EncodeXLSX(records)
	if err != nil {
		return nil, fmt.Errorf("encode xlsx: %w", err)
	}
	return &Export{
		Filename:    exporter.Filename(s.data.ExportPrefix, "xlsx", r),
		ContentType: ContentTypeXLSX,
		Data:        data,
	}, nil
}

func (s *DashboardService) exportRecords(ctx context.Context, start, end *time.Time) (domain.PriceSeries, *domain.DateRange, error) {
	if start == nil && end == nil {
		series, err := s.Series(ctx)
		return series, nil, err
	}
	p, err := s.Period(ctx, start, end)
	if err != nil {
		return nil, nil, err
	}
	return p.Records, &p.Summary.Range, nil
}

// buildView formats a period for display.
func (s *DashboardService) buildView(p *Period) *DashboardView {
	sum := p.Summary
	view := &DashboardView{
		Title:       s.data.Title,
		PeriodLabel: periodLabel(sum.Range),
		Range:       sum.Range,
		Span:        p.Span,
		Summary:     sum,
		Empty:       sum.Empty,
		PriceChart:  charts.PriceTrend(p.Records),
		VolumeChart: charts.DailyVolume(p.Records),
		Recent:      s.recentRows(p.Records),
	}
	if !sum.Empty {
		view.Cards = s.cards(sum)
	}
	return view
}

func (s *DashboardService) cards(sum domain.PeriodSummary) []KPICard {
	return []KPICard{
		{
			Title:    "Dernier Cours",
			Value:    s.prices.Card(sum.LastClose),
			Delta:    sum.DeltaPct.SignedString() + " (vs veille)",
			Positive: sum.Rising(),
		},
		{
			Title:    "Volume Période",
			Value:    formatVolume(sum.VolumeSum),
			Delta:    "Titres échangés",
			Positive: true,
		},
		{
			Title:    "Capitaux",
			Value:    s.prices.Millions(sum.AmountSum),
			Delta:    "Flux monétaire",
			Positive: true,
		},
		{
			Title:    "Plus Haut (Période)",
			Value:    s.prices.Card(sum.PeriodHigh),
			Delta:    "Résistance majeure",
			Positive: true,
		},
	}
}

// recentRows returns the last RecentRows records, newest first.
func (s *DashboardService) recentRows(records domain.PriceSeries) []RecentRow {
	n := min(s.data.RecentRows, len(records))
	rows := make([]RecentRow, 0, n)
	for i := len(records) - 1; i >= len(records)-n; i-- {
		rec := records[i]
		rows = append(rows, RecentRow{
			Date:      rec.Date.Format(DisplayDateFormat),
			Close:     s.prices.Cell(rec.Close),
			Variation: s.prices.SignedCell(rec.Variation),
			Volume:    formatVolume(rec.Volume),
			Positive:  rec.Variation >= 0,
		})
	}
	return rows
}

func periodLabel(r domain.DateRange) string {
	return fmt.Sprintf("du %s au %s", r.From.Format(DisplayDateFormat), r.To.Format(DisplayDateFormat))
}
