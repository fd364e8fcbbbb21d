package services

import (
	"pricedash/internal/charts"
	"pricedash/pkg/contracts/domain"
)

// DashboardView is the presentation model of the dashboard page. Every value
// is already formatted; templates only place them.
type DashboardView struct {
	Title       string
	PeriodLabel string
	Range       domain.DateRange
	Span        domain.DateRange
	Summary     domain.PeriodSummary

	// Empty is set when no record falls in Range. Cards is nil then.
	Empty bool
	Cards []KPICard

	PriceChart  charts.Spec
	VolumeChart charts.Spec

	// Recent lists the latest records of the period, newest first.
	Recent []RecentRow
}

// KPICard is one headline figure.
type KPICard struct {
	Title    string
	Value    string
	Delta    string
	Positive bool
}

// Arrow is the trend glyph shown before Delta.
func (c KPICard) Arrow() string {
	if c.Positive {
		return "↗"
	}
	return "↘"
}

// DeltaClass is the CSS class coloring Delta.
func (c KPICard) DeltaClass() string {
	if c.Positive {
		return "kpi-delta-pos"
	}
	return "kpi-delta-neg"
}

// RecentRow is one line of the transactions table.
type RecentRow struct {
	Date      string
	Close     string
	Variation string
	Volume    string
	Positive  bool
}
