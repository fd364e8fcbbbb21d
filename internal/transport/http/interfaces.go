package http

import (
	"context"
	"time"

	"pricedash/internal/services"
	"pricedash/pkg/contracts/domain"
)

// DashboardServiceInterface defines the dashboard operations used by handlers
type DashboardServiceInterface interface {
	Series(ctx context.Context) (domain.PriceSeries, error)
	Period(ctx context.Context, start, end *time.Time) (*services.Period, error)
	View(ctx context.Context, start, end *time.Time) (*services.DashboardView, error)
	ExportCSV(ctx context.Context, start, end *time.Time) (*services.Export, error)
	ExportXLSX(ctx context.Context, start, end *time.Time) (*services.Export, error)
}

// HealthServiceInterface defines the health operations used by handlers
type HealthServiceInterface interface {
	HealthCheck(ctx context.Context) services.HealthStatus
	LivenessCheck(ctx context.Context) services.HealthStatus
	ReadinessCheck(ctx context.Context) services.HealthStatus
	Version() map[string]interface{}
}
