package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"

	"pricedash/pkg/contracts"
)

// HealthService provides health check functionality
type HealthService struct {
	series    SeriesProvider
	dataFile  string
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// Ready reports whether every checked service is ready.
func (h HealthStatus) Ready() bool {
	return h.Status == StatusReady
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Records int    `json:"records,omitempty"`
	File    string `json:"file,omitempty"`
	Updated string `json:"updated,omitempty"`
}

// Health statuses.
const (
	StatusOK       = "ok"
	StatusAlive    = "alive"
	StatusReady    = "ready"
	StatusNotReady = "not_ready"
)

// NewHealthService creates a health service checking the price file at dataFile.
func NewHealthService(series SeriesProvider, dataFile string, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		series:    series,
		dataFile:  dataFile,
		startTime: time.Now(),
		logger:    logger.With(slog.String("service", "health")),
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    StatusOK,
		Timestamp: time.Now(),
		Version:   contracts.Version,
	}
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    StatusAlive,
		Timestamp: time.Now(),
		Version:   contracts.Version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// ReadinessCheck reports ready when the price file loads.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	data := hs.checkDataHealth(ctx)
	status := HealthStatus{
		Status:    StatusReady,
		Timestamp: time.Now(),
		Version:   contracts.Version,
		Services:  map[string]ServiceHealth{"data": data},
	}
	if data.Status != StatusReady {
		status.Status = StatusNotReady
	}
	return status
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	info := contracts.GetVersionInfo()
	return map[string]interface{}{
		"version":      info.Version,
		"api_version":  info.APIVersion,
		"data_format":  info.DataFormat,
		"build_time":   info.BuildTime,
		"git_commit":   info.GitCommit,
		"go_version":   runtime.Version(),
		"os":           runtime.GOOS,
		"arch":         runtime.GOARCH,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}
}

// checkDataHealth loads the price file through the cache.
func (hs *HealthService) checkDataHealth(ctx context.Context) ServiceHealth {
	series, err := hs.series.Get(ctx, hs.dataFile)
	if err != nil {
		hs.logger.WarnContext(ctx, "price data not ready",
			slog.String("file", hs.dataFile),
			slog.String("error", err.Error()))
		return ServiceHealth{
			Status:  StatusNotReady,
			Message: fmt.Sprintf("price data unavailable: %v", err),
		}
	}

	health := ServiceHealth{
		Status:  StatusReady,
		Message: "price data loaded",
		Records: series.Len(),
	}
	file := hs.dataFile
	if r, ok := hs.series.(interface{ Resolve(string) (string, error) }); ok {
		if resolved, err := r.Resolve(file); err == nil {
			file = resolved
		}
	}
	health.File = file
	if info, err := os.Stat(file); err == nil {
		health.Updated = humanize.Time(info.ModTime())
	}
	return health
}
