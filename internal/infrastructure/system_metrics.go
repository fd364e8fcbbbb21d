package infrastructure

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// SystemMetrics reports Go runtime gauges on every collection.
type SystemMetrics struct {
	start time.Time

	goroutines   metric.Int64ObservableGauge
	heapAlloc    metric.Int64ObservableGauge
	memorySystem metric.Int64ObservableGauge
	gcCount      metric.Int64ObservableCounter
	uptime       metric.Float64ObservableGauge

	registration metric.Registration
}

// RegisterSystemMetrics registers runtime gauges on meter. Values are read
// lazily when the exporter collects.
func RegisterSystemMetrics(meter metric.Meter, start time.Time) (*SystemMetrics, error) {
	m := &SystemMetrics{start: start}
	var err error

	if m.goroutines, err = meter.Int64ObservableGauge("system_goroutines",
		metric.WithDescription("Number of active goroutines")); err != nil {
		return nil, fmt.Errorf("goroutines gauge: %w", err)
	}
	if m.heapAlloc, err = meter.Int64ObservableGauge("system_memory_allocated_bytes",
		metric.WithDescription("Heap bytes allocated by the Go runtime"),
		metric.WithUnit("By")); err != nil {
		return nil, fmt.Errorf("heap gauge: %w", err)
	}
	if m.memorySystem, err = meter.Int64ObservableGauge("system_memory_system_bytes",
		metric.WithDescription("Memory obtained from the OS in bytes"),
		metric.WithUnit("By")); err != nil {
		return nil, fmt.Errorf("system memory gauge: %w", err)
	}
	if m.gcCount, err = meter.Int64ObservableCounter("system_gc_count",
		metric.WithDescription("Completed garbage collection cycles")); err != nil {
		return nil, fmt.Errorf("gc counter: %w", err)
	}
	if m.uptime, err = meter.Float64ObservableGauge("system_uptime_seconds",
		metric.WithDescription("Seconds since the process started serving"),
		metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("uptime gauge: %w", err)
	}

	m.registration, err = meter.RegisterCallback(m.observe,
		m.goroutines, m.heapAlloc, m.memorySystem, m.gcCount, m.uptime)
	if err != nil {
		return nil, fmt.Errorf("register runtime callback: %w", err)
	}
	return m, nil
}

func (m *SystemMetrics) observe(_ context.Context, o metric.Observer) error {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	o.ObserveInt64(m.goroutines, int64(runtime.NumGoroutine()))
	o.ObserveInt64(m.heapAlloc, int64(mem.HeapAlloc))
	o.ObserveInt64(m.memorySystem, int64(mem.Sys))
	o.ObserveInt64(m.gcCount, int64(mem.NumGC))
	o.ObserveFloat64(m.uptime, time.Since(m.start).Seconds())
	return nil
}

// Unregister stops the runtime callback.
func (m *SystemMetrics) Unregister() error {
	if m == nil || m.registration == nil {
		return nil
	}
	return m.registration.Unregister()
}
