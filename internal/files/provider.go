package files

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"pricedash/internal/dataprocessing"
	"pricedash/pkg/contracts/domain"
)

// SeriesGetter loads the series stored at a file path.
type SeriesGetter interface {
	Get(ctx context.Context, path string) (domain.PriceSeries, error)
}

// Provider resolves data directories to their latest price file before
// loading it.
type Provider struct {
	discovery *Discovery
	next      SeriesGetter
	logger    *slog.Logger
}

// NewProvider wraps next with directory resolution.
func NewProvider(discovery *Discovery, next SeriesGetter, logger *slog.Logger) *Provider {
	if discovery == nil {
		discovery = NewDiscovery("")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		discovery: discovery,
		next:      next,
		logger:    logger.With(slog.String("component", "price_files")),
	}
}

// Get loads the series at path, or at the latest price file when path is a
// directory. An empty directory reports dataprocessing.ErrNotFound.
func (p *Provider) Get(ctx context.Context, path string) (domain.PriceSeries, error) {
	file, err := p.discovery.Resolve(path)
	if err != nil {
		if errors.Is(err, ErrNoPriceFile) {
			return nil, fmt.Errorf("%w: %w", dataprocessing.ErrNotFound, err)
		}
		return nil, fmt.Errorf("%w: %w", dataprocessing.ErrLoadFailed, err)
	}
	if file != path {
		p.logger.DebugContext(ctx, "price file resolved",
			slog.String("directory", path),
			slog.String("file", file))
	}
	return p.next.Get(ctx, file)
}

// Resolve exposes the file Get would load for path.
func (p *Provider) Resolve(path string) (string, error) {
	return p.discovery.Resolve(path)
}
