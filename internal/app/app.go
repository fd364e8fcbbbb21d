package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"pricedash/internal/config"
	"pricedash/internal/dataprocessing"
	apierrors "pricedash/internal/errors"
	"pricedash/internal/files"
	"pricedash/internal/infrastructure"
	customMiddleware "pricedash/internal/middleware"
	"pricedash/internal/services"
	handlers "pricedash/internal/transport/http"
	"pricedash/pkg/contracts"
)

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.DashboardMetrics
	SystemMetrics *infrastructure.SystemMetrics

	Cache     *dataprocessing.SeriesCache
	Files     *files.Provider
	Dashboard *services.DashboardService
	Health    *services.HealthService

	errorHandler *apierrors.ErrorHandler
}

// NewApplication wires the services, router and HTTP server for cfg.
func NewApplication(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", contracts.Version),
		slog.String("data_file", cfg.Data.File))

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateDashboardMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create dashboard metrics: %w", err)
	}

	systemMetrics, err := infrastructure.RegisterSystemMetrics(otelProviders.Meter, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to register runtime metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		SystemMetrics: systemMetrics,
		errorHandler:  apierrors.NewErrorHandler(logger, cfg.Logging.Development),
	}

	app.initializeServices()

	if err := app.setupRouter(); err != nil {
		return nil, fmt.Errorf("failed to set up router: %w", err)
	}

	app.createServer()

	return app, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() {
	a.Cache = dataprocessing.NewSeriesCache(
		dataprocessing.OSSource{},
		a.Logger,
		dataprocessing.WithObserver(a.Metrics),
	)
	a.Files = files.NewProvider(files.NewDiscovery(a.Config.Data.Pattern), a.Cache, a.Logger)
	a.Dashboard = services.NewDashboardService(a.Files, a.Config.Data, a.Metrics, a.Logger)
	a.Health = services.NewHealthService(a.Files, a.Config.Data.File, a.Logger)
}

// setupRouter builds the chi router.
// Middleware order: RequestID → RealIP → OTel → Logger → Recoverer → Timeout.
func (a *Application) setupRouter() error {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics).Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(a.errorHandler.Recoverer)
	r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout))
	r.Use(customMiddleware.StripSlashes)
	r.Use(customMiddleware.DefaultSecureHeaders().Handler)

	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
			Logger:         a.Logger,
		}))
	}

	if a.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
			a.errorHandler,
		).Handler)
	}

	r.Use(customMiddleware.Compress(5))

	r.NotFound(a.errorHandler.NotFound)
	r.MethodNotAllowed(a.errorHandler.MethodNotAllowed)

	dashboard, err := handlers.NewDashboardHandler(a.Dashboard, a.Config.Data.LogoPath, a.Logger, a.errorHandler)
	if err != nil {
		return err
	}
	r.Get("/", dashboard.Redirect)
	r.Get("/dashboard", dashboard.Dashboard)
	r.Get("/assets/logo", dashboard.Logo)

	a.setupAPIRoutes(r)

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
	return nil
}

// setupAPIRoutes mounts the JSON API.
func (a *Application) setupAPIRoutes(r chi.Router) {
	health := handlers.NewHealthHandler(a.Health, a.Logger)
	data := handlers.NewDataHandler(a.Dashboard, a.Logger, a.errorHandler)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(render.SetContentType(render.ContentTypeJSON))
			r.Get("/health", health.HealthCheck)
			r.Get("/health/live", health.LivenessCheck)
			r.Get("/health/ready", health.ReadinessCheck)
			r.Get("/version", health.Version)
		})
		r.Mount("/data", data.Routes())
	})
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           a.Config.Server.Addr(),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(a.Logger.Handler(), slog.LevelError),
	}
}

// Serve accepts connections on ln until the server is shut down.
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	a.performStartupHealthCheck(ctx)

	a.Logger.InfoContext(ctx, "Application started",
		slog.String("address", "http://"+ln.Addr().String()),
		slog.String("version", contracts.Version))

	if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Stop shuts the server down gracefully and flushes telemetry.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}

	if err := a.SystemMetrics.Unregister(); err != nil {
		a.Logger.WarnContext(ctx, "Error unregistering runtime metrics", slog.String("error", err.Error()))
	}
	if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
		a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return errors.Join(errs...)
}

// Run listens on the configured address and blocks until SIGINT or SIGTERM,
// then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.Server.Addr, err)
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- a.Serve(ctx, ln) }()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
		a.Logger.Info("Received interrupt signal")
	}

	return a.Stop(context.Background())
}

// performStartupHealthCheck warms the series cache. A missing or broken file
// is logged and served as an error page until it is fixed.
func (a *Application) performStartupHealthCheck(ctx context.Context) {
	series, err := a.Files.Get(ctx, a.Config.Data.File)
	if err != nil {
		a.Logger.WarnContext(ctx, "Price data not loadable at startup",
			slog.String("file", a.Config.Data.File),
			slog.String("error", err.Error()))
		return
	}
	a.Logger.InfoContext(ctx, "Price data loaded",
		slog.String("file", a.Config.Data.File),
		slog.Int("records", series.Len()))
}
