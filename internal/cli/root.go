// Package cli implements the pricedash command line: serve the dashboard,
// export the price history and print period summaries.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"pricedash/internal/config"
	"pricedash/internal/dataprocessing"
	"pricedash/internal/files"
	"pricedash/internal/infrastructure"
	"pricedash/internal/services"
	"pricedash/pkg/contracts"
)

// rootOptions carries the persistent flags and the state built from them.
type rootOptions struct {
	configPath string
	dataFile   string
	logLevel   string

	cfg    *config.Config
	logger *infrastructure.Logger
}

// New builds the root command.
func New() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   config.AppName,
		Short: "Single-page dashboard over a stock price history file",
		Long: `pricedash reads a tab-separated price history (date, ouv, haut, bas, clot, vol),
derives amount and variation columns and serves a dashboard with KPI cards,
a price trend chart, a volume chart and the latest transactions.

Configuration comes from config.yaml, PRICEDASH_* environment variables and flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.setup(cmd.ErrOrStderr()); err != nil {
				return err
			}
			// Tags the logs of one invocation like those of one request.
			cmd.SetContext(infrastructure.EnsureRequestID(cmd.Context()))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Close()
			}
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file (default config.yaml or configs/config.yaml)")
	flags.StringVarP(&opts.dataFile, "data", "d", "", "price history file or directory of dated exports (overrides data.file)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")

	cmd.AddCommand(
		newServeCmd(opts),
		newExportCmd(opts),
		newSummaryCmd(opts),
		newVersionCmd(),
	)

	return cmd
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return New().ExecuteContext(ctx)
}

func (o *rootOptions) setup(stderr io.Writer) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.dataFile != "" {
		cfg.Data.File = o.dataFile
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}

	logger, err := infrastructure.NewLogger(cfg.Logging, stderr)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	slog.SetDefault(logger.Logger)

	o.cfg = cfg
	o.logger = logger
	return nil
}

// dashboard builds a dashboard service without telemetry, for one-shot commands.
func (o *rootOptions) dashboard() *services.DashboardService {
	cache := dataprocessing.NewSeriesCache(dataprocessing.OSSource{}, o.logger.Logger)
	provider := files.NewProvider(files.NewDiscovery(o.cfg.Data.Pattern), cache, o.logger.Logger)
	return services.NewDashboardService(provider, o.cfg.Data, nil, o.logger.Logger)
}

// rangeFlags holds --start/--end.
type rangeFlags struct {
	start, end string
}

func (f *rangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.start, "start", "", "first day of the period, e.g. 2026-01-02 or 02/01/2026 (default first record)")
	cmd.Flags().StringVar(&f.end, "end", "", "last day of the period (default last record)")
}

func (f *rangeFlags) bounds() (start, end *time.Time, err error) {
	if start, err = parseBound("start", f.start); err != nil {
		return nil, nil, err
	}
	if end, err = parseBound("end", f.end); err != nil {
		return nil, nil, err
	}
	return start, end, nil
}

func parseBound(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := dataprocessing.ParseDate(value)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return &t, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), contracts.GetFullVersionString())
		},
	}
}
