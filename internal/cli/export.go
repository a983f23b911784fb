package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/sdejongh/exporter/pkg/compare"
	"github.com/sdejongh/exporter/pkg/config"
	"github.com/sdejongh/exporter/pkg/export"
	"github.com/sdejongh/exporter/pkg/filter"
	"github.com/sdejongh/exporter/pkg/logging"
	"github.com/sdejongh/exporter/pkg/models"
	"github.com/sdejongh/exporter/pkg/output"
	"github.com/sdejongh/exporter/pkg/prefs"
	"github.com/sdejongh/exporter/pkg/ratelimit"
)

// NewExportCommand creates the export command
func NewExportCommand() *cobra.Command {
	flags := &ExportFlags{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Copy matching files into the destination",
		Long: `Copy the files of the source directory whose extension is selected
into the destination directory. Files already present with the same size
(or the same content with --duplicate hash) are skipped; a different file
with the same name is kept and the new copy gets a random suffix.
Nothing in the destination is ever overwritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, flags)
		},
	}

	addExportFlags(cmd, flags, true)

	return cmd
}

// NewPlanCommand creates the plan command, a dry run of export
func NewPlanCommand() *cobra.Command {
	flags := &ExportFlags{}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show what export would do without writing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.DryRun = true
			return runExport(cmd, flags)
		},
	}

	addExportFlags(cmd, flags, false)

	return cmd
}

func runExport(cmd *cobra.Command, flags *ExportFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := validateExportFlags(flags); err != nil {
		return err
	}

	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return errors.Errorf("failed to load config: %w", err)
	}

	// Override config with command-line flags
	applyFlagsToConfig(cfg, flags)
	if err := cfg.Validate(); err != nil {
		return errors.Errorf("invalid options: %w", err)
	}

	stateDir, err := config.StateDir()
	if err != nil {
		return err
	}
	store := prefs.NewStore(stateDir)

	source, dest, err := resolvePaths(flags, store)
	if err != nil {
		return err
	}

	formatter, err := output.New(cfg.Output.Format, cmd.OutOrStdout(), output.Options{
		Progress: cfg.Output.Progress,
		Color:    cfg.Output.Color,
		Quiet:    cfg.Output.Quiet,
	})
	if err != nil {
		return err
	}

	logger, err := createLogger(cfg.Logging, globalFlags.Verbose, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer logger.Close()

	reconciler, err := createReconciler(ctx, cfg, formatter, logger, stateDir)
	if err != nil {
		return err
	}

	req := createExportRequest(source, dest, flags.DryRun)
	summary, runErr := reconciler.Run(ctx, req)
	if summary == nil {
		formatter.Error(runErr)
		return &ExitError{Code: ExitFatal, Err: runErr}
	}

	if !flags.NoSave {
		if err := store.Save(prefs.Paths{Source: source, Destination: dest}); err != nil {
			logger.Warn(ctx, "Could not save preferences", logging.Fields{"error": err.Error()})
		}
	}

	if flags.SummaryReport != "" || cmd.Flags().Changed("summary-format") {
		path := flags.SummaryReport
		if path == "" {
			path = "-"
		}
		if err := writeSummary(cmd.OutOrStdout(), summary, path, flags.SummaryFormat); err != nil {
			return errors.Errorf("failed to write summary report: %w", err)
		}
	}

	if code := summary.Status.ExitCode(); code != ExitSuccess || runErr != nil {
		return &ExitError{Code: code, Err: runErr}
	}
	return nil
}

// createReconciler wires the configured collaborators into a reconciler
func createReconciler(ctx context.Context, cfg *config.Config, observer export.Observer, logger logging.Logger, stateDir string) (*export.Reconciler, error) {
	flt, err := filter.New(cfg.Export.Extensions, cfg.Export.Exclude)
	if err != nil {
		return nil, err
	}

	bandwidth, err := ratelimit.ParseBandwidth(cfg.Performance.Bandwidth)
	if err != nil {
		return nil, err
	}
	limiter := ratelimit.NewLimiter(bandwidth)

	comparator, err := createComparator(ctx, cfg, limiter)
	if err != nil {
		return nil, err
	}

	return export.New(export.Options{
		Filter:            flt,
		Comparator:        comparator,
		Logger:            logger,
		Observer:          observer,
		Limiter:           limiter,
		MaxRenameAttempts: cfg.Export.MaxRenameAttempts,
		LockDir:           stateDir,
	}), nil
}

// createComparator returns the duplicate strategy selected in cfg
func createComparator(ctx context.Context, cfg *config.Config, limiter *ratelimit.Limiter) (compare.Comparator, error) {
	comparator, err := compare.New(cfg.Export.Duplicate, cfg.Performance.BufferSize)
	if err != nil {
		return nil, err
	}

	if hc, ok := comparator.(*compare.HashComparator); ok {
		hc.SetPartialHashEnabled(cfg.Performance.PartialHash)
		// Hash reads count against the bandwidth limit too
		if limiter != nil {
			hc.SetReaderWrapper(func(rc io.ReadCloser) io.ReadCloser {
				return ratelimit.Wrap(ctx, rc, limiter)
			})
		}
	}
	return comparator, nil
}

func writeSummary(stdout io.Writer, summary *models.RunSummary, path, format string) error {
	if path == "-" {
		return output.WriteSummary(stdout, summary, format)
	}
	return output.WriteSummaryReport(summary, path, format)
}
