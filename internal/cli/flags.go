package cli

import (
	"github.com/spf13/cobra"
)

// GlobalFlags holds global flag values
type GlobalFlags struct {
	ConfigFile string
	Verbose    bool
	Quiet      bool
}

var globalFlags GlobalFlags

// AddGlobalFlags adds global flags to the root command
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(
		&globalFlags.ConfigFile,
		"config",
		"",
		"config file (default is $HOME/.config/exporter/config.yaml)",
	)
	cmd.PersistentFlags().BoolVarP(
		&globalFlags.Verbose,
		"verbose",
		"v",
		false,
		"verbose output (mirror the audit log to stderr)",
	)
	cmd.PersistentFlags().BoolVarP(
		&globalFlags.Quiet,
		"quiet",
		"q",
		false,
		"suppress non-error output",
	)
}

// GetGlobalFlags returns the global flags
func GetGlobalFlags() *GlobalFlags {
	return &globalFlags
}

// ExportFlags holds export command flags
type ExportFlags struct {
	Source    string
	Dest      string
	DryRun    bool
	Duplicate string
	Ext       []string
	Exclude   []string
	Bandwidth string
	Output    string
	NoSave    bool
	// Summary report flags
	SummaryReport string
	SummaryFormat string
	// Logging flags
	LogFile   string
	LogFormat string
	LogLevel  string
}

// addExportFlags registers the flags shared by export and plan
func addExportFlags(cmd *cobra.Command, flags *ExportFlags, withDryRun bool) {
	cmd.Flags().StringVarP(&flags.Source, "source", "s", "", "source directory (default: last used)")
	cmd.Flags().StringVarP(&flags.Dest, "dest", "d", "", "destination directory (default: last used)")
	if withDryRun {
		cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "report what would be copied without writing anything")
	}

	cmd.Flags().StringVar(&flags.Duplicate, "duplicate", "", "duplicate detection: size, hash (default from config: size)")
	cmd.Flags().StringSliceVar(&flags.Ext, "ext", nil, "extensions to export (default: .txt,.sql,.pdf,.rtf)")
	cmd.Flags().StringSliceVar(&flags.Exclude, "exclude", nil, "glob patterns of file names to skip")
	cmd.Flags().StringVarP(&flags.Bandwidth, "bandwidth", "b", "", "bandwidth limit (e.g., \"10M\", \"512K\")")
	cmd.Flags().StringVarP(&flags.Output, "output", "o", "", "output format: human, json")
	cmd.Flags().BoolVar(&flags.NoSave, "no-save", false, "do not remember source and destination for the next run")

	cmd.Flags().StringVar(&flags.SummaryReport, "summary-report", "", "write the run summary to a file (\"-\" for stdout)")
	cmd.Flags().StringVar(&flags.SummaryFormat, "summary-format", "human", "summary report format: human, json")

	// Logging flags
	cmd.Flags().StringVar(&flags.LogFile, "log-file", "", "audit log file (default: $HOME/.config/exporter/export.log)")
	cmd.Flags().StringVar(&flags.LogFormat, "log-format", "", "log format: text, json")
	cmd.Flags().StringVar(&flags.LogLevel, "log-level", "", "log level: debug, info, warning, error")
}
