package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

// NewRootCommand assembles the exporter command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "exporter",
		Short: "Export selected files into a destination folder",
		Long: `exporter copies the .txt, .sql, .pdf and .rtf files (or any configured
extensions) of a source folder into a destination folder. It skips files
already exported, keeps conflicting files side by side under a new name
and never overwrites anything.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add global flags
	AddGlobalFlags(rootCmd)

	// Add commands
	rootCmd.AddCommand(NewExportCommand())
	rootCmd.AddCommand(NewPlanCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewPrefsCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// Execute runs the command line and returns the process exit code
func Execute(ctx context.Context, args []string) int {
	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
	return ExitFatal
}
