package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdejongh/exporter/pkg/config"
	"github.com/sdejongh/exporter/pkg/prefs"
)

// NewPrefsCommand creates the prefs command
func NewPrefsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Manage remembered source and destination",
		Long: `export remembers the last source and destination it used and
falls back to them when --source or --dest is omitted.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show remembered paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openPrefs()
			if err != nil {
				return err
			}
			p, err := store.Load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if p.Empty() {
				fmt.Fprintln(out, "No saved paths")
				return nil
			}
			fmt.Fprintf(out, "Source:      %s\n", p.Source)
			fmt.Fprintf(out, "Destination: %s\n", p.Destination)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Forget remembered paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openPrefs()
			if err != nil {
				return err
			}
			if err := store.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Saved paths cleared")
			return nil
		},
	})

	return cmd
}

func openPrefs() (*prefs.Store, error) {
	dir, err := config.StateDir()
	if err != nil {
		return nil, err
	}
	return prefs.NewStore(dir), nil
}
