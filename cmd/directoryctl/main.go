// Command directoryctl is the operator CLI for the directory service: bulk
// CSV import against the configured store, template export and work tag
// listing.
//
// Usage:
//
//	directoryctl import workers.csv --dry-run
//	directoryctl template > profiles_template.csv
//	directoryctl work-types
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "directoryctl",
		Short:         "Operate the worker directory",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	root.AddCommand(newImportCmd())
	root.AddCommand(newTemplateCmd())
	root.AddCommand(newWorkTypesCmd())
	return root
}
