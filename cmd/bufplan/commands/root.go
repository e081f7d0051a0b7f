package commands

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the bufplan command tree. Diagnostics are written to logger.
func NewRootCommand(logger *log.Logger) *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "bufplan",
		Short: "Plan the layout of aligned instance buffers",
		Long: `bufplan computes how equally sized instances are packed into a single buffer when
each one must begin on a device offset alignment, and reports the padding that costs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(newLayoutCommand(logger))
	rootCmd.AddCommand(newPlanCommand(logger))

	return rootCmd
}

// Execute runs bufplan with the process arguments
func Execute() error {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		Prefix:          "bufplan",
	})

	err := NewRootCommand(logger).Execute()
	if err != nil {
		logger.Error("command failed", "err", err)
	}
	return err
}
