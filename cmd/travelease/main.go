// Command travelease runs the summary server and reads summaries from the
// terminal.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "travelease",
		Short:        "Travel link summaries: server and terminal client",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(renderCmd())
	rootCmd.AddCommand(processCmd())
	return rootCmd
}
