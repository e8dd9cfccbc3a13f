package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "supplyask %s\n", Version)
			_, _ = fmt.Fprintf(out, "  commit: %s\n", GitCommit)
			_, _ = fmt.Fprintf(out, "  go:     %s\n", runtime.Version())
		},
	}
}
