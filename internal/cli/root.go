// Package cli provides the supplyask command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"supplyask/internal/config"
	"supplyask/internal/query"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// ErrQueryFailed is returned when a one-shot query settles as a failure.
// The failure has already been printed.
var ErrQueryFailed = errors.New("query failed")

// configKey is used to store config in context.
type configKey struct{}

// NewRootCmd creates and returns the root command. Without a subcommand
// it starts the interactive terminal UI.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "supplyask",
		Short: "Ask the supply chain assistant",
		Long: `supplyask sends natural-language questions, tagged with a role and a
region, to the supply chain query service and shows the answer as prose,
a table, or a definition above a table.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
		RunE:          runTUI,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./supplyask.yaml)")
	pf.String("endpoint", "", "query service URL (default "+query.DefaultEndpoint+")")
	pf.Duration("timeout", 0, "per-request timeout (default 60s)")
	pf.StringP("role", "r", "", "role to ask as (Finance|Planner|Manager)")
	pf.StringP("region", "g", "", "region filter (India|Global)")
	pf.String("log-file", "", "write JSON logs to this file")
	pf.String("log-level", "", "log level (debug|info|warn|error)")
	pf.String("metrics-addr", "", "serve Prometheus metrics on host:port")
	pf.String("otlp-endpoint", "", "export traces to this OTLP/HTTP collector (host:port)")

	_ = rootCmd.RegisterFlagCompletionFunc("role", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return stringsOf(query.Roles()), cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("region", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return stringsOf(query.Regions()), cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newAskCommand())
	rootCmd.AddCommand(newREPLCommand())
	rootCmd.AddCommand(newStubCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, ErrQueryFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return err
	}
	return nil
}

// configFrom returns the config loaded by PersistentPreRunE.
func configFrom(cmd *cobra.Command) (*config.Config, error) {
	cfg, ok := cmd.Context().Value(configKey{}).(*config.Config)
	if !ok || cfg == nil {
		return nil, errors.New("configuration not loaded")
	}
	return cfg, nil
}

func stringsOf[T fmt.Stringer](vals []T) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = v.String()
	}
	return out
}
