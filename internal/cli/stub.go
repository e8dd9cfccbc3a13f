package cli

import (
	"github.com/spf13/cobra"

	"supplyask/internal/logging"
	"supplyask/internal/stubservice"
)

func newStubCommand() *cobra.Command {
	var (
		addr     string
		fixtures string
	)

	cmd := &cobra.Command{
		Use:   "stub",
		Short: "Run a local stand-in for the query service",
		Long: `Run a local stand-in for the query service.

Questions are answered from keyword-matched fixtures: the built-in set, or
the YAML file given with --fixtures. Stops on interrupt.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}
			logPath := cfg.LogFile
			if logPath == "" {
				logPath = logging.Stderr
			}
			logger, err := logging.New(cfg.LogLevel, logPath)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			set, err := stubservice.DefaultFixtures()
			if fixtures != "" {
				set, err = stubservice.LoadFixtures(fixtures)
			}
			if err != nil {
				return err
			}

			return stubservice.New(set, logger).Serve(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "listen", stubservice.DefaultAddr, "address to listen on")
	cmd.Flags().StringVar(&fixtures, "fixtures", "", "YAML fixture file (default: built-in fixtures)")
	return cmd
}
