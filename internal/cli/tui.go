package cli

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"supplyask/internal/ui"
)

// runTUI starts the interactive screen and blocks until the user quits.
func runTUI(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, err := configFrom(cmd)
	if err != nil {
		return err
	}
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	model := ui.NewAppModel(ui.Options{
		Submitter: a.client,
		Role:      cfg.QueryRole(),
		Region:    cfg.QueryRegion(),
		Logger:    a.logger,
		Context:   ctx,
	})
	p := tea.NewProgram(model.AsTeaModel(), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("terminal UI: %w", err)
	}
	return nil
}
