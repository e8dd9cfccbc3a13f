package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"supplyask/internal/markdown"
	"supplyask/internal/query"
	"supplyask/internal/render"
	"supplyask/internal/session"
)

// Output formats for ask.
const (
	OutputText = "text"
	OutputJSON = "json"
)

const defaultWidth = 100

func newAskCommand() *cobra.Command {
	var (
		output string
		width  int
	)

	cmd := &cobra.Command{
		Use:   "ask [question...]",
		Short: "Ask one question and print the answer",
		Long: `Ask one question and print the answer.

The question is the joined arguments, or standard input when none are given.
With --output json the outcome is printed in the service's wire shape; a
failure prints as {"type":"error","message":...}.`,
		Example: `  supplyask ask --role Planner --region India "Which items are slow-moving?"
  echo "total sales" | supplyask ask -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != OutputText && output != OutputJSON {
				return fmt.Errorf("unknown output format %q (want %s or %s)", output, OutputText, OutputJSON)
			}
			ctx := cmd.Context()
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}

			text := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read question: %w", err)
				}
				text = trimLineEnding(string(data))
			}

			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			req := query.Request{Text: text, Role: cfg.QueryRole(), Region: cfg.QueryRegion()}
			outcome, err := session.New().Ask(ctx, a.client, req)
			if err != nil {
				return err
			}

			if err := writeOutcome(cmd.OutOrStdout(), outcome, output, width); err != nil {
				return err
			}
			if outcome.Kind() == query.KindFailure {
				return ErrQueryFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", OutputText, "output format (text|json)")
	cmd.Flags().IntVarP(&width, "width", "w", defaultWidth, "wrap text output at this many columns (0 disables)")
	_ = cmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{OutputText, OutputJSON}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

// writeOutcome prints outcome in the requested format.
func writeOutcome(w io.Writer, outcome query.Outcome, format string, width int) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		return enc.Encode(outcome)
	}
	display := render.NewView(markdown.New()).Render(outcome)
	_, err := fmt.Fprintln(w, render.NewPainter(width).Paint(display))
	return err
}

// trimLineEnding drops the single line ending a shell pipe leaves behind.
// Everything else in the question is sent as typed.
func trimLineEnding(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}
