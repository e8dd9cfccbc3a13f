package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"supplyask/internal/markdown"
	"supplyask/internal/query"
	"supplyask/internal/render"
	"supplyask/internal/session"
)

func newREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Ask questions in a line-oriented loop",
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			r := newREPL(cmd.OutOrStdout(), a.client, cfg.QueryRole(), cfg.QueryRegion())
			return r.run(ctx)
		},
	}
}

// repl is the state of one interactive loop: the current filters plus the
// session that every question goes through.
type repl struct {
	out     io.Writer
	session *session.Session
	sub     session.Submitter
	view    *render.View
	painter render.Painter
	role    query.Role
	region  query.Region
}

func newREPL(out io.Writer, sub session.Submitter, role query.Role, region query.Region) *repl {
	return &repl{
		out:     out,
		session: session.New(),
		sub:     sub,
		view:    render.NewView(markdown.New()),
		painter: render.NewPainter(defaultWidth),
		role:    role,
		region:  region,
	}
}

func (r *repl) prompt() string {
	return fmt.Sprintf("%s@%s> ", r.role, r.region)
}

func (r *repl) run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          r.prompt(),
		HistoryFile:     historyFile(),
		AutoComplete:    newCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintln(r.out, "Supply chain assistant. Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(r.out)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if quit := r.handle(ctx, line); quit {
			return nil
		}
		rl.SetPrompt(r.prompt())
	}
}

// handle processes one input line. It reports whether the loop should end.
// Questions are sent as typed; only a line with nothing on it is skipped.
func (r *repl) handle(ctx context.Context, line string) bool {
	if line == "" {
		return false
	}
	if cmd := strings.TrimSpace(line); strings.HasPrefix(cmd, ".") {
		return r.dotCommand(cmd)
	}

	outcome, err := r.session.Ask(ctx, r.sub, query.Request{Text: line, Role: r.role, Region: r.region})
	if err != nil {
		_, _ = fmt.Fprintf(r.out, "Error: %v\n", err)
		return false
	}
	_, _ = fmt.Fprintln(r.out, r.painter.Paint(r.view.Render(outcome)))
	_, _ = fmt.Fprintln(r.out)
	return false
}

func (r *repl) dotCommand(line string) bool {
	fields := strings.Fields(line)
	arg := strings.Join(fields[1:], " ")

	switch fields[0] {
	case ".quit", ".exit":
		return true
	case ".help":
		r.printHelp()
	case ".role":
		if arg == "" {
			_, _ = fmt.Fprintf(r.out, "role: %s (one of %s)\n", r.role, strings.Join(stringsOf(query.Roles()), ", "))
			return false
		}
		role, err := query.ParseRole(arg)
		if err != nil {
			_, _ = fmt.Fprintf(r.out, "Error: %v\n", err)
			return false
		}
		r.role = role
		_, _ = fmt.Fprintf(r.out, "role set to %s\n", role)
	case ".region":
		if arg == "" {
			_, _ = fmt.Fprintf(r.out, "region: %s (one of %s)\n", r.region, strings.Join(stringsOf(query.Regions()), ", "))
			return false
		}
		region, err := query.ParseRegion(arg)
		if err != nil {
			_, _ = fmt.Fprintf(r.out, "Error: %v\n", err)
			return false
		}
		r.region = region
		_, _ = fmt.Fprintf(r.out, "region set to %s\n", region)
	default:
		_, _ = fmt.Fprintf(r.out, "Unknown command %s. Type .help for commands.\n", fields[0])
	}
	return false
}

func (r *repl) printHelp() {
	_, _ = fmt.Fprint(r.out, `Commands:
  .role [name]     show or set the role (Finance, Planner, Manager)
  .region [name]   show or set the region (India, Global)
  .help            show this help
  .quit            exit

Anything else is sent as a question.
`)
}

func newCompleter() *readline.PrefixCompleter {
	roles := make([]readline.PrefixCompleterInterface, 0, len(query.Roles()))
	for _, r := range query.Roles() {
		roles = append(roles, readline.PcItem(r.String()))
	}
	regions := make([]readline.PrefixCompleterInterface, 0, len(query.Regions()))
	for _, r := range query.Regions() {
		regions = append(regions, readline.PcItem(r.String()))
	}
	return readline.NewPrefixCompleter(
		readline.PcItem(".role", roles...),
		readline.PcItem(".region", regions...),
		readline.PcItem(".help"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}

// historyFile returns the REPL history path, or "" to disable history.
func historyFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	dir = filepath.Join(dir, "supplyask")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ""
	}
	return filepath.Join(dir, "repl_history")
}
