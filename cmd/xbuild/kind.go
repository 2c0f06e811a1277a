package main

import (
	"fmt"
	"os"
	"sort"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/xbuild/xbuild/internal/domain/rules"
	"github.com/xbuild/xbuild/internal/planner"
	"github.com/xbuild/xbuild/internal/runner"
	"github.com/xbuild/xbuild/internal/tui"
)

// newKindCmd builds the subcommand for one rules.Kind: build, test, bench,
// doc, dist, or install. Positional arguments become the request's path
// filters; with none given, planning falls back to every rule flagged
// default for this kind.
func newKindCmd(app *AppContext, preRun func(cmd *cobra.Command, args []string) error, use string, kind rules.Kind) *cobra.Command {
	flags := &kindFlags{keepStage: -1}

	cmd := &cobra.Command{
		Use:               use + " [path-filter...]",
		Short:             fmt.Sprintf("Plan and run %s rules", use),
		PersistentPreRunE: preRun,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.list {
				return runList(app, cmd, kind)
			}
			if err := flags.validate(); err != nil {
				return err
			}
			return runKind(app, cmd, kind, args, flags)
		},
	}

	cmd.Flags().IntVar(&flags.stage, "stage", 0, "Bootstrap stage to plan at (default 2)")
	cmd.Flags().StringSliceVar(&flags.hosts, "host", nil, "Override the configured host list (repeatable)")
	cmd.Flags().StringSliceVar(&flags.targets, "target", nil, "Override the configured target list (repeatable)")
	cmd.Flags().IntVar(&flags.keepStage, "keep-stage", -1, "Skip actions for steps at or below this stage")
	cmd.Flags().BoolVar(&flags.list, "list", false, "List available paths for this command and exit")
	if use == "test" || use == "bench" {
		cmd.Flags().StringSliceVar(&flags.testArgs, "test-args", nil, "Extra test/bench arguments (accepted and logged at debug level; not passed to actions)")
	}

	return cmd
}

// runList implements the mandatory help listing: every rule of this kind
// whose path doesn't contain "nowhere" (pseudo-rules stay reachable only
// via default fan-out, never listed), sorted by path.
func runList(app *AppContext, cmd *cobra.Command, kind rules.Kind) error {
	candidates := app.Rules.ByKind(kind)
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Path < candidates[j].Path })

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Available paths:")
	for _, rule := range candidates {
		if rule.Hidden() {
			continue
		}
		fmt.Fprintf(out, "    ./x.py %s %s\n", cmd.Name(), rule.Path)
	}
	return nil
}

func runKind(app *AppContext, cmd *cobra.Command, kind rules.Kind, pathFilters []string, flags *kindFlags) error {
	ctx, logger := app.CommandContext(cmd, "orchestrator")

	req := planner.Request{
		Kind:        kind,
		PathFilters: pathFilters,
		Stage:       flags.stage,
	}
	if cmd.Flags().Changed("host") {
		req.Hosts = flags.hosts
	}
	if cmd.Flags().Changed("target") {
		req.Targets = flags.targets
	}

	if len(flags.testArgs) > 0 && logger != nil {
		logger.Debug(ctx, "test-args accepted but not forwarded to actions", "args", flags.testArgs)
	}

	topLevel := planner.New().Plan(app.Rules, app.Config.Settings, req)
	if len(topLevel) == 0 {
		fmt.Fprintln(os.Stdout, "nothing to do: no rule matched")
		return nil
	}

	expander := planner.NewExpander(app.Rules, app.Config.Settings)
	steps, err := expander.Expand(topLevel)
	if err != nil {
		return fmt.Errorf("expand dependency graph: %w", err)
	}

	r := runner.New(app.Rules, app.LoggerFor("runner"))

	interactive := term.IsTerminal(int(os.Stdout.Fd()))
	if !interactive {
		r = r.WithProgress(func(step rules.Step, rule rules.Rule, skipped bool) {
			status := "ok"
			if skipped {
				status = "skipped"
			}
			fmt.Fprintf(os.Stdout, "[%s] %s (stage %d, target %s)\n", status, rule.Name, step.Stage(), step.Target())
		})
		return r.Run(ctx, steps, flags.keepStage)
	}

	model := tui.NewModel(countNonNoop(steps))
	program := tea.NewProgram(model)
	runErr := make(chan error, 1)

	r = r.WithProgress(func(step rules.Step, rule rules.Rule, skipped bool) {
		program.Send(tui.StepDoneMsg{Name: rule.Name, Skipped: skipped})
	})

	go func() {
		err := r.Run(ctx, steps, flags.keepStage)
		program.Send(tui.DoneMsg{Err: err})
		runErr <- err
	}()

	if _, err := program.Run(); err != nil {
		return err
	}
	return <-runErr
}

func countNonNoop(steps []rules.Step) int {
	n := 0
	for _, s := range steps {
		if !s.IsNoop() {
			n++
		}
	}
	return n
}
