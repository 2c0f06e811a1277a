// Package runner executes a topologically ordered step list against a
// registry and an Actions implementation.
package runner

import (
	"context"

	"github.com/xbuild/xbuild/internal/domain/rules"
	"github.com/xbuild/xbuild/internal/ports"
	xerrors "github.com/xbuild/xbuild/pkg/errors"
)

// Runner iterates a topologically sorted step list and invokes each step's
// registered action, honoring --keep-stage skips. Execution is strictly
// sequential: actions are not required to be thread-safe, and a failure is
// fatal to the run with no rollback.
type Runner struct {
	reg    *rules.Registry
	logger ports.Logger
	onStep func(step rules.Step, rule rules.Rule, skipped bool)
}

// New returns a Runner bound to reg. logger may be nil, in which case no
// per-step trace is emitted.
func New(reg *rules.Registry, logger ports.Logger) *Runner {
	return &Runner{reg: reg, logger: logger}
}

// WithProgress attaches a callback invoked once per non-noop step, after
// the keep-stage skip decision is known and (when not skipped) after the
// step's action has returned successfully. It lets a CLI front end drive
// a progress display without the runner knowing anything about terminals.
func (r *Runner) WithProgress(onStep func(step rules.Step, rule rules.Rule, skipped bool)) *Runner {
	r.onStep = onStep
	return r
}

// Run executes every non-noop step in order. keepStage is the CLI
// --keep-stage value; a value of -1 means the flag was not given. Steps at
// or below keepStage have their action skipped on the assumption that an
// earlier run already produced trustworthy artifacts for that stage.
func (r *Runner) Run(ctx context.Context, steps []rules.Step, keepStage int) error {
	for _, step := range steps {
		if step.IsNoop() {
			continue
		}

		rule, ok := r.reg.Get(step.Name())
		if !ok {
			return xerrors.NewExecutionError(step.Name(), errUnregisteredStep(step.Name()))
		}

		if keepStage >= 0 && step.Stage() <= keepStage {
			r.logf(ctx, "keeping step", step, rule)
			if r.onStep != nil {
				r.onStep(step, rule, true)
			}
			continue
		}

		r.logf(ctx, "executing step", step, rule)
		if err := rule.Run(step); err != nil {
			return xerrors.NewExecutionError(step.Name(), err)
		}
		if r.onStep != nil {
			r.onStep(step, rule, false)
		}
	}
	return nil
}

func (r *Runner) logf(ctx context.Context, msg string, step rules.Step, rule rules.Rule) {
	if r.logger == nil {
		return
	}
	r.logger.Debug(ctx, msg,
		"rule", rule.Name,
		"stage", step.Stage(),
		"host", step.Host(),
		"target", step.Target(),
	)
}

type errUnregisteredStep string

func (e errUnregisteredStep) Error() string {
	return "runner: step enacts unregistered rule " + string(e)
}
