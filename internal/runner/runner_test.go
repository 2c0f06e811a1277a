package runner

import (
	"context"
	"errors"
	"testing"

	"github.com/xbuild/xbuild/internal/domain/rules"
)

func TestRunExecutesInOrder(t *testing.T) {
	reg := rules.NewRegistry()
	var executed []string

	reg.Rule("libstd", "src/libstd", rules.Build).
		RunWith(func(s rules.Step) error { executed = append(executed, "libstd"); return nil }).
		Register()
	reg.Rule("libtest", "src/libtest", rules.Build).
		RunWith(func(s rules.Step) error { executed = append(executed, "libtest"); return nil }).
		Register()

	steps := []rules.Step{
		rules.New("libstd", 2, "A"),
		rules.New("libtest", 2, "A"),
	}

	r := New(reg, nil)
	if err := r.Run(context.Background(), steps, -1); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(executed) != 2 || executed[0] != "libstd" || executed[1] != "libtest" {
		t.Fatalf("expected [libstd libtest], got %v", executed)
	}
}

func TestRunSkipsNoop(t *testing.T) {
	reg := rules.NewRegistry()
	r := New(reg, nil)
	if err := r.Run(context.Background(), []rules.Step{rules.Noop}, -1); err != nil {
		t.Fatalf("Run returned error on noop-only list: %v", err)
	}
}

func TestRunKeepStageSkipsActionAtOrBelowThreshold(t *testing.T) {
	reg := rules.NewRegistry()
	var ran bool
	reg.Rule("librustc", "src/librustc", rules.Build).
		RunWith(func(s rules.Step) error { ran = true; return nil }).
		Register()

	steps := []rules.Step{rules.New("librustc", 1, "A")}
	r := New(reg, nil)

	if err := r.Run(context.Background(), steps, 1); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if ran {
		t.Fatal("expected action to be skipped when step.stage <= keepStage")
	}
}

func TestRunKeepStageDoesNotSkipAboveThreshold(t *testing.T) {
	reg := rules.NewRegistry()
	var ran bool
	reg.Rule("librustc", "src/librustc", rules.Build).
		RunWith(func(s rules.Step) error { ran = true; return nil }).
		Register()

	steps := []rules.Step{rules.New("librustc", 2, "A")}
	r := New(reg, nil)

	if err := r.Run(context.Background(), steps, 1); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !ran {
		t.Fatal("expected action to run when step.stage > keepStage")
	}
}

func TestRunPropagatesActionFailureAsExecutionError(t *testing.T) {
	reg := rules.NewRegistry()
	sentinel := errors.New("boom")
	reg.Rule("llvm", "src/llvm", rules.Build).
		RunWith(func(s rules.Step) error { return sentinel }).
		Register()

	r := New(reg, nil)
	err := r.Run(context.Background(), []rules.Step{rules.New("llvm", 2, "A")}, -1)
	if err == nil {
		t.Fatal("expected error from failing action")
	}
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped error to satisfy errors.Is(sentinel), got %v", err)
	}
}

func TestRunWithProgressReportsEachNonNoopStep(t *testing.T) {
	reg := rules.NewRegistry()
	reg.Rule("libstd", "src/libstd", rules.Build).Register()
	reg.Rule("libtest", "src/libtest", rules.Build).Register()

	var seen []string
	r := New(reg, nil).WithProgress(func(step rules.Step, rule rules.Rule, skipped bool) {
		seen = append(seen, step.Name())
	})

	steps := []rules.Step{rules.Noop, rules.New("libstd", 2, "A"), rules.New("libtest", 1, "A")}
	if err := r.Run(context.Background(), steps, 1); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(seen) != 2 || seen[0] != "libstd" || seen[1] != "libtest" {
		t.Fatalf("expected progress callback for libstd and libtest only, got %v", seen)
	}
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	reg := rules.NewRegistry()
	var secondRan bool
	reg.Rule("first", "first", rules.Build).
		RunWith(func(s rules.Step) error { return errors.New("fail") }).
		Register()
	reg.Rule("second", "second", rules.Build).
		RunWith(func(s rules.Step) error { secondRan = true; return nil }).
		Register()

	r := New(reg, nil)
	steps := []rules.Step{rules.New("first", 2, "A"), rules.New("second", 2, "A")}
	if err := r.Run(context.Background(), steps, -1); err == nil {
		t.Fatal("expected error")
	}
	if secondRan {
		t.Fatal("expected run to stop after first failure")
	}
}
