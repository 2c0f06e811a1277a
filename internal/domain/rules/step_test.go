package rules

import "testing"

func TestStepBuildersReturnCopies(t *testing.T) {
	base := New("llvm", 2, "x86_64-unknown-linux-gnu")
	derived := base.WithStage(1).WithTarget("arm-unknown-linux-gnueabi")

	if base.Stage() != 2 || base.Target() != "x86_64-unknown-linux-gnu" {
		t.Fatalf("base step was mutated: %+v", base)
	}
	if derived.Stage() != 1 || derived.Target() != "arm-unknown-linux-gnueabi" {
		t.Fatalf("derived step wrong: %+v", derived)
	}
	if derived.Host() != base.Host() {
		t.Fatalf("WithTarget should not affect host: %+v", derived)
	}
}

func TestStepEqualityIsStructural(t *testing.T) {
	a := New("rustc", 2, "x86_64-unknown-linux-gnu")
	b := New("rustc", 2, "x86_64-unknown-linux-gnu")
	if a != b {
		t.Fatalf("expected structurally equal steps to compare equal")
	}
}

func TestNoopSentinel(t *testing.T) {
	if !Noop.IsNoop() {
		t.Fatalf("Noop.IsNoop() = false, want true")
	}
	if Noop.Name() != "" || Noop.Stage() != 0 || Noop.Host() != "" || Noop.Target() != "" {
		t.Fatalf("Noop has non-zero fields: %+v", Noop)
	}
}

func TestStepCompilerDerivesStageAndHost(t *testing.T) {
	s := New("rustc", 1, "x86_64-unknown-linux-gnu").WithTarget("arm-unknown-linux-gnueabi")
	c := s.Compiler()
	if c.Stage != 1 || c.Host != "x86_64-unknown-linux-gnu" {
		t.Fatalf("Compiler() = %+v, want stage=1 host=x86_64-unknown-linux-gnu", c)
	}
}
