package planner

import (
	"testing"

	"github.com/xbuild/xbuild/internal/domain/rules"
	"github.com/xbuild/xbuild/internal/ports"
)

// fakeBuild is a minimal ports.Build stand-in transcribed from step.rs's
// own test harness: config.build is always "A"; extra_host/extra_target
// mirror the original test helper's host and target list construction,
// where target defaults to a copy of the host list before extra targets
// are appended.
type fakeBuild struct {
	build   string
	hosts   []string
	targets []string
}

func newFakeBuild(extraHost, extraTarget []string) *fakeBuild {
	hosts := append([]string{"A"}, extraHost...)
	targets := append(append([]string{}, hosts...), extraTarget...)
	return &fakeBuild{build: "A", hosts: hosts, targets: targets}
}

func (b *fakeBuild) BuildTriple() string                    { return b.build }
func (b *fakeBuild) Hosts() []string                        { return b.hosts }
func (b *fakeBuild) Targets() []string                      { return b.targets }
func (b *fakeBuild) ForceUseStage1(ports.Compiler, string) bool { return false }
func (b *fakeBuild) RemoteTested(string) bool               { return false }
func (b *fakeBuild) Docs() bool                             { return true }
func (b *fakeBuild) CompilerDocs() bool                     { return false }
func (b *fakeBuild) CodegenTests() bool                     { return true }
func (b *fakeBuild) Extended() bool                         { return false }
func (b *fakeBuild) RustDistSrc() bool                      { return true }

func distCatalog() *rules.Registry {
	reg := rules.NewRegistry()
	reg.Rule("dist-rustc", "src/librustc", rules.Dist).HostOnly().OnlyHostBuild().IsDefault().Register()
	reg.Rule("dist-std", "src/libstd", rules.Dist).OnlyHostBuild().IsDefault().Register()
	reg.Rule("dist-mingw", rules.PseudoPath, rules.Dist).OnlyHostBuild().IsDefault().Register()
	reg.Rule("dist-src", "src", rules.Dist).HostOnly().OnlyBuild().OnlyHostBuild().IsDefault().Register()
	reg.Rule("dist-docs", "src/doc", rules.Dist).OnlyHostBuild().IsDefault().Register()
	return reg
}

func containsStep(steps []rules.Step, name, host, target string, stage int) bool {
	for _, s := range steps {
		if s.Name() == name && s.Host() == host && s.Target() == target && s.Stage() == stage {
			return true
		}
	}
	return false
}

func TestPlanDistBaseline(t *testing.T) {
	build := newFakeBuild(nil, nil)
	reg := distCatalog()
	plan := New().Plan(reg, build, Request{Kind: rules.Dist})

	for _, s := range plan {
		if s.Stage() != 2 || s.Host() != "A" || s.Target() != "A" {
			t.Fatalf("unexpected step in baseline plan: %+v", s)
		}
	}
	for _, name := range []string{"dist-docs", "dist-mingw", "dist-rustc", "dist-std", "dist-src"} {
		if !containsStep(plan, name, "A", "A", 2) {
			t.Errorf("expected %s at host=A target=A", name)
		}
	}
}

func TestPlanDistWithTargets(t *testing.T) {
	build := newFakeBuild(nil, []string{"B"})
	reg := distCatalog()
	plan := New().Plan(reg, build, Request{Kind: rules.Dist})

	for _, s := range plan {
		if s.Host() != "A" {
			t.Fatalf("expected every step to have host=A, got %+v", s)
		}
	}
	for _, name := range []string{"dist-docs", "dist-mingw", "dist-rustc", "dist-std", "dist-src"} {
		if !containsStep(plan, name, "A", "A", 2) {
			t.Errorf("expected %s at target=A", name)
		}
	}
	if !containsStep(plan, "dist-docs", "A", "B", 2) {
		t.Error("expected dist-docs at target=B")
	}
	if !containsStep(plan, "dist-mingw", "A", "B", 2) {
		t.Error("expected dist-mingw at target=B")
	}
	if !containsStep(plan, "dist-std", "A", "B", 2) {
		t.Error("expected dist-std at target=B")
	}
	if containsStep(plan, "dist-rustc", "A", "B", 2) {
		t.Error("did not expect dist-rustc at target=B (build-only)")
	}
	if containsStep(plan, "dist-src", "A", "B", 2) {
		t.Error("did not expect dist-src at target=B (build-only)")
	}
}

func TestPlanDistWithHosts(t *testing.T) {
	build := newFakeBuild([]string{"B"}, nil)
	reg := distCatalog()
	plan := New().Plan(reg, build, Request{Kind: rules.Dist})

	for _, s := range plan {
		if s.Host() == "B" {
			t.Fatalf("dist rules are only_host_build, no step should have host=B: %+v", s)
		}
	}
	for _, name := range []string{"dist-docs", "dist-mingw", "dist-rustc", "dist-std"} {
		if !containsStep(plan, name, "A", "B", 2) {
			t.Errorf("expected %s at target=B (B is now a configured host)", name)
		}
	}
	if containsStep(plan, "dist-src", "A", "B", 2) {
		t.Error("did not expect dist-src at target=B (build-only)")
	}
}

func TestPlanDistWithTargetsAndHosts(t *testing.T) {
	build := newFakeBuild([]string{"B"}, []string{"C"})
	reg := distCatalog()
	plan := New().Plan(reg, build, Request{Kind: rules.Dist})

	for _, s := range plan {
		if s.Host() == "B" || s.Host() == "C" {
			t.Fatalf("no step should have host=B or host=C: %+v", s)
		}
	}
	if containsStep(plan, "dist-rustc", "A", "C", 2) {
		t.Error("dist-rustc should not be defaulted for non-host target C")
	}
	if containsStep(plan, "dist-src", "A", "C", 2) {
		t.Error("dist-src should not be defaulted for non-host target C")
	}
	if !containsStep(plan, "dist-rustc", "A", "B", 2) {
		t.Error("dist-rustc should exist for target B (B is a configured host)")
	}
}

func TestPlanBuildLibrustcAndLibtest(t *testing.T) {
	reg := rules.NewRegistry()
	reg.Rule("libtest", "src/libtest", rules.Build).IsDefault().Register()
	reg.Rule("librustc", "src/librustc", rules.Build).HostOnly().IsDefault().Register()

	build := newFakeBuild([]string{"B"}, []string{"C"})
	plan := New().Plan(reg, build, Request{Kind: rules.Build})

	for _, h := range []string{"A", "B"} {
		for _, tt := range []string{"A", "B"} {
			if !containsStep(plan, "librustc", h, tt, 2) {
				t.Errorf("expected librustc host=%s target=%s", h, tt)
			}
		}
		if containsStep(plan, "librustc", h, "C", 2) {
			t.Errorf("did not expect librustc host=%s target=C", h)
		}
	}

	for _, h := range []string{"A", "B"} {
		for _, tt := range []string{"A", "B", "C"} {
			if !containsStep(plan, "libtest", h, tt, 2) {
				t.Errorf("expected libtest host=%s target=%s", h, tt)
			}
		}
	}
}

func TestPlanNoPathFiltersUsesDefaultFlag(t *testing.T) {
	reg := rules.NewRegistry()
	reg.Rule("std", "src/libstd", rules.Build).IsDefault().Register()
	reg.Rule("tidy", "src/tools/tidy", rules.Build).Register() // not default

	build := newFakeBuild(nil, nil)
	plan := New().Plan(reg, build, Request{Kind: rules.Build})

	if !containsStep(plan, "std", "A", "A", 2) {
		t.Error("expected default rule std in plan")
	}
	if containsStep(plan, "tidy", "A", "A", 2) {
		t.Error("did not expect non-default rule tidy without a path filter")
	}
}

func TestPlanPathFilterSelectsBySuffixAndPriority(t *testing.T) {
	reg := rules.NewRegistry()
	reg.Rule("std", "src/libstd", rules.Build).Register()
	reg.Rule("test-crate", "src/libtest", rules.Build).Register()

	build := newFakeBuild(nil, nil)
	plan := New().Plan(reg, build, Request{
		Kind:        rules.Build,
		PathFilters: []string{"./x.py build src/libtest", "./x.py build src/libstd"},
	})

	if len(plan) != 2 {
		t.Fatalf("expected exactly 2 steps, got %d: %+v", len(plan), plan)
	}
	if plan[0].Name() != "test-crate" || plan[1].Name() != "std" {
		t.Errorf("expected priority order [test-crate, std], got [%s, %s]", plan[0].Name(), plan[1].Name())
	}
}

func TestPlanStageOverride(t *testing.T) {
	reg := rules.NewRegistry()
	reg.Rule("std", "src/libstd", rules.Build).IsDefault().Register()

	build := newFakeBuild(nil, nil)
	plan := New().Plan(reg, build, Request{Kind: rules.Build, Stage: 1})

	if len(plan) != 1 || plan[0].Stage() != 1 {
		t.Fatalf("expected single step at stage 1, got %+v", plan)
	}
}
