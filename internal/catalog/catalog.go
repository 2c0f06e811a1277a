// Package catalog populates a rules.Registry with the full static rule
// set the orchestrator plans and runs against. It is the only place rule
// dependencies are written; everything else treats the registry as an
// opaque, already-verified fact.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/xbuild/xbuild/internal/config"
	"github.com/xbuild/xbuild/internal/domain/rules"
	"github.com/xbuild/xbuild/internal/ports"
)

// Populate registers every rule the orchestrator knows about: toolchain
// bootstrap, sysroot linkage, per-crate build/test/bench/doc rules derived
// from the crate catalog, test suites, build tools, documentation, dist,
// and install. cfg supplies the crate catalog the per-crate families are
// generated from; build supplies the predicates dependency functions
// close over; actions is invoked by every rule's Run.
func Populate(reg *rules.Registry, build ports.Build, cfg *config.Config, actions ports.Actions) error {
	registerBootstrap(reg, build, actions)
	registerSysroot(reg, build, actions)

	if err := registerCrateFamilies(reg, cfg, actions); err != nil {
		return err
	}

	registerTestSuites(reg, build, actions)
	registerTools(reg, build, actions)
	registerDocs(reg, build, cfg, actions)
	registerDist(reg, build, actions)
	registerInstall(reg, actions)

	return nil
}

func registerBootstrap(reg *rules.Registry, build ports.Build, a ports.Actions) {
	reg.Rule("llvm", "src/llvm", rules.Build).
		IsDefault().
		DependsOn(func(s rules.Step) rules.Step {
			if s.Target() == build.BuildTriple() {
				return rules.Noop
			}
			return s.WithTarget(build.BuildTriple())
		}).
		RunWith(func(s rules.Step) error { return a.LLVM(context.Background(), s.Target()) }).
		Register()

	reg.Rule("rustc", "src/rustc", rules.Build).
		DependsOn(func(s rules.Step) rules.Step {
			if s.Stage() == 0 {
				return rules.Noop
			}
			return s.WithStage(s.Stage() - 1).WithHost(build.BuildTriple()).WithTarget(build.BuildTriple())
		}).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("llvm").WithTarget(s.Host()) }).
		RunWith(func(s rules.Step) error { return a.AssembleRustc(context.Background(), s.Stage(), s.Target()) }).
		Register()

	reg.Rule("create-sysroot", rules.PseudoPath, rules.Build).
		RunWith(func(s rules.Step) error { return a.CreateSysroot(context.Background(), s.Compiler()) }).
		Register()
}

// crateLink mirrors the original crate_rule closure factory: a pseudo-rule
// whose dependency and action dispatch three ways depending on whether the
// build configuration forces stage-1 reuse, the step's host is the build
// triple, or the step targets a foreign host.
func crateLink(reg *rules.Registry, build ports.Build, name, buildDep string, link func(ctx context.Context, buildCompiler, hostCompiler ports.Compiler, target string) error) *rules.Builder {
	return reg.Rule(name, rules.PseudoPath, rules.Build).
		DependsOn(func(s rules.Step) rules.Step {
			switch {
			case build.ForceUseStage1(s.Compiler(), s.Target()):
				return s.WithHost(build.BuildTriple()).WithStage(1)
			case s.Host() == build.BuildTriple():
				return s.WithName(buildDep)
			default:
				return s.WithHost(build.BuildTriple())
			}
		}).
		RunWith(func(s rules.Step) error {
			ctx := context.Background()
			switch {
			case build.ForceUseStage1(s.Compiler(), s.Target()):
				buildCompiler := ports.Compiler{Stage: 1, Host: build.BuildTriple()}
				return link(ctx, buildCompiler, s.Compiler(), s.Target())
			case s.Host() == build.BuildTriple():
				return link(ctx, s.Compiler(), s.Compiler(), s.Target())
			default:
				buildCompiler := ports.Compiler{Stage: s.Stage(), Host: build.BuildTriple()}
				return link(ctx, buildCompiler, s.Compiler(), s.Target())
			}
		})
}

func registerSysroot(reg *rules.Registry, build ports.Build, a ports.Actions) {
	crateLink(reg, build, "libstd-link", "build-crate-std", a.StdLink).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("startup-objects") }).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("create-sysroot").WithTarget(s.Host()) }).
		Register()
	crateLink(reg, build, "libtest-link", "build-crate-test", a.TestLink).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("libstd-link") }).
		Register()
	crateLink(reg, build, "librustc-link", "build-crate-rustc-main", a.RustcLink).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("libtest-link") }).
		Register()

	reg.Rule("libstd", rules.PseudoPath, rules.Build).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("rustc").WithTarget(s.Host()) }).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("libstd-link") }).
		Register()
	reg.Rule("libtest", rules.PseudoPath, rules.Build).
		IsDefault().
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("libstd") }).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("libtest-link") }).
		Register()
	reg.Rule("librustc", rules.PseudoPath, rules.Build).
		IsDefault().
		HostOnly().
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("libtest") }).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("librustc-link") }).
		Register()

	reg.Rule("may-run-build-script", rules.PseudoPath, rules.Build).
		DependsOn(func(s rules.Step) rules.Step {
			return s.WithName("libstd-link").WithHost(build.BuildTriple()).WithTarget(build.BuildTriple())
		}).
		Register()
	reg.Rule("startup-objects", "src/rtstartup", rules.Build).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("create-sysroot").WithTarget(s.Host()) }).
		RunWith(func(s rules.Step) error {
			return a.BuildStartupObjects(context.Background(), s.Compiler(), s.Target())
		}).
		Register()
}

func registerCrateFamilies(reg *rules.Registry, cfg *config.Config, a ports.Actions) error {
	std, err := config.Traverse(cfg.Crates, "std")
	if err != nil {
		return err
	}
	test, err := config.Traverse(cfg.Crates, "test")
	if err != nil {
		return err
	}
	rustcMain, err := config.Traverse(cfg.Crates, "rustc-main")
	if err != nil {
		return err
	}

	for _, krate := range std {
		krate := krate
		reg.Rule(krate.BuildStep, krate.Path, rules.Build).
			DependsOn(func(s rules.Step) rules.Step { return s.WithName("startup-objects") }).
			DependsOn(func(s rules.Step) rules.Step { return s.WithName("rustc").WithHost(s.Host()) }).
			RunWith(func(s rules.Step) error { return a.Std(context.Background(), s.Target(), s.Compiler()) }).
			Register()
		reg.Rule(krate.TestStep, krate.Path, rules.Test).
			DependsOn(func(s rules.Step) rules.Step { return s.WithName("libtest") }).
			DependsOn(func(s rules.Step) rules.Step { return s.WithName("remote-copy-libs") }).
			RunWith(func(s rules.Step) error {
				return a.Krate(context.Background(), s.Compiler(), s.Target(), ports.ModeLibstd, ports.TestKindTest, krate.Name)
			}).
			Register()
		reg.Rule(krate.BenchStep, krate.Path, rules.Bench).
			DependsOn(func(s rules.Step) rules.Step { return s.WithName("libtest") }).
			DependsOn(func(s rules.Step) rules.Step { return s.WithName("remote-copy-libs") }).
			RunWith(func(s rules.Step) error {
				return a.Krate(context.Background(), s.Compiler(), s.Target(), ports.ModeLibstd, ports.TestKindBench, krate.Name)
			}).
			Register()
	}
	reg.Rule("check-std-all", rules.PseudoPath, rules.Test).
		IsDefault().
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("libtest") }).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("remote-copy-libs") }).
		RunWith(func(s rules.Step) error {
			return a.Krate(context.Background(), s.Compiler(), s.Target(), ports.ModeLibstd, ports.TestKindTest, "")
		}).
		Register()
	reg.Rule("bench-std-all", rules.PseudoPath, rules.Bench).
		IsDefault().
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("libtest") }).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("remote-copy-libs") }).
		RunWith(func(s rules.Step) error {
			return a.Krate(context.Background(), s.Compiler(), s.Target(), ports.ModeLibstd, ports.TestKindBench, "")
		}).
		Register()

	for _, krate := range test {
		krate := krate
		reg.Rule(krate.BuildStep, krate.Path, rules.Build).
			DependsOn(func(s rules.Step) rules.Step { return s.WithName("libstd-link") }).
			RunWith(func(s rules.Step) error { return a.Test(context.Background(), s.Target(), s.Compiler()) }).
			Register()
		reg.Rule(krate.TestStep, krate.Path, rules.Test).
			DependsOn(func(s rules.Step) rules.Step { return s.WithName("libtest") }).
			DependsOn(func(s rules.Step) rules.Step { return s.WithName("remote-copy-libs") }).
			RunWith(func(s rules.Step) error {
				return a.Krate(context.Background(), s.Compiler(), s.Target(), ports.ModeLibtest, ports.TestKindTest, krate.Name)
			}).
			Register()
	}
	reg.Rule("check-test-all", rules.PseudoPath, rules.Test).
		IsDefault().
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("libtest") }).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("remote-copy-libs") }).
		RunWith(func(s rules.Step) error {
			return a.Krate(context.Background(), s.Compiler(), s.Target(), ports.ModeLibtest, ports.TestKindTest, "")
		}).
		Register()

	for _, krate := range rustcMain {
		krate := krate
		reg.Rule(krate.BuildStep, krate.Path, rules.Build).
			DependsOn(func(s rules.Step) rules.Step { return s.WithName("libtest-link") }).
			DependsOn(func(s rules.Step) rules.Step { return s.WithName("llvm").WithHost(s.Host()).WithStage(0) }).
			DependsOn(func(s rules.Step) rules.Step { return s.WithName("may-run-build-script") }).
			RunWith(func(s rules.Step) error { return a.Rustc(context.Background(), s.Target(), s.Compiler()) }).
			Register()
		reg.Rule(krate.TestStep, krate.Path, rules.Test).
			HostOnly().
			DependsOn(func(s rules.Step) rules.Step { return s.WithName("librustc") }).
			DependsOn(func(s rules.Step) rules.Step { return s.WithName("remote-copy-libs") }).
			RunWith(func(s rules.Step) error {
				return a.Krate(context.Background(), s.Compiler(), s.Target(), ports.ModeLibrustc, ports.TestKindTest, krate.Name)
			}).
			Register()
	}
	reg.Rule("check-rustc-all", rules.PseudoPath, rules.Test).
		IsDefault().
		HostOnly().
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("librustc") }).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("remote-copy-libs") }).
		RunWith(func(s rules.Step) error {
			return a.Krate(context.Background(), s.Compiler(), s.Target(), ports.ModeLibrustc, ports.TestKindTest, "")
		}).
		Register()

	return nil
}

type suite struct {
	name, path, mode, dir string
}

func registerTestSuites(reg *rules.Registry, build ports.Build, a ports.Actions) {
	for _, s := range []suite{
		{"check-ui", "src/test/ui", "ui", "ui"},
		{"check-rpass", "src/test/run-pass", "run-pass", "run-pass"},
		{"check-cfail", "src/test/compile-fail", "compile-fail", "compile-fail"},
		{"check-pfail", "src/test/parse-fail", "parse-fail", "parse-fail"},
		{"check-rfail", "src/test/run-fail", "run-fail", "run-fail"},
		{"check-rpass-valgrind", "src/test/run-pass-valgrind", "run-pass-valgrind", "run-pass-valgrind"},
		{"check-mir-opt", "src/test/mir-opt", "mir-opt", "mir-opt"},
		{"check-codegen-units", "src/test/codegen-units", "codegen-units", "codegen-units"},
		{"check-incremental", "src/test/incremental", "incremental", "incremental"},
	} {
		registerCompiletestSuite(reg, a, s, false)
	}
	if build.CodegenTests() {
		registerCompiletestSuite(reg, a, suite{"check-codegen", "src/test/codegen", "codegen", "codegen"}, false)
	}

	for _, s := range []suite{
		{"check-ui-full", "src/test/ui-fulldeps", "ui", "ui-fulldeps"},
		{"check-rpass-full", "src/test/run-pass-fulldeps", "run-pass", "run-pass-fulldeps"},
		{"check-rfail-full", "src/test/run-fail-fulldeps", "run-fail", "run-fail-fulldeps"},
		{"check-cfail-full", "src/test/compile-fail-fulldeps", "compile-fail", "compile-fail-fulldeps"},
		{"check-rmake", "src/test/run-make", "run-make", "run-make"},
		{"check-rustdoc", "src/test/rustdoc", "rustdoc", "rustdoc"},
		{"check-pretty", "src/test/pretty", "pretty", "pretty"},
	} {
		registerCompiletestSuite(reg, a, s, true)
	}

	reg.Rule("check-debuginfo-gdb", "src/test/debuginfo-gdb", rules.Test).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("libtest") }).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("tool-compiletest").WithTarget(s.Host()).WithStage(0) }).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("test-helpers") }).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("remote-copy-libs") }).
		RunWith(func(s rules.Step) error {
			return a.Compiletest(context.Background(), s.Compiler(), s.Target(), "debuginfo-gdb", "debuginfo")
		}).
		Register()
	reg.Rule("check-debuginfo-lldb", "src/test/debuginfo-lldb", rules.Test).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("libtest") }).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("tool-compiletest").WithTarget(s.Host()).WithStage(0) }).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("test-helpers") }).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("remote-copy-libs") }).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("dist-debugger-scripts").WithTarget(s.Host()) }).
		RunWith(func(s rules.Step) error {
			return a.Compiletest(context.Background(), s.Compiler(), s.Target(), "debuginfo-lldb", "debuginfo")
		}).
		Register()
	reg.Rule("check-debuginfo", "src/test/debuginfo", rules.Test).
		IsDefault().
		DependsOn(func(s rules.Step) rules.Step {
			if strings.Contains(s.Target(), "apple") {
				return s.WithName("check-debuginfo-lldb")
			}
			return s.WithName("check-debuginfo-gdb")
		}).
		Register()

	reg.Rule("check-linkchecker", "src/tools/linkchecker", rules.Test).
		IsDefault().
		HostOnly().
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("tool-linkchecker").WithStage(0) }).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName(rules.DefaultFanOutPrefix + "doc").WithTarget(s.Host()) }).
		RunWith(func(s rules.Step) error { return a.Linkcheck(context.Background(), s.Target()) }).
		Register()
	reg.Rule("check-cargotest", "src/tools/cargotest", rules.Test).
		HostOnly().
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("tool-cargotest").WithStage(0) }).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("librustc") }).
		RunWith(func(s rules.Step) error { return a.Cargotest(context.Background(), s.Stage(), s.Target()) }).
		Register()
	reg.Rule("check-cargo", "cargo", rules.Test).
		HostOnly().
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("tool-cargo") }).
		RunWith(func(s rules.Step) error { return a.Cargo(context.Background(), s.Stage(), s.Target()) }).
		Register()
	reg.Rule("check-tidy", "src/tools/tidy", rules.Test).
		IsDefault().
		HostOnly().
		OnlyBuild().
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("tool-tidy").WithStage(0) }).
		RunWith(func(s rules.Step) error { return a.Tidy(context.Background(), s.Target()) }).
		Register()
	reg.Rule("check-error-index", "src/tools/error_index_generator", rules.Test).
		IsDefault().
		HostOnly().
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("libstd") }).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("tool-error-index").WithHost(s.Host()).WithStage(0) }).
		RunWith(func(s rules.Step) error { return a.ErrorIndex(context.Background(), s.Compiler()) }).
		Register()
	reg.Rule("check-docs", "src/doc", rules.Test).
		IsDefault().
		HostOnly().
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("libtest") }).
		RunWith(func(s rules.Step) error { return a.Docs(context.Background(), s.Compiler()) }).
		Register()
	reg.Rule("check-distcheck", "distcheck", rules.Test).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("dist-plain-source-tarball") }).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("dist-src") }).
		RunWith(func(s rules.Step) error { return a.Distcheck(context.Background()) }).
		Register()
	reg.Rule("check-bootstrap", "src/bootstrap", rules.Test).
		IsDefault().
		RunWith(func(s rules.Step) error { return a.Bootstrap(context.Background()) }).
		Register()

	reg.Rule("test-helpers", "src/rt/rust_test_helpers.c", rules.Build).
		RunWith(func(s rules.Step) error { return a.TestHelpers(context.Background(), s.Target()) }).
		Register()
	reg.Rule("remote-copy-libs", rules.PseudoPath, rules.Build).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("libtest") }).
		DependsOn(func(s rules.Step) rules.Step {
			if !build.RemoteTested(s.Target()) {
				return rules.Noop
			}
			return s.WithName("tool-remote-test-client").WithStage(0).WithHost(build.BuildTriple()).WithTarget(build.BuildTriple())
		}).
		DependsOn(func(s rules.Step) rules.Step {
			if !build.RemoteTested(s.Target()) {
				return rules.Noop
			}
			return s.WithName("tool-remote-test-server").WithStage(0).WithTarget(s.Target())
		}).
		RunWith(func(s rules.Step) error { return a.RemoteCopyLibs(context.Background(), s.Compiler(), s.Target()) }).
		Register()
}

// tool lists the build tools generated from a shared template: each
// depends on maybe-clean-tools and is soft-ordered after the *-tool rule
// named in its entry, when a step of that rule is in the graph.
type tool struct {
	name, path, after string
}

func registerTools(reg *rules.Registry, build ports.Build, a ports.Actions) {
	reg.Rule("maybe-clean-tools", rules.PseudoPath, rules.Build).
		After("librustc-tool").
		After("libtest-tool").
		After("libstd-tool").
		RunWith(func(s rules.Step) error { return a.MaybeCleanTools(context.Background(), s.Stage(), s.Target(), ports.ModeLibstd) }).
		Register()

	for _, t := range []tool{
		{"tool-rustbook", "src/tools/rustbook", "librustc-tool"},
		{"tool-error-index", "src/tools/error_index_generator", "librustc-tool"},
		{"tool-tidy", "src/tools/tidy", "libstd-tool"},
		{"tool-linkchecker", "src/tools/linkchecker", "libstd-tool"},
		{"tool-cargotest", "src/tools/cargotest", "libstd-tool"},
		{"tool-compiletest", "src/tools/compiletest", "libtest-tool"},
		{"tool-build-manifest", "src/tools/build-manifest", "libstd-tool"},
		{"tool-remote-test-server", "src/tools/remote-test-server", "libstd-tool"},
		{"tool-remote-test-client", "src/tools/remote-test-client", "libstd-tool"},
		{"tool-rust-installer", "src/tools/rust-installer", "libstd-tool"},
	} {
		t := t
		reg.Rule(t.name, t.path, rules.Build).
			After(t.after).
			DependsOn(func(s rules.Step) rules.Step { return s.WithName("maybe-clean-tools") }).
			RunWith(func(s rules.Step) error { return a.Tool(context.Background(), s.Stage(), s.Target(), t.name) }).
			Register()
	}

	reg.Rule("openssl", rules.PseudoPath, rules.Build).
		RunWith(func(s rules.Step) error { return a.Openssl(context.Background(), s.Target()) }).
		Register()

	// tool-cargo and tool-rls carry three things the generic tool table
	// doesn't: they run on the host only, default on when extended builds
	// are requested, and they link against openssl and librustc's
	// proc-macro crate rather than just libtest/libstd.
	registerHostTool(reg, build, a, "tool-cargo", "src/tools/cargo", "libtest-tool")
	registerHostTool(reg, build, a, "tool-rls", "src/tools/rls", "librustc-tool")
}

func registerHostTool(reg *rules.Registry, build ports.Build, a ports.Actions, name, path, after string) {
	b := reg.Rule(name, path, rules.Build).
		After(after).
		HostOnly().
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("maybe-clean-tools") }).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("openssl").WithStage(0).WithHost(s.Target()) }).
		DependsOn(func(s rules.Step) rules.Step {
			return s.WithName("librustc-link").WithHost(build.BuildTriple()).WithTarget(build.BuildTriple())
		}).
		RunWith(func(s rules.Step) error { return a.Tool(context.Background(), s.Stage(), s.Target(), name) })
	if build.Extended() {
		b = b.IsDefault()
	}
	b.Register()
}

func registerDocs(reg *rules.Registry, build ports.Build, cfg *config.Config, a ports.Actions) {
	reg.Rule("doc-book", "src/doc/book", rules.Doc).
		IsDefault().
		RunWith(func(s rules.Step) error { return a.DocBook(context.Background(), s.Target()) }).
		Register()
	reg.Rule("doc-nomicon", "src/doc/nomicon", rules.Doc).
		IsDefault().
		RunWith(func(s rules.Step) error { return a.DocRustbook(context.Background(), s.Target(), "nomicon") }).
		Register()
	reg.Rule("doc-reference", "src/doc/reference", rules.Doc).
		IsDefault().
		RunWith(func(s rules.Step) error { return a.DocRustbook(context.Background(), s.Target(), "reference") }).
		Register()
	reg.Rule("doc-unstable-book", "src/doc/unstable-book", rules.Doc).
		IsDefault().
		RunWith(func(s rules.Step) error { return a.DocRustbook(context.Background(), s.Target(), "unstable-book") }).
		Register()
	reg.Rule("doc-standalone", "src/doc", rules.Doc).
		IsDefault().
		RunWith(func(s rules.Step) error { return a.DocStandalone(context.Background(), s.Target()) }).
		Register()
	reg.Rule("doc-error-index", "src/tools/error_index_generator", rules.Doc).
		IsDefault().
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("tool-error-index").WithStage(0) }).
		RunWith(func(s rules.Step) error { return a.DocErrorIndex(context.Background(), s.Target()) }).
		Register()

	std, _ := config.Traverse(cfg.Crates, "std")
	for _, krate := range std {
		krate := krate
		reg.Rule(krate.DocStep, krate.Path, rules.Doc).
			IsDefault().
			DependsOn(func(s rules.Step) rules.Step { return s.WithName("libstd") }).
			RunWith(func(s rules.Step) error { return a.DocStd(context.Background(), s.Stage(), s.Target()) }).
			Register()
	}
	test, _ := config.Traverse(cfg.Crates, "test")
	for _, krate := range test {
		krate := krate
		reg.Rule(krate.DocStep, krate.Path, rules.Doc).
			IsDefault().
			DependsOn(func(s rules.Step) rules.Step { return s.WithName("libtest") }).
			RunWith(func(s rules.Step) error { return a.DocTest(context.Background(), s.Stage(), s.Target()) }).
			Register()
	}
	rustcMain, _ := config.Traverse(cfg.Crates, "rustc-main")
	for _, krate := range rustcMain {
		krate := krate
		b := reg.Rule(krate.DocStep, krate.Path, rules.Doc).
			HostOnly().
			DependsOn(func(s rules.Step) rules.Step { return s.WithName("librustc") }).
			RunWith(func(s rules.Step) error { return a.DocRustc(context.Background(), s.Stage(), s.Target()) })
		if build.CompilerDocs() {
			b = b.IsDefault()
		}
		b.Register()
	}
}

func registerDist(reg *rules.Registry, build ports.Build, a ports.Actions) {
	anchor := func(b *rules.Builder) *rules.Builder {
		return b.DependsOn(func(s rules.Step) rules.Step {
			return s.WithName("tool-rust-installer").WithStage(0).WithHost(build.BuildTriple()).WithTarget(build.BuildTriple())
		})
	}

	anchor(reg.Rule("dist-rustc", rules.PseudoPath, rules.Dist).IsDefault().HostOnly().OnlyHostBuild()).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("librustc") }).
		RunWith(func(s rules.Step) error { return a.DistRustc(context.Background(), s.Stage(), s.Target()) }).
		Register()
	anchor(reg.Rule("dist-std", rules.PseudoPath, rules.Dist).IsDefault().OnlyHostBuild()).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("libstd") }).
		RunWith(func(s rules.Step) error { return a.DistStd(context.Background(), s.Compiler(), s.Target()) }).
		Register()
	anchor(reg.Rule("dist-mingw", rules.PseudoPath, rules.Dist).IsDefault().OnlyHostBuild()).
		RunWith(func(s rules.Step) error { return a.DistMingw(context.Background(), s.Target()) }).
		Register()
	anchor(reg.Rule("dist-plain-source-tarball", rules.PseudoPath, rules.Dist).OnlyBuild().OnlyHostBuild().HostOnly()).
		RunWith(func(s rules.Step) error { return a.DistPlainSourceTarball(context.Background()) }).
		Register()

	src := anchor(reg.Rule("dist-src", rules.PseudoPath, rules.Dist).HostOnly().OnlyBuild().OnlyHostBuild())
	if build.RustDistSrc() {
		src = src.IsDefault()
	}
	src.RunWith(func(s rules.Step) error { return a.DistRustSrc(context.Background()) }).Register()

	anchor(reg.Rule("dist-docs", rules.PseudoPath, rules.Dist).IsDefault().OnlyHostBuild()).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName(rules.DefaultFanOutPrefix + "doc") }).
		RunWith(func(s rules.Step) error { return a.DistDocs(context.Background(), s.Stage(), s.Target()) }).
		Register()
	anchor(reg.Rule("dist-analysis", rules.PseudoPath, rules.Dist).OnlyHostBuild()).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("dist-std") }).
		RunWith(func(s rules.Step) error { return a.DistAnalysis(context.Background(), s.Compiler(), s.Target()) }).
		Register()
	anchor(reg.Rule("dist-rls", rules.PseudoPath, rules.Dist).OnlyHostBuild()).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("tool-rls") }).
		RunWith(func(s rules.Step) error { return a.DistRls(context.Background(), s.Stage(), s.Target()) }).
		Register()
	anchor(reg.Rule("dist-cargo", rules.PseudoPath, rules.Dist).OnlyHostBuild()).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("tool-cargo") }).
		RunWith(func(s rules.Step) error { return a.DistCargo(context.Background(), s.Stage(), s.Target()) }).
		Register()

	extended := reg.Rule("dist-extended", rules.PseudoPath, rules.Dist).HostOnly().OnlyHostBuild().
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("dist-std") }).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("dist-rustc") }).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("dist-mingw") }).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("dist-docs") }).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("dist-cargo") }).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("dist-rls") }).
		RunWith(func(s rules.Step) error { return a.DistExtended(context.Background(), s.Stage(), s.Target()) })
	if build.Extended() {
		extended = extended.IsDefault()
	}
	extended.Register()

	reg.Rule("dist-sign", rules.PseudoPath, rules.Dist).
		RunWith(func(s rules.Step) error { return a.DistHashAndSign(context.Background()) }).
		Register()

	anchor(reg.Rule("dist-debugger-scripts", rules.PseudoPath, rules.Dist).OnlyHostBuild()).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("dist-std") }).
		RunWith(func(s rules.Step) error {
			sysroot := fmt.Sprintf("stage%d/%s", s.Stage(), s.Target())
			return a.DistDebuggerScripts(context.Background(), sysroot, s.Target())
		}).
		Register()
}

func registerInstall(reg *rules.Registry, a ports.Actions) {
	reg.Rule("install-docs", rules.PseudoPath, rules.Install).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("dist-docs") }).
		RunWith(func(s rules.Step) error { return a.InstallDocs(context.Background(), s.Stage(), s.Target()) }).
		Register()
	reg.Rule("install-std", rules.PseudoPath, rules.Install).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("dist-std") }).
		RunWith(func(s rules.Step) error { return a.InstallStd(context.Background(), s.Stage()) }).
		Register()
	reg.Rule("install-cargo", rules.PseudoPath, rules.Install).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("dist-cargo") }).
		RunWith(func(s rules.Step) error { return a.InstallCargo(context.Background(), s.Stage(), s.Target()) }).
		Register()
	reg.Rule("install-rls", rules.PseudoPath, rules.Install).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("dist-rls") }).
		RunWith(func(s rules.Step) error { return a.InstallRls(context.Background(), s.Stage(), s.Target()) }).
		Register()
	reg.Rule("install-analysis", rules.PseudoPath, rules.Install).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("dist-analysis") }).
		RunWith(func(s rules.Step) error { return a.InstallAnalysis(context.Background(), s.Stage(), s.Target()) }).
		Register()
	reg.Rule("install-src", rules.PseudoPath, rules.Install).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("dist-src") }).
		RunWith(func(s rules.Step) error { return a.InstallSrc(context.Background(), s.Stage()) }).
		Register()
	reg.Rule("install-rustc", rules.PseudoPath, rules.Install).
		DependsOn(func(s rules.Step) rules.Step { return s.WithName("dist-rustc") }).
		RunWith(func(s rules.Step) error { return a.InstallRustc(context.Background(), s.Stage(), s.Target()) }).
		Register()
}

func registerCompiletestSuite(reg *rules.Registry, a ports.Actions, s suite, hostOnly bool) {
	b := reg.Rule(s.name, s.path, rules.Test).
		DependsOn(func(step rules.Step) rules.Step {
			if hostOnly {
				return step.WithName("librustc")
			}
			return step.WithName("libtest")
		}).
		DependsOn(func(step rules.Step) rules.Step { return step.WithName("tool-compiletest").WithTarget(step.Host()).WithStage(0) }).
		DependsOn(func(step rules.Step) rules.Step { return step.WithName("test-helpers") }).
		DependsOn(func(step rules.Step) rules.Step { return step.WithName("remote-copy-libs") })
	if s.mode != "pretty" {
		b = b.IsDefault()
	}
	if hostOnly {
		b = b.HostOnly()
	}
	mode, dir := s.mode, s.dir
	b.RunWith(func(step rules.Step) error {
		return a.Compiletest(context.Background(), step.Compiler(), step.Target(), mode, dir)
	})
	b.Register()
}
