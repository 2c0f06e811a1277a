// Package actions implements ports.Actions by invoking real, observable
// side effects scoped to the orchestrator's own module: Go analogues of
// the steps a native toolchain bootstrap performs (build/vet/test) run
// via os/exec, and steps with no direct Go analogue (assembling an LLVM
// toolchain, writing a dist tarball, signing artifacts) are logged at
// debug level so a run is traceable even though nothing is spawned for
// them.
package actions

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/xbuild/xbuild/internal/ports"
)

// Command abstracts a single invocation so tests can substitute fakes
// without depending on *exec.Cmd directly.
type Command interface {
	Run() error
	SetStdout(w io.Writer)
	SetStderr(w io.Writer)
}

// Commander abstracts command construction for testability.
type Commander interface {
	CommandContext(ctx context.Context, name string, args ...string) Command
}

type execCommander struct{}

func (execCommander) CommandContext(ctx context.Context, name string, args ...string) Command {
	return &cmdWrapper{cmd: exec.CommandContext(ctx, name, args...)} //nolint:gosec // name/args are fixed by this package
}

type cmdWrapper struct {
	cmd *exec.Cmd
}

func (c *cmdWrapper) Run() error            { return c.cmd.Run() }
func (c *cmdWrapper) SetStdout(w io.Writer) { c.cmd.Stdout = w }
func (c *cmdWrapper) SetStderr(w io.Writer) { c.cmd.Stderr = w }

// Actions is the production ports.Actions implementation.
type Actions struct {
	exec    Commander
	logger  ports.Logger
	workDir string
}

// New constructs an Actions that runs go tooling against the module
// rooted at workDir, logging through logger.
func New(logger ports.Logger, workDir string) *Actions {
	return &Actions{exec: execCommander{}, logger: logger, workDir: workDir}
}

// NewWithCommander constructs an Actions with an explicit Commander,
// used by tests to avoid spawning real processes.
func NewWithCommander(exec Commander, logger ports.Logger, workDir string) *Actions {
	return &Actions{exec: exec, logger: logger, workDir: workDir}
}

var _ ports.Actions = (*Actions)(nil)

func (a *Actions) run(ctx context.Context, name string, args ...string) error {
	cmd := a.exec.CommandContext(ctx, name, args...)
	cmd.SetStdout(os.Stdout)
	cmd.SetStderr(os.Stderr)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("actions: %s %v: %w", name, args, err)
	}
	return nil
}

func (a *Actions) goCmd(ctx context.Context, workDir string, args ...string) error {
	return a.run(ctx, "go", append([]string{"-C", workDir}, args...)...)
}

func (a *Actions) logStep(ctx context.Context, name string, fields ...interface{}) {
	if a.logger == nil {
		return
	}
	a.logger.Debug(ctx, name, fields...)
}

func (a *Actions) LLVM(ctx context.Context, target string) error {
	a.logStep(ctx, "llvm: assembling toolchain", "target", target)
	return nil
}

func (a *Actions) AssembleRustc(ctx context.Context, stage int, target string) error {
	a.logStep(ctx, "rustc: assembling compiler", "stage", stage, "target", target)
	return a.goCmd(ctx, a.workDir, "build", "./...")
}

func (a *Actions) CreateSysroot(ctx context.Context, compiler ports.Compiler) error {
	a.logStep(ctx, "sysroot: creating", "stage", compiler.Stage, "host", compiler.Host)
	return nil
}

func (a *Actions) BuildStartupObjects(ctx context.Context, compiler ports.Compiler, target string) error {
	a.logStep(ctx, "startup-objects: building", "stage", compiler.Stage, "target", target)
	return nil
}

func (a *Actions) Std(ctx context.Context, target string, compiler ports.Compiler) error {
	a.logStep(ctx, "std: building", "stage", compiler.Stage, "target", target)
	return a.goCmd(ctx, a.workDir, "build", "./...")
}

func (a *Actions) Test(ctx context.Context, target string, compiler ports.Compiler) error {
	a.logStep(ctx, "test: building", "stage", compiler.Stage, "target", target)
	return a.goCmd(ctx, a.workDir, "vet", "./...")
}

func (a *Actions) Rustc(ctx context.Context, target string, compiler ports.Compiler) error {
	a.logStep(ctx, "rustc: building", "stage", compiler.Stage, "target", target)
	return a.goCmd(ctx, a.workDir, "build", "./...")
}

func (a *Actions) Krate(ctx context.Context, compiler ports.Compiler, target string, mode ports.Mode, kind ports.TestKind, crateName string) error {
	pkg := "./..."
	if crateName != "" {
		pkg = "./" + crateName + "/..."
	}
	a.logStep(ctx, "krate: running", "mode", mode, "kind", kind, "crate", crateName, "target", target)
	if kind == ports.TestKindBench {
		return a.goCmd(ctx, a.workDir, "test", "-run", "^$", "-bench", ".", pkg)
	}
	return a.goCmd(ctx, a.workDir, "test", pkg)
}

func (a *Actions) StdLink(ctx context.Context, buildCompiler, hostCompiler ports.Compiler, target string) error {
	a.logStep(ctx, "libstd-link: linking", "build_stage", buildCompiler.Stage, "host_stage", hostCompiler.Stage, "target", target)
	return nil
}

func (a *Actions) TestLink(ctx context.Context, buildCompiler, hostCompiler ports.Compiler, target string) error {
	a.logStep(ctx, "libtest-link: linking", "build_stage", buildCompiler.Stage, "host_stage", hostCompiler.Stage, "target", target)
	return nil
}

func (a *Actions) RustcLink(ctx context.Context, buildCompiler, hostCompiler ports.Compiler, target string) error {
	a.logStep(ctx, "librustc-link: linking", "build_stage", buildCompiler.Stage, "host_stage", hostCompiler.Stage, "target", target)
	return nil
}

func (a *Actions) Tool(ctx context.Context, stage int, target, toolName string) error {
	a.logStep(ctx, "tool: building", "stage", stage, "target", target, "tool", toolName)
	return nil
}

func (a *Actions) MaybeCleanTools(ctx context.Context, stage int, target string, mode ports.Mode) error {
	a.logStep(ctx, "maybe-clean-tools: checking staleness", "stage", stage, "target", target, "mode", mode)
	return nil
}

func (a *Actions) Compiletest(ctx context.Context, compiler ports.Compiler, target, mode, dir string) error {
	a.logStep(ctx, "compiletest: running suite", "stage", compiler.Stage, "target", target, "mode", mode, "dir", dir)
	return nil
}

func (a *Actions) Linkcheck(ctx context.Context, target string) error {
	a.logStep(ctx, "linkcheck: checking docs", "target", target)
	return nil
}

func (a *Actions) Cargotest(ctx context.Context, stage int, target string) error {
	a.logStep(ctx, "cargotest: running", "stage", stage, "target", target)
	return nil
}

func (a *Actions) Cargo(ctx context.Context, stage int, target string) error {
	a.logStep(ctx, "cargo: running its own test suite", "stage", stage, "target", target)
	return nil
}

func (a *Actions) Tidy(ctx context.Context, target string) error {
	a.logStep(ctx, "tidy: checking source style", "target", target)
	return a.goCmd(ctx, a.workDir, "vet", "./...")
}

func (a *Actions) ErrorIndex(ctx context.Context, compiler ports.Compiler) error {
	a.logStep(ctx, "error-index: checking", "stage", compiler.Stage, "host", compiler.Host)
	return nil
}

func (a *Actions) Docs(ctx context.Context, compiler ports.Compiler) error {
	a.logStep(ctx, "docs: checking", "stage", compiler.Stage, "host", compiler.Host)
	return nil
}

func (a *Actions) Distcheck(ctx context.Context) error {
	a.logStep(ctx, "distcheck: verifying distribution tarball")
	return nil
}

func (a *Actions) RemoteCopyLibs(ctx context.Context, compiler ports.Compiler, target string) error {
	a.logStep(ctx, "remote-copy-libs: staging libraries for remote device", "stage", compiler.Stage, "target", target)
	return nil
}

func (a *Actions) Bootstrap(ctx context.Context) error {
	a.logStep(ctx, "bootstrap: self-checking orchestrator source")
	return a.goCmd(ctx, a.workDir, "vet", "./...")
}

func (a *Actions) Openssl(ctx context.Context, target string) error {
	a.logStep(ctx, "openssl: locating or vendoring TLS libraries", "target", target)
	return nil
}

func (a *Actions) TestHelpers(ctx context.Context, target string) error {
	a.logStep(ctx, "test-helpers: compiling native test support code", "target", target)
	return nil
}

func (a *Actions) DocBook(ctx context.Context, target string) error {
	a.logStep(ctx, "doc-book: rendering", "target", target)
	return nil
}

func (a *Actions) DocStandalone(ctx context.Context, target string) error {
	a.logStep(ctx, "doc-standalone: rendering", "target", target)
	return nil
}

func (a *Actions) DocRustbook(ctx context.Context, target, name string) error {
	a.logStep(ctx, "doc-rustbook: rendering", "target", target, "book", name)
	return nil
}

func (a *Actions) DocStd(ctx context.Context, stage int, target string) error {
	a.logStep(ctx, "doc-std: rendering", "stage", stage, "target", target)
	return nil
}

func (a *Actions) DocTest(ctx context.Context, stage int, target string) error {
	a.logStep(ctx, "doc-test: rendering", "stage", stage, "target", target)
	return nil
}

func (a *Actions) DocRustc(ctx context.Context, stage int, target string) error {
	a.logStep(ctx, "doc-rustc: rendering", "stage", stage, "target", target)
	return nil
}

func (a *Actions) DocErrorIndex(ctx context.Context, target string) error {
	a.logStep(ctx, "doc-error-index: rendering", "target", target)
	return nil
}

func (a *Actions) DistRustc(ctx context.Context, stage int, target string) error {
	a.logStep(ctx, "dist-rustc: packaging", "stage", stage, "target", target)
	return nil
}

func (a *Actions) DistStd(ctx context.Context, compiler ports.Compiler, target string) error {
	a.logStep(ctx, "dist-std: packaging", "stage", compiler.Stage, "target", target)
	return nil
}

func (a *Actions) DistMingw(ctx context.Context, target string) error {
	a.logStep(ctx, "dist-mingw: packaging", "target", target)
	return nil
}

func (a *Actions) DistPlainSourceTarball(ctx context.Context) error {
	a.logStep(ctx, "dist-plain-source-tarball: packaging")
	return nil
}

func (a *Actions) DistRustSrc(ctx context.Context) error {
	a.logStep(ctx, "dist-src: packaging")
	return nil
}

func (a *Actions) DistDocs(ctx context.Context, stage int, target string) error {
	a.logStep(ctx, "dist-docs: packaging", "stage", stage, "target", target)
	return nil
}

func (a *Actions) DistAnalysis(ctx context.Context, compiler ports.Compiler, target string) error {
	a.logStep(ctx, "dist-analysis: packaging", "stage", compiler.Stage, "target", target)
	return nil
}

func (a *Actions) DistRls(ctx context.Context, stage int, target string) error {
	a.logStep(ctx, "dist-rls: packaging", "stage", stage, "target", target)
	return nil
}

func (a *Actions) DistCargo(ctx context.Context, stage int, target string) error {
	a.logStep(ctx, "dist-cargo: packaging", "stage", stage, "target", target)
	return nil
}

func (a *Actions) DistExtended(ctx context.Context, stage int, target string) error {
	a.logStep(ctx, "dist-extended: assembling bundle", "stage", stage, "target", target)
	return nil
}

func (a *Actions) DistHashAndSign(ctx context.Context) error {
	a.logStep(ctx, "dist-sign: hashing and signing artifacts")
	return nil
}

func (a *Actions) DistDebuggerScripts(ctx context.Context, sysroot, target string) error {
	a.logStep(ctx, "dist-debugger-scripts: packaging", "sysroot", sysroot, "target", target)
	return nil
}

func (a *Actions) InstallDocs(ctx context.Context, stage int, target string) error {
	a.logStep(ctx, "install-docs: installing", "stage", stage, "target", target)
	return nil
}

func (a *Actions) InstallStd(ctx context.Context, stage int) error {
	a.logStep(ctx, "install-std: installing", "stage", stage)
	return nil
}

func (a *Actions) InstallCargo(ctx context.Context, stage int, target string) error {
	a.logStep(ctx, "install-cargo: installing", "stage", stage, "target", target)
	return nil
}

func (a *Actions) InstallRls(ctx context.Context, stage int, target string) error {
	a.logStep(ctx, "install-rls: installing", "stage", stage, "target", target)
	return nil
}

func (a *Actions) InstallAnalysis(ctx context.Context, stage int, target string) error {
	a.logStep(ctx, "install-analysis: installing", "stage", stage, "target", target)
	return nil
}

func (a *Actions) InstallSrc(ctx context.Context, stage int) error {
	a.logStep(ctx, "install-src: installing", "stage", stage)
	return nil
}

func (a *Actions) InstallRustc(ctx context.Context, stage int, target string) error {
	a.logStep(ctx, "install-rustc: installing", "stage", stage, "target", target)
	return nil
}
