package ports

import "context"

// Compiler identifies a concrete compiler artifact: the bootstrap stage it
// was produced at and the host it runs on. Rule actions receive a Compiler
// rather than a raw Step so they never need to know about stages they don't
// act on directly.
type Compiler struct {
	Stage int
	Host  string
}

// Mode selects which sysroot a krate-shaped action targets.
type Mode string

const (
	ModeLibstd   Mode = "libstd"
	ModeLibtest  Mode = "libtest"
	ModeLibrustc Mode = "librustc"
)

// TestKind distinguishes a test run from a benchmark run of the same suite.
type TestKind string

const (
	TestKindTest  TestKind = "test"
	TestKindBench TestKind = "bench"
)

// Actions is the capability the core consumes to perform the side effects a
// rule's action represents. The core never knows how a compiler is
// assembled, how documentation is rendered, or how a tarball is written —
// it only knows that, given a step's resolved parameters, one of these
// methods must be called. All methods are expected to block until the
// underlying work completes or fails; the core treats failure as fatal.
type Actions interface {
	LLVM(ctx context.Context, target string) error
	AssembleRustc(ctx context.Context, stage int, target string) error
	CreateSysroot(ctx context.Context, compiler Compiler) error
	BuildStartupObjects(ctx context.Context, compiler Compiler, target string) error

	Std(ctx context.Context, target string, compiler Compiler) error
	Test(ctx context.Context, target string, compiler Compiler) error
	Rustc(ctx context.Context, target string, compiler Compiler) error
	Krate(ctx context.Context, compiler Compiler, target string, mode Mode, kind TestKind, crateName string) error

	StdLink(ctx context.Context, buildCompiler, hostCompiler Compiler, target string) error
	TestLink(ctx context.Context, buildCompiler, hostCompiler Compiler, target string) error
	RustcLink(ctx context.Context, buildCompiler, hostCompiler Compiler, target string) error

	Tool(ctx context.Context, stage int, target, toolName string) error
	MaybeCleanTools(ctx context.Context, stage int, target string, mode Mode) error

	Compiletest(ctx context.Context, compiler Compiler, target, mode, dir string) error
	Linkcheck(ctx context.Context, target string) error
	Cargotest(ctx context.Context, stage int, target string) error
	Cargo(ctx context.Context, stage int, target string) error
	Tidy(ctx context.Context, target string) error
	ErrorIndex(ctx context.Context, compiler Compiler) error
	Docs(ctx context.Context, compiler Compiler) error
	Distcheck(ctx context.Context) error
	RemoteCopyLibs(ctx context.Context, compiler Compiler, target string) error
	Bootstrap(ctx context.Context) error
	Openssl(ctx context.Context, target string) error
	TestHelpers(ctx context.Context, target string) error

	DocBook(ctx context.Context, target string) error
	DocStandalone(ctx context.Context, target string) error
	DocRustbook(ctx context.Context, target, name string) error
	DocStd(ctx context.Context, stage int, target string) error
	DocTest(ctx context.Context, stage int, target string) error
	DocRustc(ctx context.Context, stage int, target string) error
	DocErrorIndex(ctx context.Context, target string) error

	DistRustc(ctx context.Context, stage int, target string) error
	DistStd(ctx context.Context, compiler Compiler, target string) error
	DistMingw(ctx context.Context, target string) error
	DistPlainSourceTarball(ctx context.Context) error
	DistRustSrc(ctx context.Context) error
	DistDocs(ctx context.Context, stage int, target string) error
	DistAnalysis(ctx context.Context, compiler Compiler, target string) error
	DistRls(ctx context.Context, stage int, target string) error
	DistCargo(ctx context.Context, stage int, target string) error
	DistExtended(ctx context.Context, stage int, target string) error
	DistHashAndSign(ctx context.Context) error
	DistDebuggerScripts(ctx context.Context, sysroot, target string) error

	InstallDocs(ctx context.Context, stage int, target string) error
	InstallStd(ctx context.Context, stage int) error
	InstallCargo(ctx context.Context, stage int, target string) error
	InstallRls(ctx context.Context, stage int, target string) error
	InstallAnalysis(ctx context.Context, stage int, target string) error
	InstallSrc(ctx context.Context, stage int) error
	InstallRustc(ctx context.Context, stage int, target string) error
}
