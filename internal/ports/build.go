package ports

// Build exposes the configuration and derived predicates that rule
// expansion and planning consult while walking the dependency graph. It is
// the Go analogue of the global `Build` context threaded through rustbuild's
// step functions: rules never read configuration directly, they ask Build.
type Build interface {
	// BuildTriple is the host triple the orchestrator itself runs on
	// (config.build). Hosts() falls back to it when no hosts are configured.
	BuildTriple() string

	// Hosts lists every triple a compiler is built to run on.
	Hosts() []string

	// Targets lists every triple the standard library is built for.
	Targets() []string

	// ForceUseStage1 reports whether the stage-2 bootstrap should be
	// skipped in favor of reusing the stage-1 compiler for a given
	// (compiler, target) pair — the "stage down" cross-compile shortcut.
	ForceUseStage1(compiler Compiler, target string) bool

	// RemoteTested reports whether target requires shipping test
	// binaries to a remote device rather than running them locally.
	RemoteTested(target string) bool

	// Docs reports whether rustdoc output should be generated at all.
	Docs() bool

	// CompilerDocs reports whether compiler-internal (librustc) docs
	// should be generated in addition to std/test docs.
	CompilerDocs() bool

	// CodegenTests reports whether the codegen test suite should be
	// included; it is skipped when the configured LLVM has no asm
	// printer for the current target.
	CodegenTests() bool

	// Extended reports whether the "extended" dist/install bundle
	// (rls, analysis, src alongside rustc/cargo) was requested.
	Extended() bool

	// RustDistSrc reports whether a full source tarball should be part
	// of dist output.
	RustDistSrc() bool
}
