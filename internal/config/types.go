package config

import "github.com/xbuild/xbuild/internal/ports"

// Config is the full orchestrator configuration document: the build
// matrix settings plus the crate catalog the per-crate rule families are
// generated from.
type Config struct {
	Version  string           `yaml:"version" validate:"required,semver"`
	Settings Settings         `yaml:"settings" validate:"required"`
	Crates   map[string]Crate `yaml:"crates" validate:"required,min=1,dive"`
}

// Settings holds the build matrix: which triple the orchestrator itself
// runs on, which triples compilers are produced for, which triples
// standard libraries are produced for, and the handful of feature flags
// dependency functions and actions consult. It implements ports.Build.
type Settings struct {
	Build           string   `yaml:"build" validate:"required,triple"`
	Host            []string `yaml:"host,omitempty" validate:"omitempty,dive,triple"`
	Target          []string `yaml:"target,omitempty" validate:"omitempty,dive,triple"`
	ForceStage1For  []string `yaml:"force_use_stage1,omitempty" validate:"omitempty,dive,triple"`
	RemoteTestedFor []string `yaml:"remote_tested,omitempty" validate:"omitempty,dive,triple"`
	DocsEnabled     bool     `yaml:"docs,omitempty"`
	CompilerDocsSet bool     `yaml:"compiler_docs,omitempty"`
	CodegenTestsSet bool     `yaml:"codegen_tests,omitempty"`
	ExtendedSet     bool     `yaml:"extended,omitempty"`
	RustDistSrcSet  bool     `yaml:"rust_dist_src,omitempty"`
}

var _ ports.Build = Settings{}

// BuildTriple is the host triple the orchestrator itself runs on.
func (s Settings) BuildTriple() string { return s.Build }

// Hosts lists every triple a compiler is built to run on, defaulting to
// just the build triple when none were configured.
func (s Settings) Hosts() []string {
	if len(s.Host) == 0 {
		return []string{s.Build}
	}
	return s.Host
}

// Targets lists every triple the standard library is built for,
// defaulting to the configured host list when none were configured.
func (s Settings) Targets() []string {
	if len(s.Target) == 0 {
		return s.Hosts()
	}
	return s.Target
}

// ForceUseStage1 reports whether target was configured to reuse the
// stage-1 compiler rather than bootstrapping a fresh stage-2 copy.
func (s Settings) ForceUseStage1(_ ports.Compiler, target string) bool {
	for _, t := range s.ForceStage1For {
		if t == target {
			return true
		}
	}
	return false
}

// RemoteTested reports whether target requires shipping test binaries to
// a remote device rather than running them locally.
func (s Settings) RemoteTested(target string) bool {
	for _, t := range s.RemoteTestedFor {
		if t == target {
			return true
		}
	}
	return false
}

// Docs reports whether rustdoc output should be generated at all.
func (s Settings) Docs() bool { return s.DocsEnabled }

// CompilerDocs reports whether compiler-internal docs should be built.
func (s Settings) CompilerDocs() bool { return s.CompilerDocsSet }

// CodegenTests reports whether the codegen test suite should be included.
func (s Settings) CodegenTests() bool { return s.CodegenTestsSet }

// Extended reports whether the extended dist/install bundle was requested.
func (s Settings) Extended() bool { return s.ExtendedSet }

// RustDistSrc reports whether a full source tarball is part of dist output.
func (s Settings) RustDistSrc() bool { return s.RustDistSrcSet }

// Crate describes one entry in the crate catalog: its source location and
// the four rule names the catalog generates for it.
type Crate struct {
	Name      string   `yaml:"name" validate:"required"`
	Deps      []string `yaml:"deps,omitempty"`
	Path      string   `yaml:"path" validate:"required"`
	BuildStep string   `yaml:"build_step" validate:"required"`
	TestStep  string   `yaml:"test_step" validate:"required"`
	BenchStep string   `yaml:"bench_step" validate:"required"`
	DocStep   string   `yaml:"doc_step" validate:"required"`
}
