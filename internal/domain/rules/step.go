// Package rules implements the Step/Rule/Registry primitives the planner
// and expander walk: an immutable value type describing a point in the
// bootstrap matrix, and a name-indexed catalog of rules that produce and
// consume those points.
package rules

import "github.com/xbuild/xbuild/internal/ports"

// DefaultFanOutPrefix marks a dependency-function result that means
// "depend on every default rule of this kind" rather than a single named
// rule. Resolved during expansion, never during registration.
const DefaultFanOutPrefix = "default:"

// Step is an immutable point in the bootstrap matrix: which rule it
// enacts, at which stage, producing a compiler for which host, acting on
// which target. Builder methods return modified copies; the zero Step is
// the noop sentinel.
type Step struct {
	name   string
	stage  int
	host   string
	target string
}

// Noop is the sentinel step meaning "no dependency in this context". It is
// always node 0 in an expanded graph and is never executed.
var Noop = Step{}

// IsNoop reports whether s is the sentinel step.
func (s Step) IsNoop() bool {
	return s == Noop
}

// Name returns the rule name this step enacts.
func (s Step) Name() string { return s.name }

// Stage returns the bootstrap stage (0, 1, or 2).
func (s Step) Stage() int { return s.stage }

// Host returns the tag of the machine the compiler at this step runs on.
func (s Step) Host() string { return s.host }

// Target returns the tag of the machine artifacts produced at this step
// run on.
func (s Step) Target() string { return s.target }

// WithName returns a copy of s enacting a different rule.
func (s Step) WithName(name string) Step {
	s.name = name
	return s
}

// WithStage returns a copy of s at a different bootstrap stage.
func (s Step) WithStage(stage int) Step {
	s.stage = stage
	return s
}

// WithHost returns a copy of s whose compiler runs on a different host.
func (s Step) WithHost(host string) Step {
	s.host = host
	return s
}

// WithTarget returns a copy of s producing artifacts for a different
// target.
func (s Step) WithTarget(target string) Step {
	s.target = target
	return s
}

// Compiler derives the (stage, host) compiler identity an action closure
// needs to locate the toolchain this step runs with.
func (s Step) Compiler() ports.Compiler {
	return ports.Compiler{Stage: s.stage, Host: s.host}
}

// New constructs a step enacting rule name, at stage, with host and
// target both set to triple. It is the usual starting point before a
// dependency function narrows host/target further.
func New(name string, stage int, triple string) Step {
	return Step{name: name, stage: stage, host: triple, target: triple}
}
