package rules

import (
	"fmt"
	"sort"
	"sync"

	xerrors "github.com/xbuild/xbuild/pkg/errors"
)

// Registry is the name-indexed catalog of every rule known to one
// invocation. It is populated once during catalog construction, frozen by
// Verify, and read thereafter. Registration and reads are both guarded by
// the registry's lock.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]Rule
	order []string // names in registration order
}

// NewRegistry returns an empty registry ready for catalog population.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]Rule)}
}

// Builder accumulates a rule's fields before committing it to a Registry.
// Go has no destructors, so the RAII-style "commits when it goes out of
// scope" behaviour of the original becomes an explicit terminal call:
// Register. Forgetting to call it is a catalog bug — such a rule simply
// never reaches the registry, and Verify has nothing to check it against.
type Builder struct {
	reg  *Registry
	rule Rule
}

// Rule starts building a rule of the given name, path, and kind. A path
// containing "nowhere" (such as PseudoPath) hides the rule from CLI
// listing and path-filter matching; any other path, including an empty
// one, does not.
func (r *Registry) Rule(name, path string, kind Kind) *Builder {
	return &Builder{
		reg: r,
		rule: Rule{
			Name: name,
			Path: path,
			Kind: kind,
			Run:  noopAction,
		},
	}
}

// DependsOn appends a dependency function to the rule under construction.
// Order matters: the expander recurses in append order, and that order is
// observable in deterministic traversal output.
func (b *Builder) DependsOn(f DepFunc) *Builder {
	b.rule.Deps = append(b.rule.Deps, f)
	return b
}

// After adds a soft-ordering constraint: if any step enacting ruleName
// appears anywhere in the expanded graph, this rule's steps must follow
// it. Absent names are silently ignored at expansion time.
func (b *Builder) After(ruleName string) *Builder {
	b.rule.After = append(b.rule.After, ruleName)
	return b
}

// RunWith sets the rule's action procedure.
func (b *Builder) RunWith(action Action) *Builder {
	b.rule.Run = action
	return b
}

// IsDefault marks the rule as included when a plan is requested with no
// path filters.
func (b *Builder) IsDefault() *Builder {
	b.rule.Default = true
	return b
}

// HostOnly marks the rule as producing host artifacts: during planning its
// target axis is replaced by a host-derived list rather than the
// configured target list.
func (b *Builder) HostOnly() *Builder {
	b.rule.Host = true
	return b
}

// OnlyBuild restricts the rule's host enumeration to the single
// build-machine triple.
func (b *Builder) OnlyBuild() *Builder {
	b.rule.OnlyBuild = true
	return b
}

// OnlyHostBuild restricts host enumeration the same way OnlyBuild does,
// but is kept distinct because the planner's target axis for host rules
// consults OnlyBuild only (see planner.effectiveTargetAxis).
func (b *Builder) OnlyHostBuild() *Builder {
	b.rule.OnlyHostBuild = true
	return b
}

// Register commits the rule under construction to its registry. Duplicate
// names are a programmer error and panic immediately rather than silently
// overwriting an existing rule.
func (b *Builder) Register() {
	b.reg.mu.Lock()
	defer b.reg.mu.Unlock()
	if _, exists := b.reg.rules[b.rule.Name]; exists {
		panic(fmt.Sprintf("rules: duplicate rule registration: %q", b.rule.Name))
	}
	b.reg.rules[b.rule.Name] = b.rule
	b.reg.order = append(b.reg.order, b.rule.Name)
}

// Get returns the rule registered under name and whether it was found.
func (r *Registry) Get(name string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[name]
	return rule, ok
}

// Names returns every registered rule name, sorted for stable help output
// and deterministic traversal.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.rules))
	for name := range r.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByKind returns every registered rule of the given kind, ordered by name.
func (r *Registry) ByKind(kind Kind) []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Rule
	for _, name := range r.sortedNamesLocked() {
		rule := r.rules[name]
		if rule.Kind == kind {
			out = append(out, rule)
		}
	}
	return out
}

// Defaults returns every rule of the given kind with Default=true, ordered
// by name.
func (r *Registry) Defaults(kind Kind) []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Rule
	for _, name := range r.sortedNamesLocked() {
		rule := r.rules[name]
		if rule.Kind == kind && rule.Default {
			out = append(out, rule)
		}
	}
	return out
}

func (r *Registry) sortedNamesLocked() []string {
	names := make([]string, 0, len(r.rules))
	for name := range r.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports how many rules are registered.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rules)
}

// Verify walks every rule's dependency functions once, evaluating each
// against a sentinel step named after the rule being checked. It catches
// catalog typos — a dependency function that resolves to an unregistered
// rule name — before any planning happens, regardless of which subcommand
// the user invoked.
//
// buildTriple supplies the build-machine triple used to seed the sentinel's
// host and target fields, and defaultStage seeds its stage.
func (r *Registry) Verify(buildTriple string, defaultStage int) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range r.sortedNamesLocked() {
		rule := r.rules[name]
		sentinel := Step{name: name, stage: defaultStage, host: buildTriple, target: buildTriple}
		for _, dep := range rule.Deps {
			d := dep(sentinel)
			if d.IsNoop() {
				continue
			}
			if isFanOut(d.name) {
				continue
			}
			if _, ok := r.rules[d.name]; !ok {
				return xerrors.NewRegistrationError(name, d.name, "dependency function resolved to an unregistered rule")
			}
		}
	}
	return nil
}

func isFanOut(name string) bool {
	return len(name) >= len(DefaultFanOutPrefix) && name[:len(DefaultFanOutPrefix)] == DefaultFanOutPrefix
}
