// Package planner turns a subcommand invocation into a concrete list of
// top-level steps, and expands those steps (and their dependencies) into a
// topologically ordered execution list.
package planner

import (
	"sort"
	"strings"

	"github.com/xbuild/xbuild/internal/domain/rules"
	"github.com/xbuild/xbuild/internal/ports"
)

// Request describes one subcommand invocation's CLI inputs. Hosts/Targets
// nil means "the flag was not given"; distinguishing nil from an empty
// slice matters for host=true target-axis resolution (§4.3 step 4).
type Request struct {
	Kind        rules.Kind
	PathFilters []string
	Hosts       []string
	Targets     []string
	Stage       int // 0 means "use the default stage", which is 2.
}

const defaultStage = 2

// Planner selects and materializes the top-level steps a command plans to
// run, before dependency expansion.
type Planner struct{}

// New returns a Planner. It carries no state: every Plan call is a pure
// function of its registry, build configuration, and request.
func New() *Planner {
	return &Planner{}
}

type selected struct {
	rule     rules.Rule
	priority int
}

// Plan implements spec.md §4.3: filter by kind, select by path filter or
// default flag, sort by priority, then emit the cartesian product of each
// selected rule's host and target axes.
func (p *Planner) Plan(reg *rules.Registry, build ports.Build, req Request) []rules.Step {
	stage := req.Stage
	if stage == 0 {
		stage = defaultStage
	}

	candidates := reg.ByKind(req.Kind)
	var chosen []selected

	if len(req.PathFilters) == 0 {
		for _, r := range candidates {
			if r.Default {
				chosen = append(chosen, selected{rule: r, priority: 0})
			}
		}
	} else {
		for _, r := range candidates {
			if r.Hidden() {
				continue
			}
			priority := matchPriority(r.Path, req.PathFilters)
			if priority >= 0 {
				chosen = append(chosen, selected{rule: r, priority: priority})
			}
		}
	}

	sort.SliceStable(chosen, func(i, j int) bool {
		return chosen[i].priority < chosen[j].priority
	})

	var out []rules.Step
	for _, c := range chosen {
		hosts := p.effectiveHosts(c.rule, build, req)
		targets := p.effectiveTargetAxis(c.rule, build, req)
		for _, h := range hosts {
			for _, t := range targets {
				out = append(out, rules.New(c.rule.Name, stage, h).WithTarget(t))
			}
		}
	}
	return out
}

// matchPriority returns the index of the first filter for which p.ends
// with the rule path, or -1 if no filter matches.
func matchPriority(path string, filters []string) int {
	for i, f := range filters {
		if strings.HasSuffix(f, path) {
			return i
		}
	}
	return -1
}

func (p *Planner) effectiveHosts(r rules.Rule, build ports.Build, req Request) []string {
	if r.OnlyHostBuild || r.OnlyBuild {
		return []string{build.BuildTriple()}
	}
	if req.Hosts != nil {
		return req.Hosts
	}
	return build.Hosts()
}

func (p *Planner) effectiveTargetAxis(r rules.Rule, build ports.Build, req Request) []string {
	if r.Host {
		switch {
		case req.Hosts != nil:
			return req.Hosts
		case req.Targets != nil:
			return nil
		case r.OnlyBuild:
			return []string{build.BuildTriple()}
		default:
			return build.Hosts()
		}
	}
	if req.Targets != nil {
		return req.Targets
	}
	return build.Targets()
}
