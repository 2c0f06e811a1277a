package planner

import (
	"fmt"
	"strings"

	"github.com/xbuild/xbuild/internal/domain/rules"
	"github.com/xbuild/xbuild/internal/ports"
)

// Graph is the per-invocation dependency graph produced by expansion.
// Node 0 is always the noop sentinel. Edges map a node index to the set
// of node indices that must complete first.
type Graph struct {
	Nodes []rules.Step
	Edges map[int][]int
}

// Expander builds a Graph from a set of top-level steps by recursively
// resolving each rule's dependency functions, then linearizes it with a
// topological sort.
type Expander struct {
	reg   *rules.Registry
	build ports.Build
}

// NewExpander returns an Expander bound to reg and build. build supplies
// the configured host list needed to host-filter default:<kind> fan-out.
func NewExpander(reg *rules.Registry, build ports.Build) *Expander {
	return &Expander{reg: reg, build: build}
}

// Expand builds the graph for topLevel and returns its steps in
// topological order: for every edge u -> v, u precedes v in the result.
func (e *Expander) Expand(topLevel []rules.Step) ([]rules.Step, error) {
	g, err := e.Build(topLevel)
	if err != nil {
		return nil, err
	}
	order, err := g.TopoSort()
	if err != nil {
		return nil, err
	}
	out := make([]rules.Step, len(order))
	for i, idx := range order {
		out[i] = g.Nodes[idx]
	}
	return out, nil
}

// Build constructs the graph for topLevel without sorting it, per
// spec.md §4.4 steps 1-3: hard edges from dependency functions (including
// default:<kind> fan-out), then soft `after` edges.
func (e *Expander) Build(topLevel []rules.Step) (*Graph, error) {
	g := &Graph{
		Nodes: []rules.Step{rules.Noop},
		Edges: map[int][]int{0: {}},
	}
	index := map[rules.Step]int{rules.Noop: 0}

	var buildGraph func(s rules.Step) (int, error)
	buildGraph = func(s rules.Step) (int, error) {
		if idx, ok := index[s]; ok {
			return idx, nil
		}
		idx := len(g.Nodes)
		g.Nodes = append(g.Nodes, s)
		index[s] = idx
		g.Edges[idx] = []int{}

		rule, ok := e.reg.Get(s.Name())
		if !ok {
			return 0, fmt.Errorf("planner: step %q enacts unregistered rule", s.Name())
		}

		for _, dep := range rule.Deps {
			d := dep(s)
			if d.IsNoop() {
				continue
			}
			if kind, ok := fanOutKind(d.Name()); ok {
				for _, r := range e.reg.Defaults(kind) {
					if r.Host && !e.isConfiguredHost(d.Target()) {
						continue
					}
					candidate := d.WithName(r.Name)
					depIdx, err := buildGraph(candidate)
					if err != nil {
						return 0, err
					}
					g.Edges[idx] = append(g.Edges[idx], depIdx)
				}
				continue
			}
			depIdx, err := buildGraph(d)
			if err != nil {
				return 0, err
			}
			g.Edges[idx] = append(g.Edges[idx], depIdx)
		}
		return idx, nil
	}

	for _, s := range topLevel {
		if _, err := buildGraph(s); err != nil {
			return nil, err
		}
	}

	e.satisfyAfterDeps(g)

	return g, nil
}

// satisfyAfterDeps implements spec.md §4.4 step 3: soft ordering. A rule's
// `after` list names rules that must precede it only if they happen to
// appear in the graph already; absent names are silently dropped rather
// than treated as an error, since `after` is ambient, not a trigger to
// schedule the named rule's work.
func (e *Expander) satisfyAfterDeps(g *Graph) {
	byRuleName := map[string][]int{}
	for idx, step := range g.Nodes {
		if step.IsNoop() {
			continue
		}
		byRuleName[step.Name()] = append(byRuleName[step.Name()], idx)
	}

	for idx, step := range g.Nodes {
		if step.IsNoop() {
			continue
		}
		rule, ok := e.reg.Get(step.Name())
		if !ok {
			continue
		}
		for _, after := range rule.After {
			for _, depIdx := range byRuleName[after] {
				g.Edges[idx] = append(g.Edges[idx], depIdx)
			}
		}
	}
}

func (e *Expander) isConfiguredHost(target string) bool {
	for _, h := range e.build.Hosts() {
		if h == target {
			return true
		}
	}
	return false
}

func fanOutKind(name string) (rules.Kind, bool) {
	if !strings.HasPrefix(name, rules.DefaultFanOutPrefix) {
		return 0, false
	}
	suffix := strings.TrimPrefix(name, rules.DefaultFanOutPrefix)
	switch suffix {
	case "build":
		return rules.Build, true
	case "test":
		return rules.Test, true
	case "bench":
		return rules.Bench, true
	case "dist":
		return rules.Dist, true
	case "doc":
		return rules.Doc, true
	case "install":
		return rules.Install, true
	default:
		return 0, false
	}
}

type visitState int

const (
	stateUnvisited visitState = iota
	stateVisiting
	stateVisited
)

// TopoSort linearizes the graph: for each unvisited node, DFS first into
// its dependencies, then append the node. A gray (stateVisiting) node
// reached again means a dependency function introduced a cycle — the
// catalog is expected to be acyclic by construction, so this is reported
// as an error rather than silently accepted or left to loop forever.
func (g *Graph) TopoSort() ([]int, error) {
	state := make([]visitState, len(g.Nodes))
	order := make([]int, 0, len(g.Nodes))

	var visit func(n int) error
	visit = func(n int) error {
		switch state[n] {
		case stateVisited:
			return nil
		case stateVisiting:
			return fmt.Errorf("planner: dependency cycle detected at step %q", g.Nodes[n].Name())
		}
		state[n] = stateVisiting
		for _, dep := range g.Edges[n] {
			if err := visit(dep); err != nil {
				return err
			}
		}
		state[n] = stateVisited
		order = append(order, n)
		return nil
	}

	for n := range g.Nodes {
		if err := visit(n); err != nil {
			return nil, err
		}
	}
	return order, nil
}
