package config

import (
	"fmt"
	"sort"
)

// excludedCrate is never emitted by Traverse even if it is reachable from
// root: it is build tooling shared by the crate graph, not a crate that
// itself gets build/test/bench/doc rules.
const excludedCrate = "build_helper"

// Traverse walks the crate dependency graph starting at root (one of
// "std", "test", or "rustc-main") and returns every reachable crate,
// excluding build_helper, sorted by name for deterministic rule
// generation order.
func Traverse(crates map[string]Crate, root string) ([]Crate, error) {
	if _, ok := crates[root]; !ok {
		return nil, fmt.Errorf("config: crate traversal root %q not found in catalog", root)
	}

	if cycle := detectCrateCycle(crates); len(cycle) > 0 {
		return nil, fmt.Errorf("config: cyclic crate dependency: %v", cycle)
	}

	visited := make(map[string]bool)
	var out []Crate

	var visit func(name string)
	visit = func(name string) {
		if visited[name] || name == excludedCrate {
			return
		}
		visited[name] = true
		crate, ok := crates[name]
		if !ok {
			return
		}
		deps := append([]string(nil), crate.Deps...)
		sort.Strings(deps)
		for _, dep := range deps {
			visit(dep)
		}
		out = append(out, crate)
	}
	visit(root)

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// detectCrateCycle reports a cycle in the crate dependency graph, if any,
// as the ordered list of crate names participating in it. It mirrors the
// three-state DFS (unvisited/visiting/visited) used elsewhere in this
// codebase for dependency-graph cycle detection.
func detectCrateCycle(crates map[string]Crate) []string {
	visiting := make(map[string]bool, len(crates))
	visited := make(map[string]bool, len(crates))
	var stack []string
	var cycle []string

	var dfs func(name string) bool
	dfs = func(name string) bool {
		visiting[name] = true
		stack = append(stack, name)

		crate, ok := crates[name]
		if ok {
			for _, dep := range crate.Deps {
				if dep == excludedCrate {
					continue
				}
				if !visited[dep] {
					if visiting[dep] {
						idx := indexOf(stack, dep)
						if idx >= 0 {
							cycle = append([]string{}, stack[idx:]...)
							cycle = append(cycle, dep)
						}
						return true
					}
					if dfs(dep) {
						return true
					}
				}
			}
		}

		visiting[name] = false
		visited[name] = true
		stack = stack[:len(stack)-1]
		return false
	}

	names := make([]string, 0, len(crates))
	for name := range crates {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if visited[name] {
			continue
		}
		if dfs(name) {
			break
		}
	}
	return cycle
}

func indexOf(stack []string, target string) int {
	for i, v := range stack {
		if v == target {
			return i
		}
	}
	return -1
}
