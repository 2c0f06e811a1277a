package config

import "testing"

func sampleCrates() map[string]Crate {
	return map[string]Crate{
		"std": {
			Name: "std", Path: "src/libstd",
			BuildStep: "build-crate-std", TestStep: "test-crate-std",
			BenchStep: "bench-crate-std", DocStep: "doc-crate-std",
		},
		"test": {
			Name: "test", Path: "src/libtest", Deps: []string{"std"},
			BuildStep: "build-crate-test", TestStep: "test-crate-test",
			BenchStep: "bench-crate-test", DocStep: "doc-crate-test",
		},
		"rustc-main": {
			Name: "rustc-main", Path: "src/rustc-main", Deps: []string{"test", "build_helper"},
			BuildStep: "build-crate-rustc-main", TestStep: "test-crate-rustc-main",
			BenchStep: "bench-crate-rustc-main", DocStep: "doc-crate-rustc-main",
		},
	}
}

func TestTraverseExcludesBuildHelper(t *testing.T) {
	crates, err := Traverse(sampleCrates(), "rustc-main")
	if err != nil {
		t.Fatalf("Traverse returned error: %v", err)
	}
	for _, c := range crates {
		if c.Name == "build_helper" {
			t.Fatal("build_helper must never be emitted by Traverse")
		}
	}
	if len(crates) != 3 {
		t.Fatalf("expected 3 crates (std, test, rustc-main), got %d: %+v", len(crates), crates)
	}
}

func TestTraverseUnknownRoot(t *testing.T) {
	if _, err := Traverse(sampleCrates(), "nonexistent"); err == nil {
		t.Fatal("expected error for unknown traversal root")
	}
}

func TestTraverseDetectsCycle(t *testing.T) {
	crates := map[string]Crate{
		"a": {Name: "a", Path: "a", Deps: []string{"b"}, BuildStep: "b-a", TestStep: "t-a", BenchStep: "n-a", DocStep: "d-a"},
		"b": {Name: "b", Path: "b", Deps: []string{"a"}, BuildStep: "b-b", TestStep: "t-b", BenchStep: "n-b", DocStep: "d-b"},
	}
	if _, err := Traverse(crates, "a"); err == nil {
		t.Fatal("expected cycle detection to fail")
	}
}

func TestTraverseSortedByName(t *testing.T) {
	crates, err := Traverse(sampleCrates(), "rustc-main")
	if err != nil {
		t.Fatalf("Traverse returned error: %v", err)
	}
	for i := 1; i < len(crates); i++ {
		if crates[i-1].Name > crates[i].Name {
			t.Fatalf("expected crates sorted by name, got %+v", crates)
		}
	}
}
