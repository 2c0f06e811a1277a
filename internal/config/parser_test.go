package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `
version: "1.0.0"
settings:
  build: x86_64-unknown-linux-gnu
  host: [x86_64-unknown-linux-gnu]
  target: [x86_64-unknown-linux-gnu, arm-unknown-linux-gnueabi]
  docs: true
crates:
  std:
    name: std
    path: src/libstd
    build_step: build-crate-std
    test_step: test-crate-std
    bench_step: bench-crate-std
    doc_step: doc-crate-std
  test:
    name: test
    path: src/libtest
    deps: [std]
    build_step: build-crate-test
    test_step: test-crate-test
    bench_step: bench-crate-test
    doc_step: doc-crate-test
  rustc-main:
    name: rustc-main
    path: src/rustc-main
    deps: [test]
    build_step: build-crate-rustc-main
    test_step: test-crate-rustc-main
    bench_step: bench-crate-rustc-main
    doc_step: doc-crate-rustc-main
`

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "xbuild.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestParseConfigSuccess(t *testing.T) {
	path := writeTempConfig(t, sampleYAML)

	cfg, err := ParseConfig(path)
	if err != nil {
		t.Fatalf("ParseConfig returned error: %v", err)
	}
	if cfg.Settings.BuildTriple() != "x86_64-unknown-linux-gnu" {
		t.Errorf("BuildTriple() = %q", cfg.Settings.BuildTriple())
	}
	if len(cfg.Crates) != 3 {
		t.Errorf("expected 3 crates, got %d", len(cfg.Crates))
	}
}

func TestParseConfigMissingFile(t *testing.T) {
	if _, err := ParseConfig("/nonexistent/xbuild.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParseConfigInvalidYAML(t *testing.T) {
	path := writeTempConfig(t, "version: [this is not a valid document")
	if _, err := ParseConfig(path); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestParseConfigFailsValidation(t *testing.T) {
	path := writeTempConfig(t, "version: \"1.0.0\"\nsettings:\n  build: bad\ncrates: {}\n")
	if _, err := ParseConfig(path); err == nil {
		t.Fatal("expected error for config failing validation")
	}
}
