package config

import (
	"fmt"

	xerrors "github.com/xbuild/xbuild/pkg/errors"
)

// ValidateConfig runs struct-tag validation over cfg, then checks the
// crate catalog's structural invariants: every crate's dependency names
// must resolve to another catalog entry, and the roots the per-crate rule
// families are generated from ("std", "test", "rustc-main") must exist.
func ValidateConfig(cfg *Config) error {
	if err := validatorInstance().Struct(cfg); err != nil {
		return xerrors.NewValidationError("", err.Error(), err)
	}

	for name, crate := range cfg.Crates {
		for _, dep := range crate.Deps {
			if dep == excludedCrate {
				continue
			}
			if _, ok := cfg.Crates[dep]; !ok {
				return xerrors.NewValidationError(
					fmt.Sprintf("crates[%s].deps", name),
					fmt.Sprintf("dependency %q is not a registered crate", dep),
					nil,
				)
			}
		}
	}

	for _, root := range []string{"std", "test", "rustc-main"} {
		if _, ok := cfg.Crates[root]; !ok {
			return xerrors.NewValidationError("crates", fmt.Sprintf("missing required traversal root %q", root), nil)
		}
	}

	if cycle := detectCrateCycle(cfg.Crates); len(cycle) > 0 {
		return xerrors.NewValidationError("crates", fmt.Sprintf("cyclic crate dependency: %v", cycle), nil)
	}

	return nil
}
