package main

import "fmt"

// kindFlags holds the per-command flags shared by build/test/bench/doc/
// dist/install: which stage to plan at, which hosts/targets to override
// the configured matrix with, how far to skip already-built stages, and
// (test/bench only) extra test arguments, which are accepted and logged
// but not passed on to any action.
type kindFlags struct {
	stage     int
	hosts     []string
	targets   []string
	keepStage int
	testArgs  []string
	list      bool
}

func (f *kindFlags) validate() error {
	if f.stage < 0 || f.stage > 2 {
		return fmt.Errorf("--stage must be 0, 1, or 2, got %d", f.stage)
	}
	return nil
}
