package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/xbuild/xbuild/internal/domain/rules"
)

func TestRunListSortsByPathAndHidesPseudoRules(t *testing.T) {
	reg := rules.NewRegistry()
	reg.Rule("check-rpass", "src/test/run-pass", rules.Test).Register()
	reg.Rule("check-ui", "src/test/ui", rules.Test).Register()
	reg.Rule("remote-copy-libs", rules.PseudoPath, rules.Test).Register()
	reg.Rule("check-tidy", "src/tools/tidy", rules.Build).Register()

	app := &AppContext{Rules: reg}

	cmd := &cobra.Command{Use: "test"}
	var out bytes.Buffer
	cmd.SetOut(&out)

	require.NoError(t, runList(app, cmd, rules.Test))

	got := out.String()
	require.Equal(t, "Available paths:\n"+
		"    ./x.py test src/test/run-pass\n"+
		"    ./x.py test src/test/ui\n", got)
}
