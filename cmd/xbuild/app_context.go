package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/xbuild/xbuild/internal/config"
	"github.com/xbuild/xbuild/internal/domain/rules"
	"github.com/xbuild/xbuild/internal/ports"
)

// AppContext bundles the long-lived services a command needs: the parsed
// configuration, the populated and verified rule registry, and the
// logger commands derive component-scoped children from.
type AppContext struct {
	Logger  ports.Logger
	Config  *config.Config
	Actions ports.Actions
	Rules   *rules.Registry
}

// CommandContext returns the command's context (falling back to
// Background) together with a component-scoped logger.
func (a *AppContext) CommandContext(cmd *cobra.Command, component string) (context.Context, ports.Logger) {
	ctx := context.Background()
	if cmd != nil && cmd.Context() != nil {
		ctx = cmd.Context()
	}
	return ctx, a.LoggerFor(component)
}

// LoggerFor derives a child logger with the supplied component name.
func (a *AppContext) LoggerFor(component string) ports.Logger {
	if a == nil || a.Logger == nil {
		return nil
	}
	return a.Logger.With("component", component)
}
