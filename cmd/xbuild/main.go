package main

import (
	"context"
	"fmt"
	"os"

	"github.com/xbuild/xbuild/internal/catalog"
	"github.com/xbuild/xbuild/internal/config"
	"github.com/xbuild/xbuild/internal/domain/rules"
	actionsinfra "github.com/xbuild/xbuild/internal/infrastructure/actions"
	logginginfra "github.com/xbuild/xbuild/internal/infrastructure/logging"
)

func main() {
	appLogger, err := logginginfra.New(logginginfra.Options{
		Level:     "info",
		Component: "cli",
		Layer:     "infrastructure",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create application logger: %v\n", err)
		os.Exit(1)
	}

	correlationID := logginginfra.GenerateCorrelationID()
	ctx := logginginfra.WithCorrelationID(context.Background(), correlationID)

	app := &AppContext{Logger: appLogger}

	rootCmd := newRootCmd(app, func(configPath string, verbose bool) error {
		cfg, err := config.ParseConfig(configPath)
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}

		if verbose {
			debugLogger, err := logginginfra.New(logginginfra.Options{
				Level:     "debug",
				Component: "cli",
				Layer:     "infrastructure",
			})
			if err != nil {
				return fmt.Errorf("create verbose logger: %w", err)
			}
			app.Logger = debugLogger
			debugLogger.Info(ctx, "verbose logging enabled")
		}

		workDir, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolve working directory: %w", err)
		}

		act := actionsinfra.New(app.LoggerFor("actions"), workDir)
		reg := rules.NewRegistry()
		if err := catalog.Populate(reg, cfg.Settings, cfg, act); err != nil {
			return fmt.Errorf("populate rule catalog: %w", err)
		}
		if err := reg.Verify(cfg.Settings.BuildTriple(), 2); err != nil {
			return fmt.Errorf("verify rule catalog: %w", err)
		}

		app.Config = cfg
		app.Actions = act
		app.Rules = reg
		return nil
	})

	appLogger.Info(ctx, "starting xbuild command", "pid", os.Getpid())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
