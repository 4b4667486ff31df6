// Command mcpchat is an interactive chat client bridging the Anthropic
// Messages API with locally spawned MCP tool servers.
//
// Usage:
//
//	mcpchat                          # spawns the bundled weather server
//	MCPCHAT_SERVERS=servers.json mcpchat
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/cexll/mcpchat/pkg/agent"
	"github.com/cexll/mcpchat/pkg/cli"
	"github.com/cexll/mcpchat/pkg/config"
	"github.com/cexll/mcpchat/pkg/mcp"
	"github.com/cexll/mcpchat/pkg/model"
	"github.com/cexll/mcpchat/pkg/model/anthropic"
	"github.com/cexll/mcpchat/pkg/session"
	"github.com/cexll/mcpchat/pkg/tool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error().Err(err).Msg("mcpchat exited with error")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	servers, err := loadServers(cfg)
	if err != nil {
		return err
	}

	sess, err := session.Connect(ctx, servers, logger)
	if err != nil {
		return fmt.Errorf("connect to mcp servers: %w", err)
	}
	defer sess.Close()

	descriptors := sess.Tools()
	for _, desc := range descriptors {
		logger.Info().Str("tool", desc.Name).Str("description", desc.Description).Msg("tool available")
	}

	factory := model.NewFactory(anthropic.NewProvider(nil))
	mdl, err := factory.NewModel(ctx, model.ModelConfig{
		Provider: cfg.Provider,
		Model:    cfg.Model,
		APIKey:   cfg.APIKey,
		Extra:    map[string]any{"max_tokens": cfg.MaxTokens},
	})
	if err != nil {
		return fmt.Errorf("build model: %w", err)
	}

	executor := tool.NewExecutor(sess, descriptors, tool.WithExecutorLogger(logger))
	orchestrator, err := agent.New(mdl, executor, tool.Adapt(descriptors), agent.WithLogger(logger))
	if err != nil {
		return err
	}

	driver := cli.NewDriver(orchestrator,
		cli.WithDriverLogger(logger),
		cli.WithSpinner(isatty.IsTerminal(os.Stderr.Fd())),
	)
	return driver.Run(ctx)
}

func loadServers(cfg *config.Config) ([]mcp.ServerConfig, error) {
	if cfg.ServersFile == "" {
		return config.DefaultServers(), nil
	}
	return config.LoadServers(cfg.ServersFile)
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(writer).Level(lvl).With().Timestamp().Logger()
}
