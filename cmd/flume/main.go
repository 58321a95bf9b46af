// Command flume streams chat and agent requests against an analytics
// backend and manages their lifecycle.
//
// Usage:
//
//	flume chat "why did traffic spike last week?"
//	flume agent --session sess-42 "summarize yesterday"
//	flume watch
//	flume abort 01JH2K3M4N5P6Q7R8S9TAVBWCX
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/fwojciec/flume/client"
	"github.com/fwojciec/flume/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "flume: %v\n", err)
		os.Exit(1)
	}
}

type rootFlags struct {
	configPath string
	baseURL    string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "flume",
		Short:         "Streaming client for the analytics backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&flags.configPath, "config", defaultConfigPath(), "path to config file")
	cmd.PersistentFlags().StringVar(&flags.baseURL, "base-url", "", "backend API root (overrides config)")

	cmd.AddCommand(newChatCmd(flags))
	cmd.AddCommand(newAgentCmd(flags))
	cmd.AddCommand(newWatchCmd(flags))
	cmd.AddCommand(newAbortCmd(flags))
	return cmd
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "flume.yaml"
	}
	return home + "/.config/flume/config.yaml"
}

// setup loads configuration and builds the client and logger shared by all
// subcommands.
func setup(flags *rootFlags) (*config.Config, *client.Client, *slog.Logger, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	if flags.baseURL != "" {
		cfg.BaseURL = flags.baseURL
	}

	log := newLogger(cfg.LogLevel)
	c := client.New(cfg.BaseURL, client.WithLogger(log))
	return cfg, c, log, nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
