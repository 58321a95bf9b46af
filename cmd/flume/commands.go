package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fwojciec/flume"
	"github.com/fwojciec/flume/client"
)

type chatFlags struct {
	temperature float64
	render      bool
}

func newChatCmd(root *rootFlags) *cobra.Command {
	flags := &chatFlags{}

	cmd := &cobra.Command{
		Use:   "chat [flags] <message>",
		Short: "Run a streaming chat completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, c, log, err := setup(root)
			if err != nil {
				return err
			}
			mgr := client.NewManager(c, client.WithManagerLogger(log))

			req := client.ChatRequest{
				Messages: []client.ChatMessage{{Role: "user", Content: args[0]}},
			}
			if cmd.Flags().Changed("temperature") {
				req.Options = &client.ChatOptions{Temperature: &flags.temperature}
			}

			ctx, cancel := requestTimeout(cmd.Context(), cfg.Timeout)
			defer cancel()

			id, results := mgr.StartChat(ctx, req, func(evt flume.Event) {
				if e, ok := evt.(flume.EventContent); ok {
					fmt.Print(e.Content)
				}
			})
			abortOnInterrupt(cmd, mgr, id)

			res := <-results
			fmt.Println()
			return printResult(res, flags.render)
		},
	}
	cmd.Flags().Float64Var(&flags.temperature, "temperature", 0, "sampling temperature")
	cmd.Flags().BoolVar(&flags.render, "render", false, "re-render the final content as markdown")
	return cmd
}

type agentFlags struct {
	session string
	locale  string
	render  bool
}

func newAgentCmd(root *rootFlags) *cobra.Command {
	flags := &agentFlags{}

	cmd := &cobra.Command{
		Use:   "agent [flags] <message>",
		Short: "Run a streaming agent request with live tool activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, c, log, err := setup(root)
			if err != nil {
				return err
			}
			mgr := client.NewManager(c, client.WithManagerLogger(log))

			locale := flags.locale
			if locale == "" {
				locale = cfg.Locale
			}
			req := client.AgentRequest{
				UserMessage: args[0],
				Context:     client.ToolContext{SessionID: flags.session, Locale: locale},
				Locale:      locale,
			}

			ctx, cancel := requestTimeout(cmd.Context(), cfg.Timeout)
			defer cancel()

			id, results := mgr.StartAgent(ctx, req, printAgentEvent)
			abortOnInterrupt(cmd, mgr, id)

			res := <-results
			fmt.Println()
			return printResult(res, flags.render)
		},
	}
	cmd.Flags().StringVar(&flags.session, "session", "", "session identifier the agent may consult")
	cmd.Flags().StringVar(&flags.locale, "locale", "", "locale forwarded to the agent (default from config)")
	cmd.Flags().BoolVar(&flags.render, "render", false, "re-render the final content as markdown")
	return cmd
}

func newWatchCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow the import-progress notification stream",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, c, _, err := setup(root)
			if err != nil {
				return err
			}

			stop, err := c.ImportProgress(cmd.Context(), printProgressEvent)
			if err != nil {
				return err
			}
			defer stop()

			<-cmd.Context().Done()
			return nil
		},
	}
}

func newAbortCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "abort <request-id>",
		Short: "Notify the server that a request was abandoned",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, c, _, err := setup(root)
			if err != nil {
				return err
			}
			return c.AbortRequest(cmd.Context(), args[0])
		},
	}
}

// requestTimeout bounds one whole streaming request by the configured
// timeout. Zero means no client-side deadline.
func requestTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}

// abortOnInterrupt routes the command context's cancellation through the
// registry, so an interrupt also notifies the server about the abandoned
// request.
func abortOnInterrupt(cmd *cobra.Command, mgr *client.Manager, requestID string) {
	go func() {
		<-cmd.Context().Done()
		mgr.Abort(requestID)
	}()
}

func printResult(res flume.Result, render bool) error {
	if !res.Success {
		if res.Aborted() {
			fmt.Fprintln(os.Stderr, dimStyle.Render("aborted"))
			return nil
		}
		return fmt.Errorf("request failed: %s", res.Err)
	}

	if render && strings.TrimSpace(res.Content) != "" {
		fmt.Print(renderMarkdown(res.Content))
	}
	fmt.Fprintln(os.Stderr, summaryLine(res))
	return nil
}
