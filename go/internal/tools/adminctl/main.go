package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mcdev12/gridiron/go/internal/adminrpc"
)

var (
	addr    string
	token   string
	timeout time.Duration
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "adminctl",
		Short:        "Run operational tasks against a gridiron server",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&addr, "addr", envOr("ADMIN_ADDR", "http://localhost:8080"), "server base URL")
	root.PersistentFlags().StringVar(&token, "token", os.Getenv("ADMIN_TOKEN"), "admin token (defaults to $ADMIN_TOKEN)")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "request timeout")

	root.AddCommand(
		&cobra.Command{
			Use:   "process-waivers <league-id>",
			Short: "Process pending waiver claims for a league now",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				leagueID, err := uuid.Parse(args[0])
				if err != nil {
					return fmt.Errorf("invalid league id %q: %w", args[0], err)
				}
				return call(cmd, func(ctx context.Context, c *adminrpc.Client) (any, error) {
					return c.ProcessWaivers(ctx, leagueID)
				})
			},
		},
		&cobra.Command{
			Use:   "expire-trades",
			Short: "Expire pending trades past their deadline",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return call(cmd, func(ctx context.Context, c *adminrpc.Client) (any, error) {
					return c.ExpireTrades(ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "set-role <user-id> <player|commissioner|admin|suspended>",
			Short: "Change a user's role, including suspending them",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				userID, err := uuid.Parse(args[0])
				if err != nil {
					return fmt.Errorf("invalid user id %q: %w", args[0], err)
				}
				return call(cmd, func(ctx context.Context, c *adminrpc.Client) (any, error) {
					return c.SetUserRole(ctx, userID, args[1])
				})
			},
		},
		&cobra.Command{
			Use:   "health",
			Short: "Show the production monitor's health verdict",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return call(cmd, func(ctx context.Context, c *adminrpc.Client) (any, error) {
					return c.Health(ctx)
				})
			},
		},
	)
	return root
}

func call(cmd *cobra.Command, fn func(context.Context, *adminrpc.Client) (any, error)) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	client := adminrpc.NewClient(http.DefaultClient, addr, token)
	res, err := fn(ctx, client)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), res)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
