// Command bhandar talks to a bhandard daemon.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/rudransh61/Bhandar/api/bhandar/v1/bhandarv1connect"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(&Handler{}).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree around h. A nil h.client is replaced
// by a Connect client for --addr.
func newRootCmd(h *Handler) *cobra.Command {
	var (
		addr    string
		timeout time.Duration
		retries uint64
	)

	root := &cobra.Command{
		Use:           "bhandar",
		Short:         "Client for the bhandar TTL cache",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			h.out = cmd.OutOrStdout()
			h.err = cmd.ErrOrStderr()
			if h.client == nil {
				// no client-wide timeout, watch streams stay open
				h.client = bhandarv1connect.NewCacheServiceClient(&http.Client{}, addr)
			}
			h.retry.maxRetries = retries
			h.retry.timeout = timeout
			h.retry.notify = h.err
		},
	}
	root.PersistentFlags().StringVar(&addr, "addr", "http://localhost:8080", "Daemon base URL")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Per-request timeout")
	root.PersistentFlags().Uint64Var(&retries, "retries", 3, "Retries while the daemon is unreachable")

	root.AddCommand(
		&cobra.Command{
			Use:   "set <key> <value> <ttl>",
			Short: "Set value for key, e.g. set name Alice 60s",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				return h.Set(cmd.Context(), args[0], args[1], args[2])
			},
		},
		&cobra.Command{
			Use:   "get <key>",
			Short: "Get value for key",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return h.Get(cmd.Context(), args[0])
			},
		},
		&cobra.Command{
			Use:   "ttl <key>",
			Short: "Show the time left before key expires",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return h.TTL(cmd.Context(), args[0])
			},
		},
		&cobra.Command{
			Use:     "delete <key>",
			Aliases: []string{"del"},
			Short:   "Delete key",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return h.Delete(cmd.Context(), args[0])
			},
		},
		&cobra.Command{
			Use:     "list",
			Aliases: []string{"keys"},
			Short:   "List all live entries",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return h.List(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "watch [prefix]",
			Short: "Print changes to keys as they happen",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				prefix := ""
				if len(args) == 1 {
					prefix = args[0]
				}
				return h.Watch(cmd.Context(), prefix)
			},
		},
		&cobra.Command{
			Use:   "shell",
			Short: "Interactive prompt accepting set, get, ttl, delete, list and exit",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return h.Shell(cmd.Context(), cmd.InOrStdin())
			},
		},
	)

	return root
}
