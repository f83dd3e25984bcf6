package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

func newSyncCmd() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Flush the submission queue to the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *App) error {
				if watch {
					printf(cmd, "watching connectivity every %s, ctrl-c to stop", a.cfg.OnlineCheckInterval)
					return a.Watch(ctx)
				}

				sum, err := a.engine.FlushAll(ctx)
				if err != nil {
					return err
				}
				printf(cmd, "delivered=%d remaining=%d dead=%d",
					sum.Delivered, sum.Remaining, sum.Dead)

				dead, err := a.queue.ListDead(ctx)
				if err != nil {
					return err
				}
				for _, d := range dead {
					printf(cmd, "dead %s [%s] attempts=%d failed=%s reason=%s",
						d.ID, d.Kind, d.Attempts,
						time.UnixMilli(d.FailedAt).Format(time.RFC3339), d.Reason)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "keep running and flush whenever the server becomes reachable")
	return cmd
}
