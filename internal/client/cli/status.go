package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/cesworks/fieldcheck/internal/client/workflow"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the session, its workflow stage and the queue depth",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *App) error {
				snap, err := a.store.Read(ctx)
				if err != nil {
					return err
				}
				jobs, err := a.queue.List(ctx)
				if err != nil {
					return err
				}
				dead, err := a.queue.ListDead(ctx)
				if err != nil {
					return err
				}

				stage := workflow.StageOf(snap)
				printf(cmd, "session:   %s", orDash(snap.SessionID))
				printf(cmd, "unit:      %s", orDash(snap.DisplayedUnitID))
				printf(cmd, "employee:  %s", orDash(snap.EmployeeID))
				printf(cmd, "stage:     %s", stage)
				printf(cmd, "queued:    %d", len(jobs))
				printf(cmd, "dead:      %d", len(dead))
				if snap.Finalized {
					printf(cmd, "submitted: %s", snap.SubmittedAt)
				} else {
					printf(cmd, "next:      %s", commandFor(nextPage(stage)))
				}
				return nil
			})
		},
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// nextPage names the page where the current stage is resolved.
func nextPage(s workflow.Stage) workflow.Page {
	if p, ok := workflow.PageForStage(s); ok {
		return p
	}
	return workflow.PageSummary
}
