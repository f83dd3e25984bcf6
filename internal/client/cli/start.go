package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/cesworks/fieldcheck/internal/client/models"
	"github.com/cesworks/fieldcheck/internal/client/queue"
	"github.com/cesworks/fieldcheck/internal/client/workflow"
)

func newStartCmd() *cobra.Command {
	var jobNumber string
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Open the inspection session and queue the first record",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *App) error {
				snap, err := a.EnterPage(ctx, workflow.PageStart, flagToken)
				if err != nil {
					return err
				}

				patch := models.Patch{"started": true}
				sessionID := snap.SessionID
				if sessionID == "" {
					sessionID = models.MintSessionID()
					patch["sessionId"] = sessionID
				}
				if jobNumber != "" {
					patch["jobNumber"] = jobNumber
				}

				snap, err = a.store.Write(ctx, patch)
				if err != nil && !isDegraded(err) {
					return err
				}

				// Best effort only: offline starts run on the minted id and
				// the queued upsert reconciles once connectivity returns.
				if res, err := a.client.StartSession(ctx, sessionID, snap.Code, snap.EmployeeID); err != nil {
					a.log.Warn(ctx, "session not confirmed remotely, continuing offline",
						"sessionID", sessionID, "err", err)
				} else if res.Reused {
					a.log.Info(ctx, "resumed existing remote session", "sessionID", res.SessionID)
				}

				body, err := sessionBody(snap)
				if err != nil {
					return err
				}
				if _, err := a.queue.Enqueue(ctx, queue.JobSpec{Payload: models.UpsertJob{
					Op:   models.OpSessionUpsert,
					Key:  models.NaturalKey{SessionID: sessionID},
					Body: body,
				}}); err != nil {
					return err
				}

				printf(cmd, "session %s started", sessionID)
				printf(cmd, "next: %s", commandFor(workflow.PageMain))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&jobNumber, "job", "", "job number this unit is working")
	return cmd
}
