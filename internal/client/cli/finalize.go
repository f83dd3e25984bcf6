package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cesworks/fieldcheck/internal/client/api"
	"github.com/cesworks/fieldcheck/internal/client/models"
	"github.com/cesworks/fieldcheck/internal/client/validate"
	"github.com/cesworks/fieldcheck/internal/client/workflow"
)

func newFinalizeCmd() *cobra.Command {
	var sendTo []string
	cmd := &cobra.Command{
		Use:   "finalize",
		Short: "Drain the queue and submit the inspection for good",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *App) error {
				snap, err := a.EnterPage(ctx, workflow.PageSummary, flagToken)
				if err != nil {
					return err
				}
				if snap.Finalized {
					printf(cmd, "already submitted at %s", snap.SubmittedAt)
					return nil
				}

				if err := validate.Finalize(snap); err != nil {
					return fmt.Errorf("not ready to submit: %w", err)
				}

				// Everything queued must land before the terminal submit; a
				// summary rendered from a half-delivered session is worthless.
				printf(cmd, "draining submission queue...")
				if err := a.engine.Drain(ctx, 8); err != nil {
					return fmt.Errorf("queue not drained, staying open: %w", err)
				}

				res, err := a.client.Finalize(ctx, api.FinalizeRequest{
					SessionID: snap.SessionID,
					SendTo:    sendTo,
				})
				if err != nil {
					return fmt.Errorf("finalize: %w", err)
				}

				_, err = a.store.Write(ctx, models.Patch{
					"finalized":   true,
					"submittedAt": res.SubmittedAt,
				})
				if err != nil && !isDegraded(err) {
					return err
				}

				printf(cmd, "submitted at %s", res.SubmittedAt)
				if res.SummaryURL != "" {
					printf(cmd, "summary: %s", res.SummaryURL)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringArrayVar(&sendTo, "send-to", nil, "extra email recipients for the summary, repeatable")
	return cmd
}
