package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cesworks/fieldcheck/internal/client/models"
	"github.com/cesworks/fieldcheck/internal/client/workflow"
)

func newPolicyCmd() *cobra.Command {
	var agree bool
	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Acknowledge the operating policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *App) error {
				if _, err := a.EnterPage(ctx, workflow.PagePolicy, flagToken); err != nil {
					return err
				}
				if !agree {
					return fmt.Errorf("the policy must be acknowledged: rerun with --agree")
				}
				_, err := a.store.Write(ctx, models.Patch{"policyAcknowledged": true})
				if err != nil && !isDegraded(err) {
					return err
				}
				printf(cmd, "policy acknowledged")
				printf(cmd, "next: %s", commandFor(workflow.PageStart))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&agree, "agree", false, "confirm you have read the operating policy")
	return cmd
}
