package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cesworks/fieldcheck/internal/client/models"
	"github.com/cesworks/fieldcheck/internal/client/queue"
	"github.com/cesworks/fieldcheck/internal/client/workflow"
	"github.com/cesworks/fieldcheck/internal/common"
)

func newPhotoCmd() *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "photo <file>...",
		Short: "Queue photos for upload",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *App) error {
				snap, err := a.EnterPage(ctx, workflow.PagePhotos, flagToken)
				if err != nil {
					return err
				}
				if snap.SessionID == "" {
					return fmt.Errorf("no active session: run %q first", commandFor(workflow.PageStart))
				}

				switch kind {
				case common.KindWalk, common.KindRepair, common.KindGeneric:
				default:
					return fmt.Errorf("--kind takes %s, %s or %s",
						common.KindWalk, common.KindRepair, common.KindGeneric)
				}

				for _, path := range args {
					content, err := os.ReadFile(path)
					if err != nil {
						return fmt.Errorf("read photo: %w", err)
					}
					id, err := a.queue.Enqueue(ctx, queue.JobSpec{Payload: models.UploadJob{
						SessionID: snap.SessionID,
						Kind:      kind,
						Filename:  filepath.Base(path),
						Content:   content,
					}})
					if err != nil {
						return err
					}
					printf(cmd, "queued %s (%d bytes) as %s", filepath.Base(path), len(content), id)
				}

				printf(cmd, "run \"fieldcheck sync\" to upload now, or keep working offline")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&kind, "kind", common.KindWalk, "photo set: walk, repair or generic")
	return cmd
}
