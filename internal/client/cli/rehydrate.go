package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cesworks/fieldcheck/internal/client/api"
	"github.com/cesworks/fieldcheck/internal/client/models"
	"github.com/cesworks/fieldcheck/internal/common"
)

func newRehydrateCmd() *cobra.Command {
	var sessionID string
	cmd := &cobra.Command{
		Use:   "rehydrate",
		Short: "Reconcile local state with the server's copy of the session",
		Long: "Fetches the stored session and fills in locally missing fields, " +
			"most importantly photo folder URLs confirmed after a crash. Local " +
			"values always win over remote ones.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *App) error {
				snap, err := a.store.Read(ctx)
				if err != nil {
					return err
				}
				if sessionID == "" {
					sessionID = snap.SessionID
				}
				if sessionID == "" {
					return fmt.Errorf("no session to rehydrate: pass --session")
				}

				remote, err := a.client.GetSession(ctx, sessionID)
				if err != nil {
					if errors.Is(err, common.ErrNotFound) {
						printf(cmd, "server has no record of %s yet", sessionID)
						return nil
					}
					return fmt.Errorf("fetch session: %w", err)
				}

				patch, err := reconcile(snap, remote.Data, remote.PhotoFolders)
				if err != nil {
					return err
				}
				if sessionID != snap.SessionID {
					patch["sessionId"] = sessionID
				}
				if len(patch) == 0 {
					printf(cmd, "local state already complete")
					return nil
				}

				if _, err := a.store.Write(ctx, patch); err != nil && !isDegraded(err) {
					return err
				}
				printf(cmd, "filled %d missing field(s) from the server", len(patch))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "session id, defaults to the active one")
	return cmd
}

// reconcile builds a fill-in-the-blanks patch: only keys absent locally are
// taken from the remote copy, plus photo folder URLs the local snapshot
// never learned about.
func reconcile(snap models.Snapshot, remoteData json.RawMessage, folders []api.PhotoFolder) (models.Patch, error) {
	patch := models.Patch{}

	if len(remoteData) > 0 {
		local, err := json.Marshal(snap)
		if err != nil {
			return nil, err
		}
		var localRaw, remoteRaw map[string]json.RawMessage
		if err := json.Unmarshal(local, &localRaw); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(remoteData, &remoteRaw); err != nil {
			return nil, fmt.Errorf("decode remote session data: %w", err)
		}
		for k, v := range remoteRaw {
			if _, have := localRaw[k]; !have {
				patch[k] = v
			}
		}
	}

	for _, f := range folders {
		switch f.Kind {
		case common.KindWalk:
			if snap.PhotosWalkFolderURL == "" {
				patch["photosWalkFolderUrl"] = f.FolderURL
			}
		case common.KindRepair:
			if snap.PhotosRepairFolderURL == "" {
				patch["photosRepairFolderUrl"] = f.FolderURL
			}
		}
	}
	return patch, nil
}
