package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cesworks/fieldcheck/internal/client/models"
	"github.com/cesworks/fieldcheck/internal/client/queue"
	"github.com/cesworks/fieldcheck/internal/client/validate"
	"github.com/cesworks/fieldcheck/internal/client/workflow"
)

func newSaveCmd() *cobra.Command {
	var (
		notes      string
		meter      string
		repairDesc string
		answers    []string
		safe       string
		repair     string
	)
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save inspection form fields as a draft and queue the upsert",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *App) error {
				if _, err := a.EnterPage(ctx, workflow.PageMain, flagToken); err != nil {
					return err
				}

				patch := models.Patch{}
				if cmd.Flags().Changed("notes") {
					patch["notes"] = notes
				}
				if cmd.Flags().Changed("meter") {
					patch["meterReading"] = meter
				}
				if cmd.Flags().Changed("repair-desc") {
					patch["repairDesc"] = repairDesc
				}
				if v, err := triState("safe", safe); err != nil {
					return err
				} else if v != nil {
					patch["safeToOperate"] = v
				}
				if v, err := triState("repair", repair); err != nil {
					return err
				} else if v != nil {
					patch["needsRepair"] = v
				}
				if len(answers) > 0 {
					m, err := parseAnswers(answers)
					if err != nil {
						return err
					}
					patch["answers"] = m
				}
				if len(patch) == 0 {
					return fmt.Errorf("nothing to save: pass at least one field flag")
				}

				snap, err := a.store.Write(ctx, patch)
				if err != nil && !isDegraded(err) {
					return err
				}

				if err := validate.Draft(snap); err != nil {
					return fmt.Errorf("draft rejected: %w", err)
				}

				body, err := sessionBody(snap)
				if err != nil {
					return err
				}
				if _, err := a.queue.Enqueue(ctx, queue.JobSpec{Payload: models.UpsertJob{
					Op:   models.OpSessionUpsert,
					Key:  models.NaturalKey{SessionID: snap.SessionID},
					Body: body,
				}}); err != nil {
					return err
				}

				printf(cmd, "draft saved, upsert queued for %s", snap.SessionID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&notes, "notes", "", "free-form inspection notes")
	cmd.Flags().StringVar(&meter, "meter", "", "meter/hour reading")
	cmd.Flags().StringVar(&repairDesc, "repair-desc", "", "what needs repairing")
	cmd.Flags().StringArrayVar(&answers, "answer", nil, "checklist answer as key=value, repeatable")
	cmd.Flags().StringVar(&safe, "safe", "", "is the unit safe to operate: yes or no")
	cmd.Flags().StringVar(&repair, "repair", "", "does the unit need repair: yes or no")
	return cmd
}

// triState maps a yes/no flag to the snapshot's pointer-bool. Empty means
// the flag was not passed and the stored value stays untouched.
func triState(name, v string) (*bool, error) {
	switch strings.ToLower(v) {
	case "":
		return nil, nil
	case "yes", "y", "true":
		return models.Bool(true), nil
	case "no", "n", "false":
		return models.Bool(false), nil
	}
	return nil, fmt.Errorf("--%s takes yes or no, got %q", name, v)
}

func parseAnswers(pairs []string) (map[string]models.Answer, error) {
	m := make(map[string]models.Answer, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("answer %q is not key=value", pair)
		}
		m[k] = models.DetectAnswer(v)
	}
	return m, nil
}
