package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cesworks/fieldcheck/internal/client/config"
)

var (
	flagConfig string
	flagToken  string
)

// NewRootCmd builds the command tree. Every page command loads the config,
// assembles the app against the local database, and runs the gate before
// doing anything.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fieldcheck",
		Short:         "Offline-tolerant equipment inspection client",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "path to config file")
	root.PersistentFlags().StringVar(&flagToken, "verified-token", "", "one-shot verified marker from the employee-verify handoff")

	root.AddCommand(
		newVerifyCmd(),
		newScanCmd(),
		newLocateCmd(),
		newPolicyCmd(),
		newStartCmd(),
		newSaveCmd(),
		newPhotoCmd(),
		newSyncCmd(),
		newStatusCmd(),
		newRehydrateCmd(),
		newFinalizeCmd(),
	)
	return root
}

// withApp handles the shared setup/teardown around a command body.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *App) error) error {
	ctx := cmd.Context()
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	a, err := NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()
	return fn(ctx, a)
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
}
