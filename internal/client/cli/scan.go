package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cesworks/fieldcheck/internal/client/models"
	"github.com/cesworks/fieldcheck/internal/client/workflow"
)

func newScanCmd() *cobra.Command {
	var (
		code    string
		rental  bool
		unitID  string
		display string
	)
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Choose the unit: resolve a QR code or switch to rental entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *App) error {
				if _, err := a.EnterPage(ctx, workflow.PageMode, flagToken); err != nil {
					return err
				}

				// Stickers printed for rental units carry a sentinel
				// instead of a real code.
				if code == "NOCODE" || code == "noqr" {
					code = ""
					rental = true
				}

				switch {
				case rental:
					if unitID == "" {
						return fmt.Errorf("rental mode needs --unit-id")
					}
					if display == "" {
						display = unitID
					}
					_, err := a.store.Write(ctx, models.Patch{
						"mode":            "rental",
						"unitId":          unitID,
						"displayedUnitId": display,
						"modeChosen":      true,
					})
					if err != nil && !isDegraded(err) {
						return err
					}
					printf(cmd, "rental unit %s recorded", display)

				case code != "":
					unit, err := a.client.ResolveQR(ctx, code)
					if err != nil {
						return fmt.Errorf("resolve code %q: %w", code, err)
					}
					_, err = a.store.Write(ctx, models.Patch{
						"mode":            "qr",
						"code":            code,
						"unitId":          unit.UnitID,
						"displayedUnitId": unit.DisplayID,
						"unitCategory":    unit.Category,
						"unitType":        unit.UnitType,
						"sFormNum":        unit.SFormNum,
						"modeChosen":      true,
					})
					if err != nil && !isDegraded(err) {
						return err
					}
					printf(cmd, "unit %s (%s %s)", unit.DisplayID, unit.Category, unit.UnitType)

				default:
					return fmt.Errorf("pass --code <qr> or --rental --unit-id <id>")
				}

				printf(cmd, "next: %s", commandFor(workflow.PageLocation))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&code, "code", "", "QR code payload from the unit sticker")
	cmd.Flags().BoolVar(&rental, "rental", false, "unit has no QR sticker, enter it manually")
	cmd.Flags().StringVar(&unitID, "unit-id", "", "unit id for rental entry")
	cmd.Flags().StringVar(&display, "display-id", "", "displayed unit id, defaults to --unit-id")
	return cmd
}
