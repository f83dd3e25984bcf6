package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cesworks/fieldcheck/internal/client/models"
	"github.com/cesworks/fieldcheck/internal/client/workflow"
)

func newLocateCmd() *cobra.Command {
	var (
		lat, lon, acc float64
		link          string
		skip          bool
	)
	cmd := &cobra.Command{
		Use:   "locate",
		Short: "Record where the unit sits: GPS fix, maps link, or skip",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *App) error {
				if _, err := a.EnterPage(ctx, workflow.PageLocation, flagToken); err != nil {
					return err
				}

				patch := models.Patch{"locationCaptured": true}
				switch {
				case cmd.Flags().Changed("lat") && cmd.Flags().Changed("lon"):
					patch["gpsLat"] = lat
					patch["gpsLon"] = lon
					patch["gpsTs"] = time.Now().UnixMilli()
					if cmd.Flags().Changed("acc") {
						patch["gpsAcc"] = acc
					}
					patch["locationLink"] = fmt.Sprintf("https://maps.google.com/?q=%f,%f", lat, lon)
				case link != "":
					patch["locationLink"] = link
				case skip:
					// Location is best-effort; an indoor bay has no fix.
				default:
					return fmt.Errorf("pass --lat/--lon, --link, or --skip")
				}

				snap, err := a.store.Write(ctx, patch)
				if err != nil && !isDegraded(err) {
					return err
				}
				if snap.LocationLink != "" {
					printf(cmd, "location: %s", snap.LocationLink)
				} else {
					printf(cmd, "location skipped")
				}
				printf(cmd, "next: %s", commandFor(workflow.PagePolicy))
				return nil
			})
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude of the GPS fix")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude of the GPS fix")
	cmd.Flags().Float64Var(&acc, "acc", 0, "fix accuracy in meters")
	cmd.Flags().StringVar(&link, "link", "", "paste a maps link instead of a fix")
	cmd.Flags().BoolVar(&skip, "skip", false, "continue without a location")
	return cmd
}
