// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"fieldcheck/cliparse"
	"fieldcheck/location"
	"fieldcheck/models"
	"fieldcheck/submit"
)

func submitCmd(cfg *cliparse.Config) *cobra.Command {
	var lat, lon float64

	cmd := &cobra.Command{
		Use:   "submit <reportId>",
		Short: "Geotag and submit a completed report",
		Long: `Submit finalizes an inspection report. The report is stamped with the
device's coordinates, read from the configured location beacon (--beacon
or FIELDCHECK_BEACON) or given explicitly with --lat/--lon. Without a
position fix nothing is sent; submission cannot proceed anonymously.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient(cfg)
			if err != nil {
				return err
			}

			var provider location.Provider
			switch {
			case cmd.Flags().Changed("lat") && cmd.Flags().Changed("lon"):
				provider = location.Static{Coords: models.Coordinates{Latitude: lat, Longitude: lon}}
			case cfg.BeaconURL != "":
				provider = location.NewBeacon(cfg.BeaconURL)
			default:
				return fmt.Errorf("no location source: pass --lat/--lon or configure a beacon")
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Acquiring location...")
			coords, err := submit.NewFinalizer(client, provider).Finalize(cmd.Context(), args[0])
			var le *submit.LocationError
			if errors.As(err, &le) {
				return fmt.Errorf("%s", le.Message)
			}
			if err != nil {
				return fmt.Errorf("submission failed, the report is still open for retry: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Report %s submitted at %.6f, %.6f\n",
				args[0], coords.Latitude, coords.Longitude)
			return nil
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude to stamp on the report")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude to stamp on the report")
	return cmd
}
