// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"fieldcheck/cliparse"
)

func downloadCmd(cfg *cliparse.Config) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "download <reportId>",
		Short: "Download the rendered inspection report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient(cfg)
			if err != nil {
				return err
			}

			if output == "" {
				output = "inspection-report-" + args[0] + ".txt"
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			defer f.Close()

			n, err := client.DownloadInspectionReport(cmd.Context(), args[0], f)
			if err != nil {
				os.Remove(output)
				return fmt.Errorf("downloading report: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s)\n", output, humanize.Bytes(uint64(n)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (defaults to inspection-report-<id>.txt)")
	return cmd
}
