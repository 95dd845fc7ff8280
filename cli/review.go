// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"fieldcheck/cliparse"
	"fieldcheck/review"
)

func reviewCmd(cfg *cliparse.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "review <reportId>",
		Short: "Show the answers of a report before submitting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient(cfg)
			if err != nil {
				return err
			}

			rev, err := review.Assemble(cmd.Context(), client, args[0])
			if err != nil {
				return fmt.Errorf("assembling review: %w", err)
			}

			out := cmd.OutOrStdout()
			if rev.Empty() {
				fmt.Fprintln(out, "No answers recorded for this report yet.")
				return nil
			}

			fmt.Fprintf(out, "Review of report %s\n", rev.ReportID)
			printPart(out, "Part A", rev.PartA)
			if rev.IsPartB {
				printPart(out, "Part B", rev.PartB)
			}
			fmt.Fprintf(out, "\nWhen everything is correct: fieldcheck submit %s\n", rev.ReportID)
			return nil
		},
	}
}

func printPart(out io.Writer, title string, views []review.SectionView) {
	fmt.Fprintf(out, "\n%s\n", title)
	for _, v := range views {
		fmt.Fprintf(out, "  %s\n", v.Section.Name)
		for _, item := range v.Items {
			fmt.Fprintf(out, "    %-4s %s\n", item.Answer.Value, item.Question.Text)
			if item.Answer.Notes != "" {
				fmt.Fprintf(out, "         note: %s\n", item.Answer.Notes)
			}
		}
	}
}
