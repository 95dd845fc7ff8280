// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"fieldcheck/api"
	"fieldcheck/cliparse"
	"fieldcheck/models"
)

func startCmd(cfg *cliparse.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start a new inspection report",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient(cfg)
			if err != nil {
				return err
			}

			report, err := client.StartInspection(cmd.Context())
			if err != nil {
				return fmt.Errorf("starting inspection: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Started inspection report %s\n", report.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "Next: fieldcheck fill %s\n", report.ID)
			return nil
		},
	}
}

func reportsCmd(cfg *cliparse.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "List and inspect reports",
	}
	cmd.AddCommand(startCmd(cfg))
	cmd.AddCommand(reportsListCmd(cfg))
	cmd.AddCommand(reportsShowCmd(cfg))
	cmd.AddCommand(reportsSummaryCmd(cfg))
	return cmd
}

func reportsListCmd(cfg *cliparse.Config) *cobra.Command {
	var status string
	var page, limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your active reports, or filter all reports by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient(cfg)
			if err != nil {
				return err
			}

			var result api.Page[models.InspectionReport]
			if status != "" {
				result, err = client.GetReportsByStatus(cmd.Context(), status, page, limit)
			} else {
				result, err = client.GetActiveReports(cmd.Context(), page, limit)
			}
			if err != nil {
				return fmt.Errorf("listing reports: %w", err)
			}

			if len(result.Data) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No reports found.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTATUS\tFACTORY\tUPDATED")
			for _, r := range result.Data {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.ID, r.Status, r.FactoryName, humanize.Time(r.UpdatedAt))
			}
			w.Flush()
			fmt.Fprintf(cmd.OutOrStdout(), "\nShowing %d of %d (page %d)\n", len(result.Data), result.Total, result.Page)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status (yettostart, draft, in_progress, completed)")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", 10, "page size")
	return cmd
}

func reportsShowCmd(cfg *cliparse.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "show <reportId>",
		Short: "Show one report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient(cfg)
			if err != nil {
				return err
			}

			report, err := client.GetReport(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("fetching report: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Report:   %s\n", report.ID)
			fmt.Fprintf(out, "Status:   %s\n", report.Status)
			if report.FactoryName != "" {
				fmt.Fprintf(out, "Factory:  %s (%s)\n", report.FactoryName, report.FactoryRegistrationNumber)
				fmt.Fprintf(out, "Address:  %s\n", report.FactoryAddress)
			}
			fmt.Fprintf(out, "Created:  %s\n", humanize.Time(report.CreatedAt))
			fmt.Fprintf(out, "Updated:  %s\n", humanize.Time(report.UpdatedAt))
			return nil
		},
	}
}

func reportsSummaryCmd(cfg *cliparse.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Per-status report counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient(cfg)
			if err != nil {
				return err
			}

			counts, err := client.GetStatusSummary(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetching summary: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "STATUS\tCOUNT")
			for _, c := range counts {
				fmt.Fprintf(w, "%s\t%d\n", c.Status, c.Count)
			}
			return w.Flush()
		},
	}
}
