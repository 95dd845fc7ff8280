// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"fieldcheck/cliparse"
)

func applicationsCmd(cfg *cliparse.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "applications",
		Aliases: []string{"apps"},
		Short:   "Track the regulatory application pipeline",
		Long: `A completed inspection report can be escalated into a regulatory
application, which then moves through a fixed pipeline of phases:

  Show Cause Notice, Improvement Notice, Proposal by Field Officer,
  Action at Director, Government, Complaint Filed, Disposal`,
	}
	cmd.AddCommand(appsListCmd(cfg))
	cmd.AddCommand(appsCreateCmd(cfg))
	cmd.AddCommand(appsStatusCmd(cfg))
	cmd.AddCommand(appsHistoryCmd(cfg))
	cmd.AddCommand(appsSummaryCmd(cfg))
	return cmd
}

func appsListCmd(cfg *cliparse.Config) *cobra.Command {
	var status string
	var page, limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List applications, optionally filtered to one phase",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient(cfg)
			if err != nil {
				return err
			}

			result, err := client.GetApplications(cmd.Context(), page, limit, status)
			if err != nil {
				return fmt.Errorf("listing applications: %w", err)
			}

			if len(result.Data) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No applications found.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tEXTERNAL\tPHASE\tREPORT\tUPDATED")
			for _, a := range result.Data {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					a.ID, a.ExternalID, a.CurrentStatus, a.InspectionReportID, humanize.Time(a.UpdatedAt))
			}
			w.Flush()
			fmt.Fprintf(cmd.OutOrStdout(), "\nShowing %d of %d (page %d)\n", len(result.Data), result.Total, result.Page)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by pipeline phase")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", 10, "page size")
	return cmd
}

func appsCreateCmd(cfg *cliparse.Config) *cobra.Command {
	var externalID string

	cmd := &cobra.Command{
		Use:   "create <reportId>",
		Short: "Derive an application from a completed report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient(cfg)
			if err != nil {
				return err
			}

			app, err := client.SubmitApplication(cmd.Context(), args[0], externalID)
			if err != nil {
				return fmt.Errorf("creating application: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Application %s created in phase %q\n", app.ID, app.CurrentStatus)
			return nil
		},
	}

	cmd.Flags().StringVar(&externalID, "external-id", "", "external case number for the application")
	cmd.MarkFlagRequired("external-id")
	return cmd
}

func appsStatusCmd(cfg *cliparse.Config) *cobra.Command {
	var comment string

	cmd := &cobra.Command{
		Use:   "status <applicationId> <phase>",
		Short: "Move an application to another pipeline phase",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient(cfg)
			if err != nil {
				return err
			}

			if err := client.UpdateApplicationStatus(cmd.Context(), args[0], args[1], comment); err != nil {
				return fmt.Errorf("updating status: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Application %s moved to %q\n", args[0], args[1])
			return nil
		},
	}

	cmd.Flags().StringVar(&comment, "comment", "", "comment recorded with the transition")
	return cmd
}

func appsHistoryCmd(cfg *cliparse.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "history <applicationId>",
		Short: "Show the phase transitions of an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient(cfg)
			if err != nil {
				return err
			}

			entries, err := client.GetApplicationStatusHistory(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("fetching history: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "WHEN\tPHASE\tCOMMENT")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\n", humanize.Time(e.CreatedAt), e.Status, e.Comment)
			}
			return w.Flush()
		},
	}
}

func appsSummaryCmd(cfg *cliparse.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Per-phase application counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient(cfg)
			if err != nil {
				return err
			}

			counts, err := client.GetApplicationsStatusSummary(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetching summary: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PHASE\tCOUNT")
			for _, c := range counts {
				fmt.Fprintf(w, "%s\t%d\n", c.Status, c.Count)
			}
			return w.Flush()
		},
	}
}
