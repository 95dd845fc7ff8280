// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"fieldcheck/api"
	"fieldcheck/cliparse"
	"fieldcheck/session"
)

var version = "0.1.0"

// Execute builds the command tree over the environment configuration and
// runs it.
func Execute() {
	cfg, err := cliparse.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rootCmd := &cobra.Command{
		Use:   "fieldcheck",
		Short: "Factory inspection workflow for field officers",
		Long: `Fieldcheck drives the factory inspection workflow from the terminal:
log in, start an inspection, fill the two-part questionnaire section by
section, review the answers, and submit the geotagged report. Completed
reports feed the regulatory application pipeline, which fieldcheck can
list, advance, and summarize.

Answers are saved to the backend after every section, so an interrupted
inspection resumes where it left off.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfg.APIBaseURL, "api", cfg.APIBaseURL, "inspection backend base URL")
	rootCmd.PersistentFlags().StringVar(&cfg.BeaconURL, "beacon", cfg.BeaconURL, "location beacon URL for geotagging")
	rootCmd.PersistentFlags().StringVar(&cfg.SessionPath, "session", cfg.SessionPath, "session file path")

	rootCmd.AddCommand(loginCmd(&cfg))
	rootCmd.AddCommand(logoutCmd(&cfg))
	rootCmd.AddCommand(startCmd(&cfg))
	rootCmd.AddCommand(reportsCmd(&cfg))
	rootCmd.AddCommand(fillCmd(&cfg))
	rootCmd.AddCommand(reviewCmd(&cfg))
	rootCmd.AddCommand(submitCmd(&cfg))
	rootCmd.AddCommand(applicationsCmd(&cfg))
	rootCmd.AddCommand(downloadCmd(&cfg))
	rootCmd.AddCommand(stubCmd(&cfg))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// openSession loads the persisted session, if any.
func openSession(cfg *cliparse.Config) (*session.Session, error) {
	path := cfg.SessionPath
	if path == "" {
		var err error
		path, err = session.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	sess := session.New(path)
	if err := sess.Load(); err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	return sess, nil
}

// newClient builds an authenticated API client. It fails fast when no
// backend URL is configured or no one is logged in.
func newClient(cfg *cliparse.Config) (*api.Client, *session.Session, error) {
	if err := cfg.RequireAPI(); err != nil {
		return nil, nil, err
	}
	sess, err := openSession(cfg)
	if err != nil {
		return nil, nil, err
	}
	if !sess.Authenticated() {
		return nil, nil, fmt.Errorf("not logged in (run \"fieldcheck login\" first)")
	}

	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	client := api.NewClient(cfg.APIBaseURL, sess, timeout)
	client.OnAuthExpired = func() {
		fmt.Fprintln(os.Stderr, "Session expired. Please log in again.")
	}
	return client, sess, nil
}
