// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"fieldcheck/api"
	"fieldcheck/cliparse"
)

func loginCmd(cfg *cliparse.Config) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the inspection backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.RequireAPI(); err != nil {
				return err
			}
			sess, err := openSession(cfg)
			if err != nil {
				return err
			}

			reader := bufio.NewReader(cmd.InOrStdin())
			if email == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Email: ")
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("reading email: %w", err)
				}
				email = strings.TrimSpace(line)
			}
			if password == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Password: ")
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("reading password: %w", err)
				}
				password = strings.TrimSpace(line)
			}

			timeout := cfg.RequestTimeout
			if timeout == 0 {
				timeout = 30 * time.Second
			}
			client := api.NewClient(cfg.APIBaseURL, sess, timeout)

			resp, err := client.Login(cmd.Context(), email, password)
			if errors.Is(err, api.ErrAuthExpired) {
				return fmt.Errorf("invalid email or password")
			}
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s <%s>\n", resp.User.Name, resp.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "officer email")
	cmd.Flags().StringVar(&password, "password", "", "officer password (prompted when omitted)")
	return cmd
}

func logoutCmd(cfg *cliparse.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cfg)
			if err != nil {
				return err
			}
			if err := sess.Invalidate(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}
