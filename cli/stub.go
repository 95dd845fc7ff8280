// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"fieldcheck/cliparse"
	"fieldcheck/stubserver"
)

func stubCmd(cfg *cliparse.Config) *cobra.Command {
	var port int
	var noSeed bool

	cmd := &cobra.Command{
		Use:   "stub",
		Short: "Run a local stand-in for the inspection backend",
		Long: `Stub runs a local backend with the full inspection REST surface,
backed by an embedded SQLite database (set DATABASE_TYPE=postgres and
DATABASE_URL to use PostgreSQL instead). It is seeded with a demo
officer and questionnaire so the client can be exercised end to end:

  fieldcheck stub &
  fieldcheck --api http://localhost:3319 login --email ` + stubserver.DemoEmail + `
  fieldcheck --api http://localhost:3319 start`,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := stubserver.Open(*cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if !noSeed {
				if err := stubserver.Seed(db); err != nil {
					return err
				}
			}

			server := http.Server{
				Handler: stubserver.NewRouter(db),
				Addr:    ":" + strconv.Itoa(port),
			}

			// signal.Notify requires the channel to be buffered
			ctrlc := make(chan os.Signal, 1)
			signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-ctrlc
				server.Close()
			}()

			slog.Info("stub backend listening", "port", port, "database", cfg.DatabaseURL)
			fmt.Fprintf(cmd.OutOrStdout(), "Stub backend on http://localhost:%d (login: %s / %s)\n",
				port, stubserver.DemoEmail, stubserver.DemoPassword)

			err = server.ListenAndServe()
			if err != nil && err != http.ErrServerClosed {
				return err
			}
			slog.Info("stub backend stopped")
			return nil
		},
	}

	cmd.Flags().IntVar(&port, "port", cfg.StubPort, "port to listen on")
	cmd.Flags().BoolVar(&noSeed, "no-seed", false, "skip seeding demo data")
	return cmd
}
