package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"contrast/internal/server"
	"contrast/internal/watch"
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	var withWatch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the slicer settings API over HTTP",
		Long: `Serve exposes the scan and comparison operations on the configured listen
address, plus Prometheus metrics on /metrics. With --watch (or watch.enabled
in the config file) the gcode directories are watched and new files scanned
automatically.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, scanner, err := openScanner()
			if err != nil {
				return err
			}
			defer store.Close()

			if withWatch || cfg.Watch.Enabled {
				daemon, err := watch.NewDaemon(cfg, scanner)
				if err != nil {
					return err
				}
				if err := daemon.Start(); err != nil {
					return fmt.Errorf("failed to start watch daemon: %w", err)
				}
				defer daemon.Stop()
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Println(primaryText(fmt.Sprintf("Serving on http://%s", cfg.Server.Address)))
			return server.New(cfg, scanner).Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&withWatch, "watch", false, "also watch the gcode directories for new files")

	return cmd
}
