package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"contrast/internal/watch"
	"contrast/pkg/types"
)

// NewWatchCmd creates the watch command
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch gcode directories and scan new files",
		Long: `Watch runs the scan daemon in the foreground: new or rewritten gcode files
in the configured directories are parsed and their settings stored.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, scanner, err := openScanner()
			if err != nil {
				return err
			}
			defer store.Close()

			daemon, err := watch.NewDaemon(cfg, scanner)
			if err != nil {
				return err
			}

			daemon.SetCallback(func(job watch.ScanJob, md *types.Metadata, err error) {
				if err != nil {
					fmt.Println(errorText(fmt.Sprintf("%s: %v", job.Path, err)))
					return
				}
				fmt.Printf("%s  %s %s  %d options\n",
					successText(md.Filename), md.Slicer, md.SlicerVersion, len(md.Options))
			})

			if err := daemon.Start(); err != nil {
				return err
			}
			defer daemon.Stop()

			for _, dir := range cfg.Gcodes.Dirs {
				fmt.Println(dimText(fmt.Sprintf("watching %s", dir)))
			}
			fmt.Println("Press Ctrl+C to stop.")

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			<-sig
			return nil
		},
	}

	return cmd
}
