package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"contrast/internal/config"
	"contrast/internal/log"
	"contrast/internal/metadata"
)

var (
	cfgFile string
	cfg     *config.Config
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "contrast",
		Short: "Slicer settings toolkit for Moonraker printers",
		Long: `Contrast installs its Moonraker components, scans sliced gcode files for
the settings block their slicer embedded, and compares those settings
between files. Scanned settings are kept in a local metadata database and
can be served over HTTP for printer frontends.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfgFile != "" {
				cfg, err = config.LoadConfigFile(cfgFile)
			} else {
				cfg, err = config.LoadConfig()
			}
			if err != nil {
				return err
			}

			if err := log.SetLevel(cfg.Logging.Level); err != nil {
				return fmt.Errorf("invalid log level %q: %w", cfg.Logging.Level, err)
			}
			if cfg.Logging.File != "" {
				if err := log.SetFile(cfg.Logging.File); err != nil {
					return fmt.Errorf("failed to open log file: %w", err)
				}
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/contrast/config.yaml)")

	rootCmd.AddCommand(NewInstallCmd())
	rootCmd.AddCommand(NewScanCmd())
	rootCmd.AddCommand(NewInfoCmd())
	rootCmd.AddCommand(NewCompareCmd())
	rootCmd.AddCommand(NewSummarizeCmd())
	rootCmd.AddCommand(NewServeCmd())
	rootCmd.AddCommand(NewWatchCmd())

	return rootCmd
}

// openScanner opens the metadata store and builds a scanner on top of it.
// The caller closes the returned store.
func openScanner() (*metadata.Store, *metadata.Scanner, error) {
	store, err := metadata.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	return store, metadata.NewScanner(store, cfg), nil
}
