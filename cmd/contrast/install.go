package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"contrast/internal/install"
)

// NewInstallCmd creates the install command
func NewInstallCmd() *cobra.Command {
	var (
		configFile string
		installDir string
		sourceDir  string
		section    string
	)

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install the Moonraker component files",
		Long: `Install copies the component files into the Moonraker installation and
adds the plugin's section to moonraker.conf when it is missing. Running it
again on an installed setup changes nothing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configFile == "" {
				configFile = cfg.Moonraker.ConfigFile
			}
			if installDir == "" {
				installDir = cfg.Moonraker.InstallDir
			}
			if sourceDir == "" {
				sourceDir = cfg.Install.SourceDir
			}
			if section == "" {
				section = cfg.Moonraker.Section
			}

			installer := install.New(configFile, installDir, sourceDir, section)
			if err := installer.Run(); err != nil {
				return err
			}

			fmt.Println(successText("Moonraker components installed"))
			fmt.Println(dimText(fmt.Sprintf("  config:  %s", configFile)))
			fmt.Println(dimText(fmt.Sprintf("  install: %s", installDir)))
			return nil
		},
	}

	cmd.Flags().StringVar(&configFile, "moonraker-config", "", "moonraker.conf path (overrides config file)")
	cmd.Flags().StringVar(&installDir, "install-dir", "", "Moonraker installation directory (overrides config file)")
	cmd.Flags().StringVar(&sourceDir, "source", "", "component source directory (overrides config file)")
	cmd.Flags().StringVar(&section, "section", "", "config section to ensure (overrides config file)")

	return cmd
}
