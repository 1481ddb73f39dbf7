package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewScanCmd creates the scan command
func NewScanCmd() *cobra.Command {
	var (
		noSave  bool
		asJSON  bool
		rawVals bool
	)

	cmd := &cobra.Command{
		Use:   "scan <gcode-file>",
		Short: "Parse a gcode file's slicer settings",
		Long: `Scan detects the slicer that produced a gcode file, parses the settings
block it embedded, and stores the result in the metadata database. Bare
filenames are looked up in the configured gcode directories.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if rawVals {
				cfg.Scan.RawValues = true
			}

			store, scanner, err := openScanner()
			if err != nil {
				return err
			}
			defer store.Close()

			md, err := scanner.Scan(args[0], !noSave)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(md)
			}

			fmt.Println(primaryText(md.Filename))
			fmt.Printf("  slicer:  %s %s\n", md.Slicer, md.SlicerVersion)
			fmt.Printf("  options: %d\n", len(md.Options))
			if noSave {
				fmt.Println(warnText("  not saved (--no-save)"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noSave, "no-save", false, "parse without updating the metadata database")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	cmd.Flags().BoolVar(&rawVals, "raw", false, "keep option values as strings instead of casting")

	return cmd
}
