package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"contrast/pkg/types"
)

// NewInfoCmd creates the info command
func NewInfoCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "info [gcode-file]",
		Short: "Show stored metadata for scanned gcode files",
		Long: `Info prints the stored scan record for a gcode file, or lists all scanned
files when no argument is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openScanner()
			if err != nil {
				return err
			}
			defer store.Close()

			if len(args) == 0 {
				records, err := store.List()
				if err != nil {
					return err
				}
				if asJSON {
					enc := json.NewEncoder(os.Stdout)
					enc.SetIndent("", "  ")
					return enc.Encode(records)
				}
				if len(records) == 0 {
					fmt.Println(dimText("no scanned gcode files"))
					return nil
				}
				for _, md := range records {
					fmt.Printf("%s  %s %s  %s\n",
						primaryText(md.Filename), md.Slicer, md.SlicerVersion,
						dimText(md.ScannedAt.Format("2006-01-02 15:04:05")))
				}
				return nil
			}

			md, err := store.Get(args[0])
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(md)
			}

			printMetadata(md)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	return cmd
}

func printMetadata(md *types.Metadata) {
	fmt.Println(primaryText(md.Filename))
	fmt.Printf("  slicer:   %s %s\n", md.Slicer, md.SlicerVersion)
	fmt.Printf("  size:     %d bytes\n", md.Size)
	fmt.Printf("  modified: %s\n", md.Modified.Format("2006-01-02 15:04:05"))
	fmt.Printf("  scanned:  %s\n", md.ScannedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("  options:  %d\n", len(md.Options))
	for _, name := range md.Options.Names() {
		fmt.Printf("    %s = %v\n", name, md.Options[name])
	}
}
