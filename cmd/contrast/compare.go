package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"contrast/internal/contrast"
	"contrast/internal/errors"
	"contrast/internal/metadata"
	"contrast/pkg/types"
)

// NewCompareCmd creates the compare command
func NewCompareCmd() *cobra.Command {
	var (
		itemized bool
		noCompat bool
		noAll    bool
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "compare <left> <right>",
		Short: "Diff the slicer settings of two gcode files",
		Long: `Compare diffs the stored settings of two scanned gcode files. The itemized
view resolves option names the slicers disagree on through alias tables, so
a PrusaSlicer file can be compared against an Orca or Cura one.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, scanner, err := openScanner()
			if err != nil {
				return err
			}
			defer store.Close()

			mdLeft, err := fetchOrScan(store, scanner, args[0])
			if err != nil {
				return err
			}
			mdRight, err := fetchOrScan(store, scanner, args[1])
			if err != nil {
				return err
			}

			if itemized {
				parser, err := scanner.Parser(mdRight)
				if err != nil {
					return err
				}
				result := contrast.ItemizedDiff(mdLeft.Options, parser, !noCompat, !noAll)
				if asJSON {
					return printJSON(result)
				}
				names := make([]string, 0, len(result))
				for name := range result {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					entry := result[name]
					line := fmt.Sprintf("%s: %v -> %v", primaryText(name), entry["left"], entry["right"])
					if alias, ok := entry["right_opt"]; ok && alias != nil {
						line += dimText(fmt.Sprintf(" (as %v)", alias))
					}
					fmt.Println(line)
				}
				return nil
			}

			diff := contrast.Diff(mdLeft.Options, mdRight.Options)
			if asJSON {
				return printJSON(diff)
			}
			if len(diff.OptNames) == 0 {
				fmt.Println(successText("settings are identical"))
				return nil
			}
			for _, name := range diff.OptNames {
				fmt.Printf("%s: %v | %v\n", primaryText(name), diff.Left[name], diff.Right[name])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&itemized, "itemized", false, "per-option view with alias resolution")
	cmd.Flags().BoolVar(&noCompat, "no-compatibility", false, "disable alias translation in itemized view")
	cmd.Flags().BoolVar(&noAll, "no-all", false, "omit options present on only one side")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	return cmd
}

// fetchOrScan returns the stored record for a file, scanning it first when no
// options are on record.
func fetchOrScan(store *metadata.Store, scanner *metadata.Scanner, filename string) (*types.Metadata, error) {
	md, err := store.Get(filename)
	if err == nil && md.HasOptions() {
		return md, nil
	}
	if err != nil && !errors.IsMetadataNotFound(err) {
		return nil, err
	}
	return scanner.Scan(filename, true)
}

func printJSON(result any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
