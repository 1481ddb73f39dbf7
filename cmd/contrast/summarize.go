package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"contrast/internal/contrast"
)

// NewSummarizeCmd creates the summarize command
func NewSummarizeCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "summarize <left> <right>",
		Short: "Summarize the settings differences between two gcode files",
		Long: `Summarize buckets the comparison of two scanned files into options added on
the left, removed on the right, modified, and unchanged.`,
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

			summary := contrast.Summarize(mdLeft.Options, mdRight.Options)
			if asJSON {
				return printJSON(summary)
			}

			fmt.Println(primaryText(fmt.Sprintf("%s vs %s", mdLeft.Filename, mdRight.Filename)))
			fmt.Printf("  %s %d  %s %d  modified %d  same %d\n",
				successText("added"), len(summary.Added),
				warnText("removed"), len(summary.Removed),
				len(summary.Modified), len(summary.Same))

			for _, name := range summary.Added {
				fmt.Printf("  + %s\n", name)
			}
			for _, name := range summary.Removed {
				fmt.Printf("  - %s\n", name)
			}
			for name, values := range summary.Modified {
				fmt.Printf("  ~ %s: %v -> %v\n", name, values[0], values[1])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	return cmd
}
