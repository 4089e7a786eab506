package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "list the built-in fixture programs",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, f := range fixtures {
			fmt.Printf("%s  %s\n", bold(f.name), f.short)
			fmt.Printf("    flavor: has_await=%v has_show=%v\n", f.flavor.HasAwait, f.flavor.HasShow)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
