package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sunholo/actorc/internal/ir"
)

var dumpCmd = &cobra.Command{
	Use:       "dump <fixture>",
	Short:     "print a fixture's IR as-built, with no pass applied",
	Args:      cobra.ExactArgs(1),
	ValidArgs: fixtureNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := resolveFixture(args)
		if err != nil {
			return err
		}
		p := f.build()
		fmt.Println(ir.PrettyProgram(p))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}
