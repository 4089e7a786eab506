package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sunholo/actorc/internal/ir"
	"github.com/sunholo/actorc/internal/irerr"
)

var cpsCmd = &cobra.Command{
	Use:       "cps <fixture>",
	Short:     "run the await/async CPS pass alone over a fixture",
	Args:      cobra.ExactArgs(1),
	ValidArgs: fixtureNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := resolveFixture(args)
		if err != nil {
			return err
		}
		p := f.build()
		out, err := ir.NewCPS(ir.NewFreshGen()).TransformProgram(p)
		if err != nil {
			if ice, ok := irerr.As(err); ok {
				return fmt.Errorf("%s", red(ice.Error()))
			}
			return err
		}
		fmt.Println(ir.PrettyProgram(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cpsCmd)
}
