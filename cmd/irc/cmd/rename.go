package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sunholo/actorc/internal/ir"
	"github.com/sunholo/actorc/internal/irerr"
)

var renameCmd = &cobra.Command{
	Use:       "rename <fixture>",
	Short:     "run the alpha-renaming pass alone over a fixture",
	Args:      cobra.ExactArgs(1),
	ValidArgs: fixtureNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := resolveFixture(args)
		if err != nil {
			return err
		}
		if f.flavor.HasShow {
			fmt.Fprintln(cmd.ErrOrStderr(), yellow("warning: alpha-rename's precondition is !has_show; this fixture still carries show-desugaring, run `irc show` on it first"))
		}
		p := f.build()
		out, err := ir.NewRenamer(ir.NewFreshGen()).RenameProgram(p)
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
	rootCmd.AddCommand(renameCmd)
}
