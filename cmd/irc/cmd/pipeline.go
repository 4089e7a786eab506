package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sunholo/actorc/internal/ir"
	"github.com/sunholo/actorc/internal/irerr"
)

var pipelineCmd = &cobra.Command{
	Use:       "pipeline <fixture>",
	Short:     "run the full show-desugar -> alpha-rename -> await-lower pipeline over a fixture",
	Args:      cobra.ExactArgs(1),
	ValidArgs: fixtureNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := resolveFixture(args)
		if err != nil {
			return err
		}
		cfg := loadConfig()
		dumpIR, _ := cmd.Flags().GetBool("dump-ir")

		p := f.build()

		if !cfg.DumpAfterEachPass {
			result, err := ir.Run(p, f.flavor)
			if err != nil {
				if ice, ok := irerr.As(err); ok {
					return fmt.Errorf("%s", red(ice.Error()))
				}
				return err
			}
			if cfg.DumpIR || dumpIR {
				fmt.Println(ir.PrettyProgram(result.Program))
			}
			printFlavorAndTimings(result.Flavor, result.PhaseTimings)
			return nil
		}

		// DumpAfterEachPass drives the three passes directly (rather than
		// ir.Run) so the program can be printed between each one.
		fresh := ir.NewFreshGen()
		timings := make(map[string]int64)

		start := time.Now()
		p, err = ir.NewShow(fresh).TransformProgram(p)
		if runErr := reportPassErr(err); runErr != nil {
			return runErr
		}
		timings["show-desugar"] = time.Since(start).Nanoseconds()
		fmt.Println(bold("-- after show-desugar --"))
		fmt.Println(ir.PrettyProgram(p))

		start = time.Now()
		p, err = ir.NewRenamer(fresh).RenameProgram(p)
		if runErr := reportPassErr(err); runErr != nil {
			return runErr
		}
		timings["alpha-rename"] = time.Since(start).Nanoseconds()
		fmt.Println(bold("-- after alpha-rename --"))
		fmt.Println(ir.PrettyProgram(p))

		start = time.Now()
		p, err = ir.NewCPS(fresh).TransformProgram(p)
		if runErr := reportPassErr(err); runErr != nil {
			return runErr
		}
		timings["await-lower"] = time.Since(start).Nanoseconds()
		fmt.Println(bold("-- after await-lower --"))
		fmt.Println(ir.PrettyProgram(p))

		printFlavorAndTimings(ir.Flavor{HasAwait: false, HasShow: false}, timings)
		return nil
	},
}

func init() {
	pipelineCmd.Flags().Bool("dump-ir", false, "print the final IR (overrides --config's dump_ir)")
	rootCmd.AddCommand(pipelineCmd)
}

func reportPassErr(err error) error {
	if err == nil {
		return nil
	}
	if ice, ok := irerr.As(err); ok {
		return fmt.Errorf("%s", red(ice.Error()))
	}
	return err
}

func printFlavorAndTimings(flavor ir.Flavor, timings map[string]int64) {
	fmt.Printf("%s has_await=%v has_show=%v\n", green("final flavor:"), flavor.HasAwait, flavor.HasShow)
	for _, pass := range ir.Passes() {
		d, ok := timings[pass.Name]
		if !ok {
			continue
		}
		fmt.Printf("  %-14s %s\n", pass.Name, cyan(time.Duration(d).String()))
	}
}
