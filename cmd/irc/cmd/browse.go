package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/sunholo/actorc/internal/ir"
	"github.com/sunholo/actorc/internal/irerr"
)

// browseCmd is an interactive session over the fixture set, grounded on
// the teacher's internal/repl REPL loop (liner.NewLiner, a stateful
// prompt, :-prefixed commands, io.EOF ending the session).
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "interactively step a fixture through show-desugar, alpha-rename, and await-lower",
	RunE: func(cmd *cobra.Command, args []string) error {
		runBrowse(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	fmt.Fprintln(out, bold("irc browse"))
	fmt.Fprintln(out, "Commands: :fixtures, :load <name>, :show, :rename, :cps, :dump, :quit")
	fmt.Fprintln(out)

	line.SetCompleter(func(s string) (c []string) {
		commands := []string{":fixtures", ":load", ":show", ":rename", ":cps", ":dump", ":quit"}
		for _, cmd := range commands {
			if strings.HasPrefix(cmd, s) {
				c = append(c, cmd)
			}
		}
		return
	})

	var current *ir.Program
	var currentName string

	for {
		input, err := line.Prompt(browsePrompt(currentName))
		if err == io.EOF {
			fmt.Fprintln(out, green("goodbye"))
			return
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("error"), err)
			continue
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		switch {
		case input == ":quit" || input == ":q":
			fmt.Fprintln(out, green("goodbye"))
			return

		case input == ":fixtures":
			for _, name := range fixtureNames() {
				fmt.Fprintf(out, "  %s\n", name)
			}

		case strings.HasPrefix(input, ":load "):
			name := strings.TrimSpace(strings.TrimPrefix(input, ":load "))
			f, ok := lookupFixture(name)
			if !ok {
				fmt.Fprintf(out, "%s: unknown fixture %q\n", red("error"), name)
				continue
			}
			current = f.build()
			currentName = f.name
			fmt.Fprintf(out, "loaded %s (has_await=%v has_show=%v)\n", bold(f.name), f.flavor.HasAwait, f.flavor.HasShow)

		case input == ":dump":
			if !requireLoaded(out, current) {
				continue
			}
			fmt.Fprintln(out, ir.PrettyProgram(current))

		case input == ":show":
			if !requireLoaded(out, current) {
				continue
			}
			next, err := ir.NewShow(ir.NewFreshGen()).TransformProgram(current)
			if !reportBrowseErr(out, err) {
				continue
			}
			current = next
			fmt.Fprintln(out, ir.PrettyProgram(current))

		case input == ":rename":
			if !requireLoaded(out, current) {
				continue
			}
			next, err := ir.NewRenamer(ir.NewFreshGen()).RenameProgram(current)
			if !reportBrowseErr(out, err) {
				continue
			}
			current = next
			fmt.Fprintln(out, ir.PrettyProgram(current))

		case input == ":cps":
			if !requireLoaded(out, current) {
				continue
			}
			next, err := ir.NewCPS(ir.NewFreshGen()).TransformProgram(current)
			if !reportBrowseErr(out, err) {
				continue
			}
			current = next
			fmt.Fprintln(out, ir.PrettyProgram(current))

		default:
			fmt.Fprintf(out, "%s: unrecognised command %q\n", yellow("warning"), input)
		}
	}
}

func browsePrompt(loaded string) string {
	if loaded == "" {
		return "irc> "
	}
	return fmt.Sprintf("irc[%s]> ", loaded)
}

func requireLoaded(out io.Writer, p *ir.Program) bool {
	if p == nil {
		fmt.Fprintf(out, "%s: no fixture loaded, try :load <name>\n", red("error"))
		return false
	}
	return true
}

func reportBrowseErr(out io.Writer, err error) bool {
	if err == nil {
		return true
	}
	if ice, ok := irerr.As(err); ok {
		fmt.Fprintf(out, "%s: %s\n", red("pass failed"), ice.Error())
		return false
	}
	fmt.Fprintf(out, "%s: %v\n", red("pass failed"), err)
	return false
}
