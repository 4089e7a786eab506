// Command irc drives the actorc IR middle-end standalone: show-desugaring,
// alpha-renaming, and the await/async CPS transform, run over a small set
// of built-in fixture programs (this repo has no lexer/parser of its own).
package main

import (
	"fmt"
	"os"

	"github.com/sunholo/actorc/cmd/irc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
