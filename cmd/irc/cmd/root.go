// Package cmd implements the irc command tree, grounded in the teacher's
// cmd/ailang entry point (version/help texture, colorized diagnostics) and
// in CWBudde-go-dws's cmd/dwscript/cmd package (one file per subcommand,
// each registering itself with rootCmd from its own init()).
package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sunholo/actorc/internal/config"
)

// Version information, set by build flags (-ldflags) in release builds.
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "irc",
	Short: "IR middle-end driver for the actorc compiler",
	Long: bold("irc") + ` exercises the actorc IR middle-end standalone: the
show-desugaring, alpha-renaming, and await/async CPS passes, run over a
small set of built-in fixture programs. The real lexer, parser, surface
typechecker, and code generator are external collaborators this repo does
not implement — irc only drives internal/ir's pipeline.`,
	Version: Version,
}

// Execute runs the root command; main.go's only job is to call this and
// translate a non-nil error into a process exit code.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("irc version {{.Version}}\ncommit: %s\nbuilt:  %s\n", GitCommit, BuildTime))
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a pipeline config YAML file (default: built-in defaults)")
}

// loadConfig reads --config if given, otherwise returns config.Default().
// A bad --config path is a warning, not a fatal error, since every
// subcommand has sensible defaults to fall back on.
func loadConfig() *config.Config {
	if configPath == "" {
		return config.Default()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, yellow(fmt.Sprintf("warning: failed to load --config %s: %v (using defaults)", configPath, err)))
		return config.Default()
	}
	return cfg
}
