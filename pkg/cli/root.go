// Package cli implements the mocker command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Build information, set by main from ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// Global flags.
var (
	configPath string
	logLevel   string
	logFormat  string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "mocker",
	Short: "mocker serves mock HTTP APIs from a declarative route file",
	Long: `mocker reads a route file (JSON, YAML or TOML), matches incoming
requests against the declared patterns and synthesizes responses, with
template directives for parameters, random data and sequences.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// SetBuildInfo records the binary's build metadata for the version command.
func SetBuildInfo(v, c, d string) {
	version, commit, buildDate = v, c, d
}

// Execute runs the CLI. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "mocker.json", "Route file to load")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text, json")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Emit machine-readable JSON output")
}
