package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "exusiai",
	Short: "Exusiai is an Arknights recruitment simulator",
	Long: `Exusiai simulates Arknights headhunting from operator and banner files.
It runs as a one-shot CLI, an HTTP service or an MCP server for chat agents.

Every flag can also be set through an EXUSIAI_* environment variable.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.String("dir", "data", "Directory or file holding the operator and banner catalog")
	flags.StringP("banner", "b", "", "Banner to select (defaults to the first one)")
	flags.Uint64("seed", 0, "Seed for reproducible pulls (0 picks a random seed)")
	flags.Bool("no-pity", false, "Disable pity")
	flags.String("pity-store", "memory", "Where pity counters are kept: memory, file or redis")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
	flags.String("log-format", "text", "Log format: text or json")
}
