package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zojize/exusiai-bot"
	"github.com/zojize/exusiai-bot/internal/presentation/tui"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of exusiai",
	Run: func(cmd *cobra.Command, args []string) {
		if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
			tui.PrintBanner(cmd.OutOrStdout())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "exusiai version %s\n", strings.TrimSpace(exusiai.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolP("quiet", "q", false, "Print only the version line")
}
