package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zojize/exusiai-bot/internal/presentation/tui"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Describe the selected banner",
	Long:  `Prints the rarity rates, the rate-up operators and the pity rules of the selected banner.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		g, _, _, closeFn, err := setup(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		info := g.Info()
		markdown := tui.InfoMarkdown(info.Banner, info.Title, info.RateUps, info.Rates, info.Pity, info.Config)

		raw, _ := cmd.Flags().GetBool("raw")
		if raw {
			fmt.Fprint(cmd.OutOrStdout(), markdown)
			return nil
		}
		rendered, err := tui.NewRenderer()(markdown)
		if err != nil {
			rendered = markdown
		}
		fmt.Fprint(cmd.OutOrStdout(), rendered)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().Bool("raw", false, "Print markdown without rendering")
}
