package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zojize/exusiai-bot/internal/presentation/tui"
)

var pityCmd = &cobra.Command{
	Use:   "pity",
	Short: "Show or reset a user's pity counter",
	Long: `Prints the number of pulls since the user's last pity-rarity operator and the rate
of the next pull. Only meaningful with a persistent pity store (file or redis).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")
		reset, _ := cmd.Flags().GetBool("reset")

		g, _, _, closeFn, err := setup(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		if reset {
			if err := g.ResetPity(cmd.Context(), user); err != nil {
				return err
			}
		}
		st, err := g.Status(cmd.Context(), user)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s on %s: %d pulls without %s, next rate %s\n",
			user, g.Banner().Name, st.Counter, tui.PlainStars(st.Rarity), st.Rate)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pityCmd)

	pityCmd.Flags().StringP("user", "u", "cli", "User whose pity counter is shown")
	pityCmd.Flags().Bool("reset", false, "Reset the counter before showing it")
}
