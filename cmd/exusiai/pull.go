package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/zojize/exusiai-bot/internal/presentation/tui"
	"golang.org/x/term"
)

var pullCmd = &cobra.Command{
	Use:   "pull [count]",
	Short: "Recruit operators from the selected banner",
	Long: `Performs count pulls (default 1, at most 300) and prints the operators.
On a terminal the result is rendered as a table; otherwise one line is printed per pull.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid count %q: %w", args[0], err)
			}
			count = n
		}
		user, _ := cmd.Flags().GetString("user")
		plain, _ := cmd.Flags().GetBool("plain")

		g, _, _, closeFn, err := setup(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		pulls, err := g.Pull(cmd.Context(), user, count)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if plain || !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprint(out, tui.PullsText(pulls, false))
			return nil
		}

		render := tui.NewRenderer()
		rendered, err := render(tui.PullsMarkdown(g.Banner().Name, pulls))
		if err != nil {
			fmt.Fprint(out, tui.PullsText(pulls, true))
			return nil
		}
		fmt.Fprint(out, rendered)

		st, err := g.Status(cmd.Context(), user)
		if err == nil && g.PityEnabled() {
			fmt.Fprintf(out, "Pity: %d pulls without %s, next rate %s\n", st.Counter, tui.PlainStars(st.Rarity), st.Rate)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pullCmd)

	pullCmd.Flags().IntP("count", "n", 1, "Number of pulls")
	pullCmd.Flags().StringP("user", "u", "cli", "User whose pity counter is used")
	pullCmd.Flags().Bool("plain", false, "Print one line per pull even on a terminal")
}
