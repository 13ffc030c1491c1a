package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var bannersCmd = &cobra.Command{
	Use:   "banners",
	Short: "List the banners of the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		g, _, _, closeFn, err := setup(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		current := g.Banner().Name
		for _, b := range g.Banners() {
			marker := " "
			if b.Name == current {
				marker = "*"
			}
			if b.Title != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\t%s\n", marker, b.Name, b.Title)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, b.Name)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(bannersCmd)
}
