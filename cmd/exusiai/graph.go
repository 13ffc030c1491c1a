package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zojize/exusiai-bot/internal/presentation/graph"
	"github.com/zojize/exusiai-bot/pkg/probtree"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the banner tree visualization",
	Long:  `Outputs a Mermaid diagram (graph TD) of the selected banner's probability tree.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		g, _, _, closeFn, err := setup(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		highlight, _ := cmd.Flags().GetStringSlice("highlight")
		var output string
		g.View(func(root *probtree.Node) {
			output = graph.GenerateMermaid(root, &graph.Overlay{Highlight: highlight})
		})
		fmt.Fprint(cmd.OutOrStdout(), output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringSlice("highlight", nil, "Node paths to highlight, e.g. /6/up")
}
