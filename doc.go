/*
Package exusiai is an Arknights-style recruitment simulator built on an exact
probability tree.

It loads operators and banners from data files, lays each banner out as a
tree of rarities and pools, and draws from it with optional pity. The
package is the library entry point used by the CLI, the HTTP server and the
MCP server.

# Usage

	g, err := exusiai.New("./data", exusiai.WithBanner("standard"))
	if err != nil {
		log.Fatal(err)
	}

	pulls, err := g.Pull10(ctx, "alice")
	if err != nil {
		log.Fatal(err)
	}
	for _, p := range pulls {
		fmt.Println(p.Rarity, p.Operator.DisplayName())
	}

# Packages

  - pkg/probtree: the probability tree with two-digit exact probabilities.
  - pkg/gacha: banner trees, pulls and pity.
  - pkg/adapters: catalog loaders and pity stores (memory, file, redis) plus the HTTP and MCP transports.
*/
package exusiai
