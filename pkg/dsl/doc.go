/*
Package dsl provides a fluent builder for probability trees.

It lets static tables be written as code with plain float64 literals. The
builder converts every probability, attaches the children in declaration
order, and validates that each level sums to 1 before handing the tree out.

Example usage:

	package main

	import (
		"github.com/zojize/exusiai-bot/pkg/dsl"
	)

	func main() {
		b := dsl.New("loot")

		rare := b.Add("rare", 0.1)
		rare.Add("sword", 0.5).Value("Sword of Dawn")
		rare.Add("shield", 0.5).Value("Aegis")

		b.Add("common", 0.9).Value("Copper coin")

		tree, err := b.Build()
		// ... tree.ChoiceRecursive(src)
	}
*/
package dsl
