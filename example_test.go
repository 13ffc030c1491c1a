package exusiai_test

import (
	"context"
	"fmt"
	"log"

	"github.com/zojize/exusiai-bot"
	"github.com/zojize/exusiai-bot/pkg/adapters/memory"
	"github.com/zojize/exusiai-bot/pkg/domain"
)

// ExampleNew_memory shows the library with an in-memory catalog. This is
// useful for tests and embedded use without data files.
func ExampleNew_memory() {
	loader := memory.NewFromOperators(
		[]domain.Operator{
			{Name: "Exusiai", CNName: "能天使", Rarity: 6},
			{Name: "Texas", CNName: "德克萨斯", Rarity: 5},
			{Name: "Myrtle", CNName: "桃金娘", Rarity: 4},
			{Name: "Fang", CNName: "芬", Rarity: 3},
		},
		domain.Banner{Name: "standard", RateUps: []string{"Exusiai"}},
	)

	g, err := exusiai.New("", exusiai.WithLoader(loader), exusiai.WithSeed(1))
	if err != nil {
		log.Fatal(err)
	}

	pulls, err := g.Pull10(context.Background(), "doctor")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(len(pulls), g.Banner().Name)
	// Output: 10 standard
}
