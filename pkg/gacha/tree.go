package gacha

import (
	"fmt"
	"strconv"

	"github.com/zojize/exusiai-bot/pkg/domain"
	"github.com/zojize/exusiai-bot/pkg/dsl"
	"github.com/zojize/exusiai-bot/pkg/probtree"
)

// Leaf names under a rarity node.
const (
	LeafRateUp   = "up"
	LeafStandard = "standard"
)

// Pool is the payload of a leaf: the operators it draws from.
type Pool struct {
	Rarity    int
	RateUp    bool
	Operators []domain.Operator
}

// RarityName returns the node name used for rarity.
func RarityName(rarity int) string {
	return strconv.Itoa(rarity)
}

// BuildTree lays out banner b over the operators of cat.
// A rarity with a zero rate and no operators is omitted; a rarity with a
// positive rate and no operators fails with domain.ErrEmptyPool.
func BuildTree(cat *domain.Catalog, b domain.Banner) (*probtree.Node, error) {
	builder := dsl.New(b.Name)
	rates := b.EffectiveRates()

	for _, rarity := range b.Rarities() {
		rate := rates[rarity]
		up, standard := cat.Pool(b, rarity)
		if len(up)+len(standard) == 0 {
			if rate == 0 {
				continue
			}
			return nil, fmt.Errorf("%w: banner %q has no %d-star operators", domain.ErrEmptyPool, b.Name, rarity)
		}

		share := b.RateUpShareFor(rarity)
		switch {
		case len(up) == 0:
			share = 0
		case len(standard) == 0:
			share = 1
		}

		node := builder.Add(RarityName(rarity), rate)
		if len(up) > 0 {
			node.Add(LeafRateUp, share).Value(&Pool{Rarity: rarity, RateUp: true, Operators: up})
		}
		if len(standard) > 0 {
			node.Add(LeafStandard, 1-share).Value(&Pool{Rarity: rarity, Operators: standard})
		}
	}

	root, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("banner %q: %w", b.Name, err)
	}
	return root, nil
}

// Len returns the number of operators in the pool.
func (p *Pool) Len() int {
	return len(p.Operators)
}
