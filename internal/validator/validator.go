package validator

import (
	"fmt"
	"strings"

	"github.com/zojize/exusiai-bot/pkg/domain"
	"github.com/zojize/exusiai-bot/pkg/gacha"
	"github.com/zojize/exusiai-bot/pkg/probtree"
)

// Report summarizes a catalog that passed validation.
type Report struct {
	Operators int
	Banners   int
	// Unrecruitable lists operators no banner can ever yield, in catalog
	// order. They are not an error.
	Unrecruitable []string
}

// ValidateCatalog checks cat, then builds every banner's tree and checks
// that each level sums to 1. All problems are reported together.
func ValidateCatalog(cat *domain.Catalog) (Report, error) {
	if err := cat.Validate(); err != nil {
		return Report{}, err
	}

	var errors []string
	recruitable := make(map[string]bool, len(cat.Operators))

	for _, b := range cat.Banners {
		root, err := gacha.BuildTree(cat, b)
		if err != nil {
			errors = append(errors, err.Error())
			continue
		}
		if err := root.Validate(); err != nil {
			errors = append(errors, fmt.Sprintf("banner %q: %v", b.Name, err))
			continue
		}

		// Crawl the leaves that can actually be drawn.
		root.Walk(func(_ int, node *probtree.Node) bool {
			if node.Probability().IsZero() && node.Parent() != nil {
				return false
			}
			if pool, ok := node.Value().(*gacha.Pool); ok {
				for _, op := range pool.Operators {
					recruitable[op.Name] = true
				}
			}
			return true
		})
	}

	if len(errors) > 0 {
		return Report{}, fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}

	report := Report{Operators: len(cat.Operators), Banners: len(cat.Banners)}
	for _, op := range cat.Operators {
		if !recruitable[op.Name] {
			report.Unrecruitable = append(report.Unrecruitable, op.Name)
		}
	}
	return report, nil
}
