package domain

import (
	"fmt"
	"slices"

	"github.com/zojize/exusiai-bot/pkg/probtree"
)

// Default rates for a standard recruitment.
var (
	DefaultRates = map[int]float64{6: 0.02, 5: 0.08, 4: 0.50, 3: 0.40}

	// DefaultRateUpShare is the portion of a rarity's rate reserved for its
	// rate-up operators when a banner has any.
	DefaultRateUpShare = map[int]float64{6: 0.5, 5: 0.5, 4: 0.2}
)

// Pity defaults.
const (
	DefaultPityThreshold = 50
	DefaultPityStep      = 0.02
	DefaultPityRarity    = 6
)

// PityConfig controls the rate increase after a run of pulls without the
// pity rarity. Once Threshold pulls have missed, every further pull raises
// the rarity's rate by Step until it is hit.
type PityConfig struct {
	Disabled  bool    `json:"disabled,omitempty" yaml:"disabled,omitempty" mapstructure:"disabled"`
	Threshold int     `json:"threshold,omitempty" yaml:"threshold,omitempty" mapstructure:"threshold"`
	Step      float64 `json:"step,omitempty" yaml:"step,omitempty" mapstructure:"step"`
	Rarity    int     `json:"rarity,omitempty" yaml:"rarity,omitempty" mapstructure:"rarity"`
}

// WithDefaults fills unset fields.
func (c PityConfig) WithDefaults() PityConfig {
	if c.Threshold == 0 {
		c.Threshold = DefaultPityThreshold
	}
	if c.Step == 0 {
		c.Step = DefaultPityStep
	}
	if c.Rarity == 0 {
		c.Rarity = DefaultPityRarity
	}
	return c
}

// Banner describes one recruitment pool.
type Banner struct {
	Name        string          `json:"name" yaml:"name" mapstructure:"name"`
	Title       string          `json:"title,omitempty" yaml:"title,omitempty" mapstructure:"title"`
	Rates       map[int]float64 `json:"rates,omitempty" yaml:"rates,omitempty" mapstructure:"rates"`
	RateUps     []string        `json:"rateups,omitempty" yaml:"rateups,omitempty" mapstructure:"rateups"`
	RateUpShare map[int]float64 `json:"rateup_share,omitempty" yaml:"rateup_share,omitempty" mapstructure:"rateup_share"`
	// Pool restricts the banner to the named operators. Empty means every
	// operator in the catalog.
	Pool []string   `json:"pool,omitempty" yaml:"pool,omitempty" mapstructure:"pool"`
	Pity PityConfig `json:"pity" yaml:"pity,omitempty" mapstructure:"pity"`
}

// EffectiveRates returns the configured rates or DefaultRates.
func (b Banner) EffectiveRates() map[int]float64 {
	if len(b.Rates) == 0 {
		return DefaultRates
	}
	return b.Rates
}

// Rarities returns the rarities with a configured rate, highest first.
func (b Banner) Rarities() []int {
	rates := b.EffectiveRates()
	out := make([]int, 0, len(rates))
	for r := range rates {
		out = append(out, r)
	}
	slices.Sort(out)
	slices.Reverse(out)
	return out
}

// RateUpShareFor returns the rate-up share for rarity.
func (b Banner) RateUpShareFor(rarity int) float64 {
	if s, ok := b.RateUpShare[rarity]; ok {
		return s
	}
	return DefaultRateUpShare[rarity]
}

// IsRateUp reports whether op is a rate-up operator of b.
func (b Banner) IsRateUp(op Operator) bool {
	return slices.ContainsFunc(b.RateUps, op.Matches)
}

// InPool reports whether op can be recruited from b.
func (b Banner) InPool(op Operator) bool {
	if len(b.Pool) == 0 {
		return true
	}
	return slices.ContainsFunc(b.Pool, op.Matches) || b.IsRateUp(op)
}

// Validate checks b against cat. Every problem is reported.
func (b Banner) Validate(cat *Catalog) error {
	var errs []error
	field := func(f string) string {
		if b.Name == "" {
			return f
		}
		return fmt.Sprintf("banners[%s].%s", b.Name, f)
	}

	if b.Name == "" {
		errs = append(errs, &ValidationError{Key: "name", Reason: "required"})
	}

	rates := b.EffectiveRates()
	ps := make([]probtree.Probability, 0, len(rates))
	for rarity, rate := range rates {
		if rarity < MinRarity || rarity > MaxRarity {
			errs = append(errs, &ValidationError{Key: field("rates"), Reason: "rarity out of range", Value: rarity})
			continue
		}
		p, err := probtree.FromFloat(rate)
		if err != nil {
			errs = append(errs, &ValidationError{Key: field(fmt.Sprintf("rates.%d", rarity)), Reason: err.Error(), Value: rate})
			continue
		}
		ps = append(ps, p)
	}
	if sum := probtree.Sum(ps...); len(ps) == len(rates) && !sum.Equal(probtree.One.Decimal()) {
		errs = append(errs, &ValidationError{Key: field("rates"), Reason: "must sum to 1.00", Value: sum.StringFixed(probtree.Places)})
	}

	for rarity, share := range b.RateUpShare {
		if _, err := probtree.FromFloat(share); err != nil {
			errs = append(errs, &ValidationError{Key: field(fmt.Sprintf("rateup_share.%d", rarity)), Reason: err.Error(), Value: share})
		}
	}

	if cat != nil {
		for _, name := range b.RateUps {
			if _, ok := cat.Operator(name); !ok {
				errs = append(errs, &ValidationError{Key: field("rateups"), Reason: ErrOperatorNotFound.Error(), Value: name})
			}
		}
		for _, name := range b.Pool {
			if _, ok := cat.Operator(name); !ok {
				errs = append(errs, &ValidationError{Key: field("pool"), Reason: ErrOperatorNotFound.Error(), Value: name})
			}
		}
	}

	pity := b.Pity.WithDefaults()
	if !pity.Disabled {
		if pity.Threshold < 0 {
			errs = append(errs, &ValidationError{Key: field("pity.threshold"), Reason: "must not be negative", Value: pity.Threshold})
		}
		if pity.Step <= 0 || pity.Step > 1 {
			errs = append(errs, &ValidationError{Key: field("pity.step"), Reason: "must be in (0, 1]", Value: pity.Step})
		}
		if _, ok := rates[pity.Rarity]; !ok {
			errs = append(errs, &ValidationError{Key: field("pity.rarity"), Reason: "rarity has no rate", Value: pity.Rarity})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}
