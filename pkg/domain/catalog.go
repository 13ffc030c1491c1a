package domain

import (
	"fmt"
	"slices"
)

// Catalog is the full set of operators and banners known to the bot.
type Catalog struct {
	Operators []Operator `json:"operators" yaml:"operators" mapstructure:"operators"`
	Banners   []Banner   `json:"banners" yaml:"banners" mapstructure:"banners"`
}

// Operator finds an operator by either of its names.
func (c *Catalog) Operator(name string) (Operator, bool) {
	for _, op := range c.Operators {
		if op.Matches(name) {
			return op, true
		}
	}
	return Operator{}, false
}

// Banner finds a banner by name.
func (c *Catalog) Banner(name string) (Banner, error) {
	for _, b := range c.Banners {
		if b.Name == name {
			return b, nil
		}
	}
	return Banner{}, fmt.Errorf("%w: %q", ErrBannerNotFound, name)
}

// BannerNames lists banner names in catalog order.
func (c *Catalog) BannerNames() []string {
	names := make([]string, len(c.Banners))
	for i, b := range c.Banners {
		names[i] = b.Name
	}
	return names
}

// Pool returns the operators of rarity available on b, split into rate-up
// and standard groups. Catalog order is preserved.
func (c *Catalog) Pool(b Banner, rarity int) (up, standard []Operator) {
	for _, op := range c.Operators {
		if op.Rarity != rarity || !b.InPool(op) {
			continue
		}
		if b.IsRateUp(op) {
			up = append(up, op)
		} else {
			standard = append(standard, op)
		}
	}
	return up, standard
}

// Merge appends other's entries. Later definitions of an existing name
// replace earlier ones.
func (c *Catalog) Merge(other *Catalog) {
	for _, op := range other.Operators {
		if i := slices.IndexFunc(c.Operators, func(o Operator) bool { return o.Name == op.Name }); i >= 0 {
			c.Operators[i] = op
			continue
		}
		c.Operators = append(c.Operators, op)
	}
	for _, b := range other.Banners {
		if i := slices.IndexFunc(c.Banners, func(x Banner) bool { return x.Name == b.Name }); i >= 0 {
			c.Banners[i] = b
			continue
		}
		c.Banners = append(c.Banners, b)
	}
}

// Validate checks operators and every banner.
func (c *Catalog) Validate() error {
	var errs []error

	seen := make(map[string]bool, len(c.Operators))
	for i, op := range c.Operators {
		key := fmt.Sprintf("operators[%d]", i)
		if op.Name == "" {
			errs = append(errs, &ValidationError{Key: key + ".name", Reason: "required"})
		} else if seen[op.Name] {
			errs = append(errs, &ValidationError{Key: key + ".name", Reason: "duplicate", Value: op.Name})
		}
		seen[op.Name] = true
		if op.Rarity < MinRarity || op.Rarity > MaxRarity {
			errs = append(errs, &ValidationError{Key: key + ".rarity", Reason: "out of range", Value: op.Rarity})
		}
	}

	banners := make(map[string]bool, len(c.Banners))
	for _, b := range c.Banners {
		if banners[b.Name] {
			errs = append(errs, &ValidationError{Key: "banners", Reason: "duplicate", Value: b.Name})
		}
		banners[b.Name] = true
		if err := b.Validate(c); err != nil {
			if nested := ValidationErrors(err); nested != nil {
				errs = append(errs, nested...)
			} else {
				errs = append(errs, err)
			}
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}
