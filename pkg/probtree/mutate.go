package probtree

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// divisionPrecision bounds the digits kept while scaling siblings before
// they are rounded back to Places.
const divisionPrecision = 16

// SetChildrenProbabilities assigns ps to the children in order. A shorter
// list leaves the trailing children untouched. Siblings are not
// renormalized; this is meant for configuring a freshly built level.
func (n *Node) SetChildrenProbabilities(ps ...Probability) error {
	if len(ps) > len(n.children) {
		return fmt.Errorf("%w: got %d for %d children", ErrTooManyProbabilities, len(ps), len(n.children))
	}
	for i, p := range ps {
		n.children[i].probability = p
	}
	return nil
}

// SetChildrenFloats converts fs and assigns them positionally. Nothing is
// assigned unless every value converts.
func (n *Node) SetChildrenFloats(fs ...float64) error {
	ps := make([]Probability, len(fs))
	for i, f := range fs {
		p, err := FromFloat(f)
		if err != nil {
			return fmt.Errorf("position %d: %w", i, err)
		}
		ps[i] = p
	}
	return n.SetChildrenProbabilities(ps...)
}

// SetChildrenByName assigns probabilities to the children named in m.
// Every name is resolved before anything changes: an unknown name fails the
// whole call with ErrNameNotFound and leaves the children as they were.
func (n *Node) SetChildrenByName(m map[string]Probability) error {
	targets := make(map[*Node]Probability, len(m))
	for name, p := range m {
		c, ok := n.ChildByName(name)
		if !ok {
			return fmt.Errorf("%w: %q under %s", ErrNameNotFound, name, n.PathString())
		}
		targets[c] = p
	}
	for c, p := range targets {
		c.probability = p
	}
	return nil
}

// SetChildrenFloatsByName is SetChildrenByName for approximate values.
func (n *Node) SetChildrenFloatsByName(m map[string]float64) error {
	ps := make(map[string]Probability, len(m))
	for name, f := range m {
		p, err := FromFloat(f)
		if err != nil {
			return fmt.Errorf("child %q: %w", name, err)
		}
		ps[name] = p
	}
	return n.SetChildrenByName(ps)
}

// SetProbability changes n's share. On a root this is a plain assignment;
// otherwise the parent performs the change and rescales n's siblings.
func (n *Node) SetProbability(p Probability) error {
	if n.parent == nil {
		n.probability = p
		return nil
	}
	return n.parent.SetChildProbability(n.parent.IndexOf(n), p)
}

// SetProbabilityFloat converts f and calls SetProbability.
func (n *Node) SetProbabilityFloat(f float64) error {
	p, err := FromFloat(f)
	if err != nil {
		return err
	}
	return n.SetProbability(p)
}

// SetChildProbabilityByName is SetChildProbability addressed by name.
func (n *Node) SetChildProbabilityByName(name string, p Probability) error {
	c, ok := n.ChildByName(name)
	if !ok {
		return fmt.Errorf("%w: %q under %s", ErrNameNotFound, name, n.PathString())
	}
	return n.SetChildProbability(n.IndexOf(c), p)
}

// SetChildProbability sets the i-th child to p and shifts the difference
// onto the other children in proportion to their current share of the
// remaining mass: each sibling s becomes s - diff*s/(1-old).
//
// Siblings are rounded to two digits and any leftover hundredths are given
// to the siblings with the largest rounding remainders, so the level keeps
// its exact total. Lowering a child that holds all of the mass fails with
// ErrDegenerateRenormalization. A failed call changes nothing.
func (n *Node) SetChildProbability(i int, p Probability) error {
	if i < 0 || i >= len(n.children) {
		return fmt.Errorf("%w: %d of %d", ErrChildIndex, i, len(n.children))
	}
	target := n.children[i]
	old := target.probability
	if p.Equal(old) {
		return nil
	}

	rest := one.Sub(old.d)
	if !rest.IsPositive() {
		return fmt.Errorf("%w: %s held the whole mass", ErrDegenerateRenormalization, target.PathString())
	}

	scaled, err := n.rescaleSiblings(i, rest, one.Sub(p.d))
	if err != nil {
		return err
	}
	for j, s := range scaled {
		if j != i {
			n.children[j].probability = s
		}
	}
	target.probability = p
	return nil
}

type share struct {
	index     int
	cents     int64
	remainder decimal.Decimal
}

// rescaleSiblings computes the new sibling values of child i when the
// remaining mass moves from rest to newRest. The returned slice is indexed
// like n.children; the entry at i is unused.
func (n *Node) rescaleSiblings(i int, rest, newRest decimal.Decimal) ([]Probability, error) {
	out := make([]Probability, len(n.children))
	shares := make([]share, 0, len(n.children)-1)
	exactTotal := decimal.Zero
	var roundedTotal int64

	for j, s := range n.children {
		if j == i {
			continue
		}
		exact := s.probability.d.Mul(newRest).DivRound(rest, divisionPrecision)
		rounded := exact.RoundBank(Places)
		cents := rounded.Shift(Places).IntPart()
		shares = append(shares, share{index: j, cents: cents, remainder: exact.Sub(rounded)})
		exactTotal = exactTotal.Add(exact)
		roundedTotal += cents
	}

	residual := exactTotal.RoundBank(Places).Shift(Places).IntPart() - roundedTotal
	if residual != 0 {
		step := int64(1)
		slices.SortStableFunc(shares, func(a, b share) int { return b.remainder.Cmp(a.remainder) })
		if residual < 0 {
			step = -1
			slices.Reverse(shares)
		}
		for k := range shares {
			if residual == 0 {
				break
			}
			if shares[k].cents+step < 0 {
				continue
			}
			shares[k].cents += step
			residual -= step
		}
		if residual != 0 {
			return nil, fmt.Errorf("%w: cannot distribute %d hundredths under %s", ErrDegenerateRenormalization, residual, n.PathString())
		}
	}

	for _, sh := range shares {
		p, err := FromDecimal(fromCents(sh.cents).d)
		if err != nil {
			return nil, err
		}
		out[sh.index] = p
	}
	return out, nil
}
