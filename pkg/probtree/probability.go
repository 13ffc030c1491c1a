package probtree

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits kept by every Probability.
const Places = 2

var one = decimal.NewFromInt(1)

var (
	// Zero is the empty probability.
	Zero = Probability{}
	// One is the whole mass.
	One = Probability{d: one}
)

// Probability is an exact decimal in [0, 1] with at most two fractional digits.
// The zero value is 0.00. Values can only be built through the constructors,
// which validate and round.
type Probability struct {
	d decimal.Decimal
}

// FromDecimal normalizes an exact decimal. Values already carrying two
// digits pass through unchanged; finer values are rounded half-to-even.
func FromDecimal(d decimal.Decimal) (Probability, error) {
	if d.IsNegative() || d.GreaterThan(one) {
		return Zero, fmt.Errorf("%w: %s is outside [0, 1]", ErrInvalidProbability, d.String())
	}
	return Probability{d: d.RoundBank(Places)}, nil
}

// FromFloat converts an approximate value. The range is checked on f itself;
// rounding then works on the float's exact binary value, so 0.165 (stored as
// 0.16500000000000000777) becomes 0.17.
func FromFloat(f float64) (Probability, error) {
	if math.IsNaN(f) || f < 0 || f > 1 {
		return Zero, fmt.Errorf("%w: %v", ErrInvalidProbability, f)
	}
	d, err := decimal.NewFromString(strconv.FormatFloat(f, 'f', Places, 64))
	if err != nil {
		return Zero, fmt.Errorf("%w: %v: %v", ErrInvalidProbability, f, err)
	}
	return FromDecimal(d)
}

// Parse reads a probability from its decimal text form, e.g. "0.02".
func Parse(s string) (Probability, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Zero, fmt.Errorf("%w: %q: %v", ErrInvalidProbability, s, err)
	}
	return FromDecimal(d)
}

// MustFloat is like FromFloat but panics on invalid input.
// It is intended for literals known at compile time.
func MustFloat(f float64) Probability {
	p, err := FromFloat(f)
	if err != nil {
		panic(err)
	}
	return p
}

func fromCents(c int64) Probability {
	return Probability{d: decimal.New(c, -Places)}
}

// Decimal returns the exact value.
func (p Probability) Decimal() decimal.Decimal { return p.d }

// Float64 returns the nearest float64.
func (p Probability) Float64() float64 { return p.d.InexactFloat64() }

// Cents returns the value in hundredths; 0.25 is 25.
func (p Probability) Cents() int64 { return p.d.Shift(Places).IntPart() }

// IsZero reports whether p is 0.
func (p Probability) IsZero() bool { return p.d.IsZero() }

// Equal reports whether both probabilities hold the same value.
func (p Probability) Equal(q Probability) bool { return p.d.Equal(q.d) }

// Cmp compares p and q, returning -1, 0 or +1.
func (p Probability) Cmp(q Probability) int { return p.d.Cmp(q.d) }

// String formats p with exactly two digits, e.g. "0.50".
func (p Probability) String() string { return p.d.StringFixed(Places) }

// MarshalJSON encodes p as a JSON number with two digits.
func (p Probability) MarshalJSON() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (p *Probability) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		s = string(data[1 : len(data)-1])
	}
	if s == "null" {
		*p = Zero
		return nil
	}
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Sum adds probabilities exactly. The result may exceed 1.
func Sum(ps ...Probability) decimal.Decimal {
	total := decimal.Zero
	for _, p := range ps {
		total = total.Add(p.d)
	}
	return total
}
