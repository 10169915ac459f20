package approval

import (
	"math"
	"strconv"
	"strings"
)

// Comparator is the comparison operator of a predicate. Only greater-than is supported.
type Comparator string

const ComparatorGreater Comparator = ">"

// Context field names understood by predicates
const (
	FieldAmount = "amount"

	// legacyFieldAmount is the misspelling carried by older hierarchy data
	legacyFieldAmount = "ammount"
)

// Predicate is a parsed condition such as "amount>1000".
//
// A predicate that failed to parse keeps its raw text and always holds.
type Predicate struct {
	Field      string
	Comparator Comparator
	Threshold  float64
	Raw        string
	valid      bool
}

// Context carries the values predicates are evaluated against
type Context struct {
	Amount *float64
}

// WithAmount returns a context holding the given amount
func WithAmount(amount float64) Context {
	return Context{Amount: &amount}
}

// value looks up a context field by its canonical name
func (c Context) value(field string) (float64, bool) {
	switch field {
	case FieldAmount:
		if c.Amount == nil {
			return 0, false
		}
		return *c.Amount, true
	default:
		return 0, false
	}
}

// ParsePredicate parses "<field>><number>". Malformed input yields a predicate
// that is not Valid, which Eval treats as satisfied.
func ParsePredicate(raw string) Predicate {
	p := Predicate{Raw: raw}

	field, threshold, found := strings.Cut(strings.TrimSpace(raw), string(ComparatorGreater))
	if !found {
		return p
	}

	field = strings.ToLower(strings.TrimSpace(field))
	if !isFieldName(field) {
		return p
	}
	if field == legacyFieldAmount {
		field = FieldAmount
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(threshold), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return p
	}

	p.Field = field
	p.Comparator = ComparatorGreater
	p.Threshold = value
	p.valid = true
	return p
}

// ParsePredicates parses a condition list in order
func ParsePredicates(raw []string) []Predicate {
	if len(raw) == 0 {
		return nil
	}
	out := make([]Predicate, 0, len(raw))
	for _, r := range raw {
		out = append(out, ParsePredicate(r))
	}
	return out
}

// Valid reports whether the predicate parsed
func (p Predicate) Valid() bool {
	return p.valid
}

// Eval evaluates the predicate. Unparsed predicates and fields missing from
// the context are satisfied.
func (p Predicate) Eval(ctx Context) bool {
	if !p.valid {
		return true
	}
	v, ok := ctx.value(p.Field)
	if !ok {
		return true
	}
	return v > p.Threshold
}

// String returns the canonical form of the predicate
func (p Predicate) String() string {
	if !p.valid {
		return p.Raw
	}
	return p.Field + string(p.Comparator) + strconv.FormatFloat(p.Threshold, 'f', -1, 64)
}

// MarshalText encodes the predicate in its canonical form
func (p Predicate) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses a predicate
func (p *Predicate) UnmarshalText(text []byte) error {
	*p = ParsePredicate(string(text))
	return nil
}

// anySatisfied reports whether at least one predicate holds
func anySatisfied(preds []Predicate, ctx Context) bool {
	for _, p := range preds {
		if p.Eval(ctx) {
			return true
		}
	}
	return false
}

func isFieldName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')) {
			return false
		}
	}
	return true
}
