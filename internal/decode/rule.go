// internal/decode/rule.go
package decode

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Kind is the shape of a decoded value.
type Kind int

const (
	KindNumeric Kind = iota
	KindText
	KindRawHex
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindText:
		return "text"
	case KindRawHex:
		return "raw"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Rule numbers as used by device definitions.
const (
	RuleUnsigned     = 0
	RuleUnsigned16   = 1
	RuleSigned16     = 2
	RuleUnsigned32   = 3
	RuleSigned32     = 4
	RuleString       = 5
	RuleRaw          = 6
	RuleVersion      = 7
	RuleDateTime     = 8
	RuleTimeOfDay    = 9
	highestKnownRule = RuleTimeOfDay
)

// KindOf maps a definition rule number to its value kind.
func KindOf(rule int) (Kind, error) {
	switch {
	case rule >= RuleUnsigned && rule <= RuleSigned32:
		return KindNumeric, nil
	case rule == RuleRaw:
		return KindRawHex, nil
	case rule == RuleString, rule > RuleRaw && rule <= highestKnownRule:
		return KindText, nil
	default:
		return 0, fmt.Errorf("decode: unknown rule %d", rule)
	}
}

// Signed reports whether a numeric rule is two's complement.
func Signed(rule int) bool {
	return rule == RuleSigned16 || rule == RuleSigned32
}

// Validation bounds a numeric value. A nil bound is open.
type Validation struct {
	Min *decimal.Decimal
	Max *decimal.Decimal
}

// Contains reports whether v lies within the bounds (inclusive).
func (v *Validation) Contains(d decimal.Decimal) bool {
	if v == nil {
		return true
	}
	if v.Min != nil && d.LessThan(*v.Min) {
		return false
	}
	if v.Max != nil && d.GreaterThan(*v.Max) {
		return false
	}
	return true
}

// Rule is the interpretation recipe for one item.
//
// Registers keep the order of the device definition. For numeric and raw
// rules the last listed register is the most significant word.
type Rule struct {
	Kind       Kind
	Rule       int
	Registers  []uint16
	Scale      decimal.Decimal
	Offset     decimal.Decimal
	Unit       string
	Validation *Validation
}

// NewRule builds a Rule from a definition rule number.
// A zero scale is treated as 1.
func NewRule(rule int, registers []uint16, scale, offset decimal.Decimal, unit string) (Rule, error) {
	kind, err := KindOf(rule)
	if err != nil {
		return Rule{}, err
	}
	if len(registers) == 0 {
		return Rule{}, fmt.Errorf("decode: rule %d has no registers", rule)
	}
	if scale.IsZero() {
		scale = decimal.NewFromInt(1)
	}
	return Rule{
		Kind:      kind,
		Rule:      rule,
		Registers: registers,
		Scale:     scale,
		Offset:    offset,
		Unit:      unit,
	}, nil
}
