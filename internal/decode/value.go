// internal/decode/value.go
package decode

import "github.com/shopspring/decimal"

// Value is one decoded item. Number is meaningful only for KindNumeric,
// Text for the other kinds.
type Value struct {
	Kind   Kind
	Number decimal.Decimal
	Text   string
	Unit   string
}

// Numeric returns a numeric value with an optional unit symbol.
func Numeric(d decimal.Decimal, unit string) Value {
	return Value{Kind: KindNumeric, Number: d, Unit: unit}
}

// Text returns a text value.
func Text(s string) Value {
	return Value{Kind: KindText, Text: s}
}

// RawHex returns a raw register dump.
func RawHex(s string) Value {
	return Value{Kind: KindRawHex, Text: s}
}

// String renders the value for sinks that carry strings (MQTT, API).
func (v Value) String() string {
	if v.Kind != KindNumeric {
		return v.Text
	}
	if v.Unit == "" {
		return v.Number.String()
	}
	return v.Number.String() + " " + v.Unit
}

// Float returns the numeric value as float64 for metrics.
func (v Value) Float() (float64, bool) {
	if v.Kind != KindNumeric {
		return 0, false
	}
	f, _ := v.Number.Float64()
	return f, true
}
