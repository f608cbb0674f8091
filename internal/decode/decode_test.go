// internal/decode/decode_test.go
package decode

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"gotest.tools/v3/assert"

	"github.com/tamzrod/solarman-poller/internal/v5"
)

func words(kv ...uint16) map[uint16]v5.Word {
	m := make(map[uint16]v5.Word, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i]] = v5.WordOf(kv[i+1])
	}
	return m
}

func mustRule(t *testing.T, rule int, regs []uint16, scale, offset string, unit string) Rule {
	t.Helper()
	r, err := NewRule(rule, regs, decimal.RequireFromString(scale), decimal.RequireFromString(offset), unit)
	assert.NilError(t, err)
	return r
}

func assertNumber(t *testing.T, v Value, want string) {
	t.Helper()
	assert.Equal(t, v.Kind, KindNumeric)
	assert.Assert(t, v.Number.Equal(decimal.RequireFromString(want)), "got %s want %s", v.Number, want)
}

func TestDecode_NumericReversedWordOrder(t *testing.T) {
	w := words(0x0001, 0x000A, 0x0002, 0x0000)

	raw, err := Decode(mustRule(t, RuleUnsigned16, []uint16{1, 2}, "1", "0", ""), w)
	assert.NilError(t, err)
	assertNumber(t, raw, "10")

	scaled, err := Decode(mustRule(t, RuleUnsigned16, []uint16{1, 2}, "0.1", "0", ""), w)
	assert.NilError(t, err)
	assertNumber(t, scaled, "1.0")
}

func TestDecode_NumericLastListedIsMostSignificant(t *testing.T) {
	w := words(0x0010, 0x0001, 0x0011, 0x0002)

	v, err := Decode(mustRule(t, RuleUnsigned32, []uint16{0x10, 0x11}, "1", "0", ""), w)
	assert.NilError(t, err)
	assertNumber(t, v, "131073") // 0x00020001
}

func TestDecode_NumericSignedness(t *testing.T) {
	w := words(0x20, 0xFFFF, 0x21, 0xFFFE, 0x22, 0xFFFF, 0x23, 0x7FFF)

	cases := []struct {
		name string
		rule int
		regs []uint16
		want string
	}{
		{"unsigned16 all ones", RuleUnsigned16, []uint16{0x20}, "65535"},
		{"signed16 all ones", RuleSigned16, []uint16{0x20}, "-1"},
		{"signed16 positive", RuleSigned16, []uint16{0x23}, "32767"},
		{"signed32 minus two", RuleSigned32, []uint16{0x21, 0x22}, "-2"},
		{"unsigned32", RuleUnsigned32, []uint16{0x21, 0x22}, "4294967294"},
		{"rule zero unsigned", RuleUnsigned, []uint16{0x20}, "65535"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := Decode(mustRule(t, tc.rule, tc.regs, "1", "0", ""), w)
			assert.NilError(t, err)
			assertNumber(t, v, tc.want)
		})
	}
}

func TestDecode_OffsetAppliedBeforeScale(t *testing.T) {
	w := words(0x30, 3000)

	v, err := Decode(mustRule(t, RuleUnsigned16, []uint16{0x30}, "0.1", "1000", "°C"), w)
	assert.NilError(t, err)
	assertNumber(t, v, "200")
	assert.Equal(t, v.Unit, "°C")
	assert.Equal(t, v.String(), "200 °C")
}

func TestDecode_StringKeepsListedOrder(t *testing.T) {
	w := words(0x01, uint16('H')<<8|uint16('i'), 0x02, uint16('!')<<8)

	v, err := Decode(mustRule(t, RuleString, []uint16{1, 2}, "1", "0", ""), w)
	assert.NilError(t, err)
	assert.Equal(t, v.Kind, KindText)
	assert.Equal(t, v.Text, "Hi!\x00")
}

func TestDecode_RawIsReversed(t *testing.T) {
	w := words(0x01, 0x000A, 0x02, 0x1234)

	v, err := Decode(mustRule(t, RuleRaw, []uint16{1, 2}, "1", "0", ""), w)
	assert.NilError(t, err)
	assert.Equal(t, v.Kind, KindRawHex)
	assert.Equal(t, v.Text, "[1234,000A]")
}

func TestDecode_TextRules(t *testing.T) {
	w := words(
		0x40, 0x1234,
		0x41, 0xA0B1,
		0x50, 0x1807,
		0x51, 0x0F0C,
		0x52, 0x1E05,
		0x60, 1230,
		0x61, 905,
	)

	cases := []struct {
		name string
		rule int
		regs []uint16
		want string
	}{
		{"version", RuleVersion, []uint16{0x40, 0x41}, "1.2.3.4-A.0.B.1"},
		{"date time", RuleDateTime, []uint16{0x50, 0x51, 0x52}, "24/07/15 12:30:05"},
		{"time of day", RuleTimeOfDay, []uint16{0x60}, "12:30"},
		{"time of day padded", RuleTimeOfDay, []uint16{0x61}, "09:05"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := Decode(mustRule(t, tc.rule, tc.regs, "1", "0", ""), w)
			assert.NilError(t, err)
			assert.Equal(t, v.Kind, KindText)
			assert.Equal(t, v.Text, tc.want)
		})
	}
}

func TestDecode_DateTimeNeedsThreeRegisters(t *testing.T) {
	w := words(0x50, 0x1807)

	_, err := Decode(mustRule(t, RuleDateTime, []uint16{0x50}, "1", "0", ""), w)
	assert.ErrorContains(t, err, "3 registers")
}

func TestDecode_MissingRegister(t *testing.T) {
	w := words(0x01, 0x0001)

	_, err := Decode(mustRule(t, RuleUnsigned32, []uint16{0x01, 0x02}, "1", "0", ""), w)
	assert.ErrorIs(t, err, ErrMissingRegister)

	var missing *MissingRegisterError
	assert.Assert(t, errors.As(err, &missing))
	assert.Equal(t, missing.Register, uint16(0x02))
}

func TestNewRule(t *testing.T) {
	r, err := NewRule(RuleUnsigned16, []uint16{1}, decimal.Zero, decimal.Zero, "")
	assert.NilError(t, err)
	assert.Assert(t, r.Scale.Equal(decimal.NewFromInt(1)))

	_, err = NewRule(42, []uint16{1}, decimal.Zero, decimal.Zero, "")
	assert.ErrorContains(t, err, "unknown rule 42")

	_, err = NewRule(RuleUnsigned16, nil, decimal.Zero, decimal.Zero, "")
	assert.ErrorContains(t, err, "no registers")
}
