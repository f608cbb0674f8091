// internal/decode/decode.go
package decode

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tamzrod/solarman-poller/internal/v5"
)

var (
	// ErrMissingRegister means a register of the rule was not read this cycle.
	ErrMissingRegister = errors.New("decode: register not available")
	// ErrOutOfRange means a numeric value failed enforced validation.
	ErrOutOfRange = errors.New("decode: value out of range")
)

// MissingRegisterError names the absent register.
type MissingRegisterError struct {
	Register uint16
}

func (e *MissingRegisterError) Error() string {
	return fmt.Sprintf("decode: register 0x%04X not available", e.Register)
}

func (e *MissingRegisterError) Is(target error) bool {
	return target == ErrMissingRegister
}

// Decode turns the rule's registers into a value.
// Every register must be present in words.
func Decode(r Rule, words map[uint16]v5.Word) (Value, error) {
	regs := make([]uint16, len(r.Registers))
	for i, addr := range r.Registers {
		w, ok := words[addr]
		if !ok {
			return Value{}, &MissingRegisterError{Register: addr}
		}
		regs[i] = w.Uint16()
	}

	switch r.Kind {
	case KindNumeric:
		return Numeric(numeric(r, regs), r.unitSymbol()), nil
	case KindRawHex:
		return RawHex(raw(regs)), nil
	case KindText:
		s, err := text(r.Rule, regs)
		if err != nil {
			return Value{}, err
		}
		return Text(s), nil
	default:
		return Value{}, fmt.Errorf("decode: unsupported kind %v", r.Kind)
	}
}

func (r Rule) unitSymbol() string {
	u, ok := LookupUnit(r.Unit)
	if !ok {
		return ""
	}
	return u.Symbol
}

// numeric assembles the words last-listed-most-significant and applies
// (raw - offset) * scale.
func numeric(r Rule, regs []uint16) decimal.Decimal {
	acc := new(big.Int)
	for i := len(regs) - 1; i >= 0; i-- {
		acc.Lsh(acc, 16)
		acc.Or(acc, big.NewInt(int64(regs[i])))
	}

	if Signed(r.Rule) {
		width := uint(16 * len(regs))
		if acc.Bit(int(width)-1) == 1 {
			acc.Sub(acc, new(big.Int).Lsh(big.NewInt(1), width))
		}
	}

	return decimal.NewFromBigInt(acc, 0).Sub(r.Offset).Mul(r.Scale)
}

// raw lists the words most significant first.
func raw(regs []uint16) string {
	parts := make([]string, 0, len(regs))
	for i := len(regs) - 1; i >= 0; i-- {
		parts = append(parts, fmt.Sprintf("%04X", regs[i]))
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func text(rule int, regs []uint16) (string, error) {
	switch rule {
	case RuleString:
		b := make([]byte, 0, 2*len(regs))
		for _, v := range regs {
			b = append(b, byte(v>>8), byte(v))
		}
		return string(b), nil

	case RuleVersion:
		parts := make([]string, 0, len(regs))
		for _, v := range regs {
			parts = append(parts, fmt.Sprintf("%X.%X.%X.%X", v>>12, v>>8&0xF, v>>4&0xF, v&0xF))
		}
		return strings.Join(parts, "-"), nil

	case RuleDateTime:
		if len(regs) < 3 {
			return "", fmt.Errorf("decode: date-time needs 3 registers, got %d", len(regs))
		}
		return fmt.Sprintf("%02d/%02d/%02d %02d:%02d:%02d",
			regs[0]>>8, regs[0]&0xFF,
			regs[1]>>8, regs[1]&0xFF,
			regs[2]>>8, regs[2]&0xFF,
		), nil

	case RuleTimeOfDay:
		parts := make([]string, 0, len(regs))
		for _, v := range regs {
			parts = append(parts, fmt.Sprintf("%02d:%02d", v/100, v%100))
		}
		return strings.Join(parts, ","), nil

	default:
		return "", fmt.Errorf("decode: rule %d is not a text rule", rule)
	}
}
