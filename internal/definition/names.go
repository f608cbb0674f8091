// internal/definition/names.go
package definition

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var nameReplacer = strings.NewReplacer(
	" ", "_",
	".", "_",
	"(", "_",
	")", "_",
	"/", "_",
	`\`, "_",
	"&", "_",
)

// EscapeName turns an item or group name into an identifier fragment.
func EscapeName(name string) string {
	name = strings.ReplaceAll(name, "+", "plus")
	name = strings.ReplaceAll(name, "-", "minus")
	return nameReplacer.Replace(strings.ToLower(name))
}

// ChannelID is the stable identifier of an item within a logger.
func ChannelID(group, name string) string {
	if group == "" {
		return EscapeName(name)
	}
	return EscapeName(group) + "_" + EscapeName(name)
}

var numberToken = regexp.MustCompile(`^\s*(0x[0-9a-fA-F]+|\d+)\s*$`)

// ParseNumber accepts a decimal or 0x-prefixed hex number.
func ParseNumber(s string) (uint64, error) {
	if strings.HasPrefix(s, "0x") {
		return strconv.ParseUint(s[2:], 16, 64)
	}
	return strconv.ParseUint(s, 10, 64)
}

// ParseRegisterList parses "0x0010, 17" style register lists.
// Malformed tokens are skipped and reported in the error; the valid
// registers are returned either way.
func ParseRegisterList(s string) ([]uint16, error) {
	var (
		regs []uint16
		bad  []string
	)
	for _, tok := range strings.Split(s, ",") {
		m := numberToken.FindStringSubmatch(tok)
		if m == nil {
			bad = append(bad, strings.TrimSpace(tok))
			continue
		}
		v, err := ParseNumber(m[1])
		if err != nil || v > 0xFFFF {
			bad = append(bad, m[1])
			continue
		}
		regs = append(regs, uint16(v))
	}
	if len(bad) > 0 {
		return regs, fmt.Errorf("invalid register tokens %q", bad)
	}
	return regs, nil
}
