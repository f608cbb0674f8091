// internal/decode/units.go
package decode

import "strings"

// Unit is a canonical physical unit.
type Unit struct {
	Symbol   string
	Quantity string
}

var units = map[string]Unit{
	"A":    {"A", "ElectricCurrent"},
	"V":    {"V", "ElectricPotential"},
	"°C":   {"°C", "Temperature"},
	"W":    {"W", "Power"},
	"KW":   {"kW", "Power"},
	"VA":   {"VA", "Power"},
	"KVA":  {"kVA", "Power"},
	"VAR":  {"var", "Power"},
	"KVAR": {"kvar", "Power"},
	"WH":   {"Wh", "Energy"},
	"KWH":  {"kWh", "Energy"},
	"S":    {"s", "Time"},
	"HZ":   {"Hz", "Frequency"},
	"%":    {"%", "Dimensionless"},
}

// LookupUnit maps a definition unit label to its canonical form.
// Unknown labels report false; callers then treat the value as unitless.
func LookupUnit(uom string) (Unit, bool) {
	u, ok := units[strings.ToUpper(strings.TrimSpace(uom))]
	return u, ok
}
