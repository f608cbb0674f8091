// internal/definition/definition.go
package definition

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/tamzrod/solarman-poller/internal/decode"
)

// Definition describes what to read from one inverter model.
type Definition struct {
	Requests   []Request `yaml:"requests"`
	Parameters []Group   `yaml:"parameters"`
}

// Request is an inclusive register range read with one function code.
type Request struct {
	Start        uint16 `yaml:"start"`
	End          uint16 `yaml:"end"`
	FunctionCode uint8  `yaml:"mb_functioncode"`
}

// Group is a named set of items.
type Group struct {
	Group string          `yaml:"group"`
	Items []ParameterItem `yaml:"items"`
}

// ParameterItem is one named value of the inverter.
type ParameterItem struct {
	Name       string          `yaml:"name"`
	Uom        string          `yaml:"uom"`
	Scale      decimal.Decimal `yaml:"scale"`
	Rule       int             `yaml:"rule"`
	Registers  []uint16        `yaml:"registers"`
	Offset     decimal.Decimal `yaml:"offset"`
	Icon       string          `yaml:"icon"`
	Validation *Validation     `yaml:"validation"`
}

// Validation bounds a numeric item.
type Validation struct {
	Min *decimal.Decimal `yaml:"min"`
	Max *decimal.Decimal `yaml:"max"`
}

// Load reads a definition file.
func Load(path string) (*Definition, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	def, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("definition %s: %w", path, err)
	}
	return def, nil
}

// Parse decodes a definition document. Unknown fields are rejected.
func Parse(b []byte) (*Definition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	var def Definition
	if err := dec.Decode(&def); err != nil {
		return nil, err
	}
	if len(def.Requests) == 0 {
		return nil, errors.New("no requests defined")
	}
	return &def, nil
}

// Items converts every parameter into a decode item.
// Items that cannot be converted are reported and left out.
func (d *Definition) Items() ([]decode.Item, []error) {
	var (
		items []decode.Item
		errs  []error
	)
	for _, g := range d.Parameters {
		for _, p := range g.Items {
			it, err := p.Item(g.Group)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			items = append(items, it)
		}
	}
	return items, errs
}

// Item builds the decode item for p within group.
func (p ParameterItem) Item(group string) (decode.Item, error) {
	id := ChannelID(group, p.Name)

	r, err := decode.NewRule(p.Rule, p.Registers, p.Scale, p.Offset, p.Uom)
	if err != nil {
		return decode.Item{}, fmt.Errorf("item %q: %w", id, err)
	}
	if p.Validation != nil {
		r.Validation = &decode.Validation{Min: p.Validation.Min, Max: p.Validation.Max}
	}

	return decode.Item{
		ID:    id,
		Group: group,
		Name:  p.Name,
		Rule:  r,
	}, nil
}
