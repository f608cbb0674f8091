// internal/decode/pipeline.go
package decode

import (
	"fmt"

	"github.com/tamzrod/solarman-poller/internal/v5"
)

// Item is a named decode rule.
type Item struct {
	ID    string
	Group string
	Name  string
	Rule  Rule
}

// Reading is a decoded item for one cycle.
type Reading struct {
	Item  Item
	Value Value
}

// ItemError ties a decode failure to its item.
type ItemError struct {
	Item string
	Err  error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %q: %v", e.Item, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// Pipeline decodes a fixed item list against each cycle's word map.
type Pipeline struct {
	Items []Item

	// EnforceValidation drops numeric values outside their Validation bounds.
	// Off by default: every value is accepted.
	EnforceValidation bool
}

// Run decodes every item. Failed items are reported in errs and absent
// from readings; one item never prevents another from decoding.
func (p *Pipeline) Run(words map[uint16]v5.Word) (readings []Reading, errs []error) {
	for _, it := range p.Items {
		v, err := Decode(it.Rule, words)
		if err == nil && p.EnforceValidation && v.Kind == KindNumeric && !it.Rule.Validation.Contains(v.Number) {
			err = fmt.Errorf("%w: %s", ErrOutOfRange, v.Number)
		}
		if err != nil {
			errs = append(errs, &ItemError{Item: it.ID, Err: err})
			continue
		}
		readings = append(readings, Reading{Item: it, Value: v})
	}
	return readings, errs
}
