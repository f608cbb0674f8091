// internal/poller/requests.go
package poller

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tamzrod/solarman-poller/internal/definition"
)

var requestToken = regexp.MustCompile(
	`^\s*(0x[0-9a-fA-F]+|\d+)\s*:\s*(0x[0-9a-fA-F]+|\d+)\s*-\s*(0x[0-9a-fA-F]+|\d+)\s*$`,
)

// ParseAdditionalRequests parses "fc:start-end" tokens separated by commas,
// e.g. "0x03:0x0200-0x0210, 3:600-620". Malformed tokens are dropped with
// a warning; the rest of the list is kept.
func ParseAdditionalRequests(s string, log zerolog.Logger) []RegisterRequest {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var out []RegisterRequest
	for _, tok := range strings.Split(s, ",") {
		m := requestToken.FindStringSubmatch(tok)
		if m == nil {
			log.Warn().Str("token", strings.TrimSpace(tok)).Msg("ignoring malformed additional request")
			continue
		}

		fc, errFC := definition.ParseNumber(m[1])
		start, errStart := definition.ParseNumber(m[2])
		end, errEnd := definition.ParseNumber(m[3])
		if errFC != nil || errStart != nil || errEnd != nil || fc > 0xFF || start > 0xFFFF || end > 0xFFFF {
			log.Warn().Str("token", strings.TrimSpace(tok)).Msg("ignoring additional request with out of range number")
			continue
		}

		out = append(out, RegisterRequest{
			FunctionCode: uint8(fc),
			Start:        uint16(start),
			End:          uint16(end),
		})
	}
	return out
}

// MergeRequests concatenates request lists. Overlaps and duplicates are kept.
func MergeRequests(a, b []RegisterRequest) []RegisterRequest {
	out := make([]RegisterRequest, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

// FromDefinition converts definition requests.
func FromDefinition(reqs []definition.Request) []RegisterRequest {
	out := make([]RegisterRequest, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, RegisterRequest{
			FunctionCode: r.FunctionCode,
			Start:        r.Start,
			End:          r.End,
		})
	}
	return out
}
