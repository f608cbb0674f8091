// internal/poller/requests_test.go
package poller

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"gotest.tools/v3/assert"

	"github.com/tamzrod/solarman-poller/internal/definition"
)

func TestParseAdditionalRequests(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	got := ParseAdditionalRequests(" 0x03:0x0200-0x0210, 3 : 600 - 620 ,bogus, 4:1-, 0x100:1-2, 0x04:0x10-0x1F", log)

	assert.DeepEqual(t, got, []RegisterRequest{
		{FunctionCode: 3, Start: 0x0200, End: 0x0210},
		{FunctionCode: 3, Start: 600, End: 620},
		{FunctionCode: 4, Start: 0x10, End: 0x1F},
	})

	// one warning per dropped token
	assert.Equal(t, strings.Count(buf.String(), `"level":"warn"`), 3)
	assert.Assert(t, strings.Contains(buf.String(), "bogus"))
}

func TestParseAdditionalRequests_Empty(t *testing.T) {
	assert.Assert(t, ParseAdditionalRequests("   ", zerolog.Nop()) == nil)
}

func TestMergeRequests_KeepsDuplicates(t *testing.T) {
	a := []RegisterRequest{{FunctionCode: 3, Start: 0, End: 10}}
	b := []RegisterRequest{{FunctionCode: 3, Start: 0, End: 10}, {FunctionCode: 3, Start: 5, End: 20}}

	got := MergeRequests(a, b)
	assert.DeepEqual(t, got, []RegisterRequest{
		{FunctionCode: 3, Start: 0, End: 10},
		{FunctionCode: 3, Start: 0, End: 10},
		{FunctionCode: 3, Start: 5, End: 20},
	})

	// inputs are not aliased
	got[0].End = 99
	assert.Equal(t, a[0].End, uint16(10))
}

func TestFromDefinition(t *testing.T) {
	got := FromDefinition([]definition.Request{{Start: 3, End: 0x70, FunctionCode: 3}})
	assert.DeepEqual(t, got, []RegisterRequest{{FunctionCode: 3, Start: 3, End: 0x70}})
	assert.Equal(t, got[0].Count(), uint16(0x6E))
}
