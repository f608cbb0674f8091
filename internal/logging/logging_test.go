// internal/logging/logging_test.go
package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
)

func TestNew_JSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer

	l, err := New(&buf, "warn", FormatJSON)
	assert.NilError(t, err)

	l.Info().Msg("dropped")
	l.Warn().Str("logger", "roof").Msg("kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, len(lines), 1)

	var ev map[string]interface{}
	assert.NilError(t, json.Unmarshal([]byte(lines[0]), &ev))
	assert.Equal(t, ev["message"], "kept")
	assert.Equal(t, ev["logger"], "roof")
	assert.Equal(t, ev["level"], "warn")
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer

	l, err := New(&buf, "debug", FormatConsole)
	assert.NilError(t, err)

	l.Debug().Msg("frame")
	assert.Assert(t, strings.Contains(buf.String(), "frame"))
}

func TestNew_Errors(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "loud", FormatJSON)
	assert.ErrorContains(t, err, "logging")

	_, err = New(&bytes.Buffer{}, "info", "xml")
	assert.ErrorContains(t, err, "unknown format")
}
