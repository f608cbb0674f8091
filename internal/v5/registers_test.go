// internal/v5/registers_test.go
package v5

import (
	"errors"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/tamzrod/solarman-poller/internal/v5/v5test"
)

func TestParseRegisters_OK(t *testing.T) {
	frame := v5test.RTUResponse(0x01, 0x03, 0x000A, 0x0000, 0xBEEF)

	regs, err := ParseRegisters(frame, 0x0100, 0x0102)
	assert.NilError(t, err)
	assert.DeepEqual(t, regs, map[uint16]Word{
		0x0100: {0x00, 0x0A},
		0x0101: {0x00, 0x00},
		0x0102: {0xBE, 0xEF},
	})
	assert.Equal(t, regs[0x0102].Uint16(), uint16(0xBEEF))
}

func TestParseRegisters_CorruptedCRC(t *testing.T) {
	frame := v5test.RTUResponse(0x01, 0x03, 0x000A, 0x0000)
	frame[len(frame)-1] ^= 0xFF

	regs, err := ParseRegisters(frame, 0, 1)
	assert.Assert(t, regs != nil)
	assert.Equal(t, len(regs), 0)

	var mismatch *ChecksumMismatchError
	assert.Assert(t, errors.As(err, &mismatch))
	assert.Assert(t, mismatch.Expected != mismatch.Actual)
	assert.Equal(t, Kind(err), "checksum_mismatch")
}

func TestParseRegisters_TooShort(t *testing.T) {
	frame := v5test.RTUResponse(0x01, 0x03, 0x000A)

	regs, err := ParseRegisters(frame, 0, 1)
	assert.ErrorIs(t, err, ErrFrameTooShort)
	assert.Equal(t, len(regs), 0)

	regs, err = ParseRegisters(nil, 0, 0)
	assert.ErrorIs(t, err, ErrFrameTooShort)
	assert.Equal(t, len(regs), 0)
}

func TestParseRegisters_TrailingBytesIgnored(t *testing.T) {
	frame := append(v5test.RTUResponse(0x01, 0x03, 0x1234), 0x00, 0x00)

	regs, err := ParseRegisters(frame, 7, 7)
	assert.NilError(t, err)
	assert.Equal(t, regs[7], WordOf(0x1234))
}

func TestParseRegisters_InvalidRange(t *testing.T) {
	regs, err := ParseRegisters(v5test.RTUResponse(0x01, 0x03, 1), 5, 4)
	assert.ErrorIs(t, err, ErrInvalidRange)
	assert.Equal(t, len(regs), 0)
}
