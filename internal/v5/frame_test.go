// internal/v5/frame_test.go
package v5

import (
	"errors"
	"testing"

	"gotest.tools/v3/assert"
)

const testSerial uint32 = 1717236526

func TestBuildRequest_GoldenFrame(t *testing.T) {
	got := BuildRequest(0x03, 0x0000, 0x0026, testSerial)

	want := []byte{
		0xA5, 0x17, 0x00, 0x10, 0x45, 0x00, 0x00, 0x2E, 0xF3, 0x5A, 0x66, // header
		0x02, 0x00, 0x00, // frame type, sensor type
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // timers
		0x01, 0x03, 0x00, 0x00, 0x00, 0x27, 0x05, 0xD0, // modbus rtu
		0x4F, 0x15, // checksum, end
	}
	assert.DeepEqual(t, got, want)
}

func TestBuildRequest_TwoRegisters(t *testing.T) {
	got := BuildRequest(0x03, 0x0000, 0x0001, testSerial)

	assert.Equal(t, len(got), 36)
	assert.DeepEqual(t, got[26:36], []byte{0x01, 0x03, 0x00, 0x00, 0x00, 0x02, 0xC4, 0x0B, 0x24, 0x15})
}

func TestBuildRequest_AddressingRoundTrip(t *testing.T) {
	cases := []struct {
		fc         uint8
		start, end uint16
	}{
		{0x03, 0x0000, 0x0000},
		{0x03, 0x0003, 0x0080},
		{0x04, 0x0200, 0x027F},
		{0x03, 0xFF00, 0xFFFF},
		{0x41, 0x1234, 0x1240},
	}

	for _, tc := range cases {
		frame := BuildRequest(tc.fc, tc.start, tc.end, testSerial)

		info, err := DescribeRequest(frame)
		assert.NilError(t, err)
		assert.Equal(t, info.FunctionCode, tc.fc)
		assert.Equal(t, info.Start, tc.start)
		assert.Equal(t, info.Count, tc.end-tc.start+1)
		assert.Equal(t, info.End(), tc.end)
		assert.Equal(t, info.Serial, testSerial)
		assert.Equal(t, info.SlaveID, DefaultSlaveID)
	}
}

func TestBuildRequest_ChecksumCoversHeaderAndPayload(t *testing.T) {
	frame := BuildRequest(0x03, 0x0010, 0x0020, 42)

	var sum byte
	for _, b := range frame[1 : len(frame)-2] {
		sum += b
	}
	assert.Equal(t, frame[len(frame)-2], sum)
	assert.Equal(t, frame[len(frame)-1], EndMarker)
}

func TestCodec_SequenceDefaultsToZero(t *testing.T) {
	frame := NewCodec(testSerial).BuildRequest(0x03, 0, 1)
	assert.DeepEqual(t, frame[5:7], []byte{0x00, 0x00})

	c := NewCodec(testSerial)
	c.Sequence = [2]byte{0x7F, 0x00}
	frame = c.BuildRequest(0x03, 0, 1)
	assert.DeepEqual(t, frame[5:7], []byte{0x7F, 0x00})
}

func TestParseSerial(t *testing.T) {
	v, err := ParseSerial("1717236526")
	assert.NilError(t, err)
	assert.Equal(t, v, testSerial)

	v, err = ParseSerial("4294967295")
	assert.NilError(t, err)
	assert.Equal(t, v, uint32(0xFFFFFFFF))

	for _, bad := range []string{"", "abc", "-1", "4294967296", "0x1234"} {
		_, err := ParseSerial(bad)
		assert.Assert(t, errors.Is(err, ErrInvalidSerial), "serial %q", bad)
	}
}

func TestDescribeRequest_Rejects(t *testing.T) {
	_, err := DescribeRequest([]byte{0xA5, 0x15})
	assert.ErrorIs(t, err, ErrFrameTooShort)

	frame := BuildRequest(0x03, 0, 1, testSerial)
	frame[0] = 0x00
	_, err = DescribeRequest(frame)
	assert.ErrorIs(t, err, ErrBadStartMarker)
}
