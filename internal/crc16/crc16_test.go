// internal/crc16/crc16_test.go
package crc16

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestChecksum_KnownVectors(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want uint16
	}{
		{"read one holding register", []byte{0x01, 0x03, 0x00, 0x00, 0x00, 0x01}, 0x0A84},
		{"read 39 holding registers", []byte{0x01, 0x03, 0x00, 0x00, 0x00, 0x27}, 0xD005},
		{"check string", []byte("123456789"), 0x4B37},
		{"single zero byte", []byte{0x00}, 0x40BF},
		{"empty", nil, 0xFFFF},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, Checksum(tc.data), tc.want)
		})
	}
}

func TestAppend_LittleEndianTrailer(t *testing.T) {
	frame := Append([]byte{0x01, 0x03, 0x00, 0x00, 0x00, 0x01})

	assert.DeepEqual(t, frame, []byte{0x01, 0x03, 0x00, 0x00, 0x00, 0x01, 0x84, 0x0A})
	assert.Equal(t, Trailer(frame[6:]), uint16(0x0A84))
}

func TestChecksum_SelfCheck(t *testing.T) {
	// CRC over a frame including its own trailer is zero.
	frame := Append([]byte{0x01, 0x03, 0x02, 0x12, 0x34})
	assert.Equal(t, Checksum(frame), uint16(0))
}
