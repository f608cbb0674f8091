// internal/v5/registers.go
package v5

import (
	"github.com/tamzrod/solarman-poller/internal/crc16"
)

// Word is one raw register value, big-endian within the word.
type Word [2]byte

// Uint16 returns the register value.
func (w Word) Uint16() uint16 {
	return uint16(w[0])<<8 | uint16(w[1])
}

// WordOf packs a register value.
func WordOf(v uint16) Word {
	return Word{byte(v >> 8), byte(v)}
}

// ParseRegisters parses a Modbus-RTU "read registers" response covering
// first..last (inclusive) into an address -> word map.
//
// On any validation failure the returned map is empty (never nil) and the
// error says why.
func ParseRegisters(frame []byte, first, last uint16) (map[uint16]Word, error) {
	registers := make(map[uint16]Word)

	if last < first {
		return registers, ErrInvalidRange
	}

	count := int(last) - int(first) + 1
	// slave(1) + fc(1) + byte count(1) + data
	expected := 2 + 1 + 2*count
	if len(frame) < expected+2 {
		return registers, ErrFrameTooShort
	}

	want := crc16.Checksum(frame[:expected])
	got := crc16.Trailer(frame[expected : expected+2])
	if want != got {
		return registers, &ChecksumMismatchError{Expected: want, Actual: got}
	}

	for i := 0; i < count; i++ {
		p := 3 + 2*i
		registers[first+uint16(i)] = Word{frame[p], frame[p+1]}
	}

	return registers, nil
}
