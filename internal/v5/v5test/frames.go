// internal/v5/v5test/frames.go

// Package v5test builds synthetic logger responses for tests.
package v5test

import (
	"encoding/binary"

	"github.com/tamzrod/solarman-poller/internal/crc16"
)

// ControlResponse is the control code of a Modbus-RTU response (0x1510, sent LE).
var ControlResponse = [2]byte{0x10, 0x15}

// RTUResponse builds a Modbus-RTU read-registers response with a valid CRC.
func RTUResponse(slave, fc byte, words ...uint16) []byte {
	rtu := []byte{slave, fc, byte(2 * len(words))}
	for _, w := range words {
		rtu = append(rtu, byte(w>>8), byte(w))
	}
	return crc16.Append(rtu)
}

// Response wraps a register response for the given logger serial.
func Response(serial uint32, fc byte, words ...uint16) []byte {
	return Wrap(serial, RTUResponse(0x01, fc, words...))
}

// Wrap places an arbitrary RTU frame inside a V5 response envelope.
func Wrap(serial uint32, rtu []byte) []byte {
	// frame type, status, total working time, power-on time, offset time
	payload := make([]byte, 14, 14+len(rtu))
	payload[0] = 0x02
	payload[1] = 0x01
	payload = append(payload, rtu...)

	frame := make([]byte, 11, 11+len(payload)+2)
	frame[0] = 0xA5
	binary.LittleEndian.PutUint16(frame[1:3], uint16(len(payload)))
	frame[3] = ControlResponse[0]
	frame[4] = ControlResponse[1]
	binary.LittleEndian.PutUint32(frame[7:11], serial)
	frame = append(frame, payload...)

	var sum byte
	for _, b := range frame[1:] {
		sum += b
	}
	return append(frame, sum, 0x15)
}

// ErrorFrame builds a 29-byte logger error frame carrying code at offset 25.
// Bytes 1-2 carry the request control code the error path expects.
func ErrorFrame(serial uint32, code byte) []byte {
	frame := make([]byte, 29)
	frame[0] = 0xA5
	frame[1] = 0x10
	frame[2] = 0x45
	binary.LittleEndian.PutUint32(frame[7:11], serial)
	frame[25] = code
	frame[28] = 0x15
	return frame
}
