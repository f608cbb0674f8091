// internal/crc16/crc16.go
package crc16

import "github.com/sigurn/crc16"

// Modbus CRC-16: poly 0xA001 (reflected 0x8005), init 0xFFFF, no final xor.
var table = crc16.MakeTable(crc16.CRC16_MODBUS)

// Checksum returns the Modbus CRC-16 of b.
func Checksum(b []byte) uint16 {
	return crc16.Checksum(b, table)
}

// Append appends the CRC of b to b, low byte first (RTU wire order).
func Append(b []byte) []byte {
	crc := Checksum(b)
	return append(b, byte(crc), byte(crc>>8))
}

// Trailer reads a little-endian CRC from the two bytes at b[0:2].
func Trailer(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}
