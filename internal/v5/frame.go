// internal/v5/frame.go
package v5

import (
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/tamzrod/solarman-poller/internal/crc16"
)

// V5 envelope constants.
//
// Header (11 bytes):
//
//	Start(1)=0xA5  Length(2,LE)  Control(2)  Sequence(2)  LoggerSerial(4,LE)
//
// Request payload (15 bytes + Modbus-RTU frame):
//
//	FrameType(1)=0x02  SensorType(2)  TotalWorkingTime(4)  PowerOnTime(4)  OffsetTime(4)  RTU(n)
//
// Trailer (2 bytes):
//
//	Checksum(1)  End(1)=0x15
const (
	StartMarker byte = 0xA5
	EndMarker   byte = 0x15

	FrameTypeInverter byte = 0x02

	// DefaultSlaveID is the fixed Modbus slave address used behind the logger.
	DefaultSlaveID byte = 0x01

	headerLen         = 11
	requestPayloadLen = 15
	trailerLen        = 2

	serialOffset = 7

	// ResponseModbusOffset is where the embedded RTU frame starts in a response.
	ResponseModbusOffset = 25

	// ErrorFrameLen is the exact length of a logger error frame.
	ErrorFrameLen = 29
	// MinResponseLen is the shortest data-carrying response frame.
	MinResponseLen = ErrorFrameLen + 4

	errorCodeOffset = 25
)

// ControlRequest is the control code of a Modbus-RTU request (0x4510, sent LE).
var ControlRequest = [2]byte{0x10, 0x45}

// ParseSerial parses a logger serial number given as a decimal string.
func ParseSerial(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %v", ErrInvalidSerial, s, err)
	}
	return uint32(v), nil
}

// BuildRequest builds a complete V5 request frame reading registers start..end
// (inclusive) with the given Modbus function code.
func BuildRequest(fc uint8, start, end uint16, serial uint32) []byte {
	return NewCodec(serial).BuildRequest(fc, start, end)
}

// BuildRTURequest builds a Modbus-RTU read request: slave, fc, start(BE),
// count(BE), CRC(LE).
func BuildRTURequest(slaveID, fc uint8, start, end uint16) []byte {
	req := make([]byte, 0, 8)
	req = append(req, slaveID, fc)
	req = append(req, registerData(start, end-start+1)...)

	return crc16.Append(req)
}

// wrap places an RTU frame inside a V5 envelope.
func wrap(rtu []byte, serial uint32, seq [2]byte) []byte {
	payloadLen := requestPayloadLen + len(rtu)
	frame := make([]byte, headerLen+payloadLen+trailerLen)

	// ---- header ----
	frame[0] = StartMarker
	binary.LittleEndian.PutUint16(frame[1:3], uint16(payloadLen))
	frame[3] = ControlRequest[0]
	frame[4] = ControlRequest[1]
	frame[5] = seq[0]
	frame[6] = seq[1]
	binary.LittleEndian.PutUint32(frame[serialOffset:serialOffset+4], serial)

	// ---- payload ----
	// sensor type and the three timing fields stay zero
	frame[headerLen] = FrameTypeInverter
	copy(frame[headerLen+requestPayloadLen:], rtu)

	// ---- trailer ----
	end := headerLen + payloadLen
	frame[end] = checksum(frame[1:end])
	frame[end+1] = EndMarker

	return frame
}

// checksum is the V5 frame checksum: byte sum mod 256.
func checksum(b []byte) byte {
	var sum byte
	for _, v := range b {
		sum += v
	}
	return sum
}

// RequestInfo is the addressing recovered from a request frame.
type RequestInfo struct {
	Serial       uint32
	SlaveID      uint8
	FunctionCode uint8
	Start        uint16
	Count        uint16
}

// End returns the last register addressed by the request.
func (r RequestInfo) End() uint16 {
	return r.Start + r.Count - 1
}

// DescribeRequest recovers the addressing fields of a V5 request frame.
func DescribeRequest(req []byte) (RequestInfo, error) {
	rtu := headerLen + requestPayloadLen
	if len(req) < rtu+8+trailerLen {
		return RequestInfo{}, ErrFrameTooShort
	}
	if req[0] != StartMarker {
		return RequestInfo{}, ErrBadStartMarker
	}
	if req[len(req)-1] != EndMarker {
		return RequestInfo{}, ErrBadEndMarker
	}

	return RequestInfo{
		Serial:       serialOf(req),
		SlaveID:      req[rtu],
		FunctionCode: req[rtu+1],
		Start:        binary.BigEndian.Uint16(req[rtu+2 : rtu+4]),
		Count:        binary.BigEndian.Uint16(req[rtu+4 : rtu+6]),
	}, nil
}

func serialOf(frame []byte) uint32 {
	return binary.LittleEndian.Uint32(frame[serialOffset : serialOffset+4])
}
