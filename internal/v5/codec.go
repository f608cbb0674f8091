// internal/v5/codec.go
package v5

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/goburrow/modbus"

	"github.com/tamzrod/solarman-poller/internal/crc16"
)

// Codec builds and validates V5 frames for one logger.
// It implements modbus.Packager, so a standard modbus.Client can run over V5.
type Codec struct {
	Serial  uint32
	SlaveID byte

	// Sequence is copied into the two-way sequence field of every request.
	// Loggers accept zero.
	Sequence [2]byte
}

var _ modbus.Packager = (*Codec)(nil)

// NewCodec returns a codec for the logger with the given serial number.
func NewCodec(serial uint32) *Codec {
	return &Codec{Serial: serial, SlaveID: DefaultSlaveID}
}

// BuildRequest builds a V5 frame reading registers start..end (inclusive).
func (c *Codec) BuildRequest(fc uint8, start, end uint16) []byte {
	return wrap(BuildRTURequest(c.slaveID(), fc, start, end), c.Serial, c.Sequence)
}

// ---- modbus.Packager ----

// Encode wraps a PDU as slave + PDU + CRC inside a V5 envelope.
func (c *Codec) Encode(pdu *modbus.ProtocolDataUnit) ([]byte, error) {
	if pdu == nil {
		return nil, errors.New("v5: nil pdu")
	}

	rtu := make([]byte, 0, 2+len(pdu.Data)+2)
	rtu = append(rtu, c.slaveID(), pdu.FunctionCode)
	rtu = append(rtu, pdu.Data...)

	return wrap(crc16.Append(rtu), c.Serial, c.Sequence), nil
}

// Verify checks the V5 envelope of a response against its request.
func (c *Codec) Verify(aduRequest, aduResponse []byte) error {
	_, err := ExtractModbusFrame(aduResponse, aduRequest)
	return err
}

// Decode extracts and CRC-checks the embedded RTU frame and returns its PDU.
func (c *Codec) Decode(adu []byte) (*modbus.ProtocolDataUnit, error) {
	if len(adu) < MinResponseLen {
		return nil, ErrFrameTooShort
	}
	if adu[0] != StartMarker {
		return nil, ErrBadStartMarker
	}
	if adu[len(adu)-1] != EndMarker {
		return nil, ErrBadEndMarker
	}

	rtu := adu[ResponseModbusOffset : len(adu)-trailerLen]
	rtu = trimRTU(rtu)
	if len(rtu) < 4 {
		return nil, ErrFrameTooShort
	}

	n := len(rtu) - 2
	want := crc16.Checksum(rtu[:n])
	got := crc16.Trailer(rtu[n:])
	if want != got {
		return nil, &ChecksumMismatchError{Expected: want, Actual: got}
	}
	if rtu[0] != c.slaveID() {
		return nil, fmt.Errorf("v5: response slave id '%v' does not match request '%v'", rtu[0], c.slaveID())
	}

	return &modbus.ProtocolDataUnit{
		FunctionCode: rtu[1],
		Data:         rtu[2:n],
	}, nil
}

// trimRTU cuts an RTU response to its self-described length where the
// function code allows it. Some loggers pad the payload.
func trimRTU(rtu []byte) []byte {
	if len(rtu) < 3 {
		return rtu
	}

	fc := rtu[1]
	var n int
	switch {
	case fc&0x80 != 0:
		n = 5
	case fc >= 1 && fc <= 4:
		n = 3 + int(rtu[2]) + 2
	case fc == 5 || fc == 6 || fc == 15 || fc == 16:
		n = 8
	default:
		return rtu
	}

	if n <= len(rtu) {
		return rtu[:n]
	}
	return rtu
}

func (c *Codec) slaveID() byte {
	if c.SlaveID == 0 {
		return DefaultSlaveID
	}
	return c.SlaveID
}

// registerData is the PDU data block of a read request.
func registerData(start, count uint16) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint16(b[0:2], start)
	binary.BigEndian.PutUint16(b[2:4], count)
	return b
}
