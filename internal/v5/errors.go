// internal/v5/errors.go
package v5

import (
	"errors"
	"fmt"

	"github.com/goburrow/modbus"
)

var (
	ErrNoResponse            = errors.New("v5: no response frame")
	ErrFrameTooShort         = errors.New("v5: frame is too short or empty")
	ErrBadStartMarker        = errors.New("v5: response frame has invalid starting byte")
	ErrBadEndMarker          = errors.New("v5: response frame has invalid ending byte")
	ErrUnexpectedControlCode = errors.New("v5: unexpected control code in error response frame")
	ErrInvalidSerial         = errors.New("v5: invalid logger serial number")
	ErrInvalidRange          = errors.New("v5: invalid register range")
)

// SerialMismatchError reports an error frame whose logger serial differs from the request.
type SerialMismatchError struct {
	Requested uint32
	Actual    uint32
}

func (e *SerialMismatchError) Error() string {
	return fmt.Sprintf(
		"v5: logger serial mismatch: requested %d, response %d (use the logger serial, not the inverter serial; if in doubt, try the one in the response)",
		e.Requested, e.Actual,
	)
}

// UnknownErrorCodeError is a logger error frame carrying a code outside 1-4.
// It unwraps to the device exception so callers still see the raw code.
type UnknownErrorCodeError struct {
	Exception *modbus.ModbusError
}

func (e *UnknownErrorCodeError) Error() string {
	return fmt.Sprintf("v5: unknown error code %02x", e.Exception.ExceptionCode)
}

func (e *UnknownErrorCodeError) Unwrap() error {
	return e.Exception
}

// ChecksumMismatchError reports an embedded Modbus-RTU frame with a bad CRC.
type ChecksumMismatchError struct {
	Expected uint16
	Actual   uint16
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("v5: modbus frame crc is not valid: expected %04x, got %04x", e.Expected, e.Actual)
}

// Kind classifies a codec error into a short, stable label (logs, metrics).
func Kind(err error) string {
	var (
		mismatch *SerialMismatchError
		checksum *ChecksumMismatchError
		mbErr    *modbus.ModbusError
	)

	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrNoResponse):
		return "no_response"
	case errors.Is(err, ErrFrameTooShort):
		return "frame_too_short"
	case errors.Is(err, ErrBadStartMarker):
		return "bad_start_marker"
	case errors.Is(err, ErrBadEndMarker):
		return "bad_end_marker"
	case errors.Is(err, ErrUnexpectedControlCode):
		return "unexpected_control_code"
	case errors.As(err, &mismatch):
		return "serial_mismatch"
	case errors.As(err, &checksum):
		return "checksum_mismatch"
	case errors.As(err, &mbErr):
		return "device_exception"
	default:
		return "other"
	}
}

// ErrorCode extracts a best-effort uint16 code for the status block.
// Device exceptions keep their Modbus exception code; framing errors map
// above 0xFF; anything else is 1 (generic error).
func ErrorCode(err error) uint16 {
	if err == nil {
		return 0
	}

	var mbErr *modbus.ModbusError
	if errors.As(err, &mbErr) {
		return uint16(mbErr.ExceptionCode)
	}

	switch Kind(err) {
	case "no_response":
		return 0x100
	case "frame_too_short":
		return 0x101
	case "bad_start_marker":
		return 0x102
	case "bad_end_marker":
		return 0x103
	case "unexpected_control_code":
		return 0x104
	case "serial_mismatch":
		return 0x105
	case "checksum_mismatch":
		return 0x106
	}
	return 1
}
