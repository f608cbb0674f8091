// internal/v5/extract.go
package v5

import (
	"github.com/goburrow/modbus"
)

// ExtractModbusFrame validates a V5 response against the request that
// produced it and returns the embedded Modbus-RTU response frame.
//
// A 29-byte response is a logger error frame and always yields an error.
func ExtractModbusFrame(resp, req []byte) ([]byte, error) {
	switch {
	case len(resp) == 0:
		return nil, ErrNoResponse
	case len(resp) == ErrorFrameLen:
		return nil, errorFrame(resp, req)
	case len(resp) < MinResponseLen:
		return nil, ErrFrameTooShort
	case resp[0] != StartMarker:
		return nil, ErrBadStartMarker
	case resp[len(resp)-1] != EndMarker:
		return nil, ErrBadEndMarker
	}

	return resp[ResponseModbusOffset : len(resp)-trailerLen], nil
}

// errorFrame interprets a 29-byte logger error frame.
func errorFrame(resp, req []byte) error {
	if resp[1] != ControlRequest[0] || resp[2] != ControlRequest[1] {
		return ErrUnexpectedControlCode
	}

	if len(req) >= serialOffset+4 {
		requested, actual := serialOf(req), serialOf(resp)
		if requested != actual {
			return &SerialMismatchError{Requested: requested, Actual: actual}
		}
	}

	var fc byte
	if len(req) > headerLen+requestPayloadLen+1 {
		fc = req[headerLen+requestPayloadLen+1]
	}

	exc := &modbus.ModbusError{
		FunctionCode:  fc,
		ExceptionCode: resp[errorCodeOffset],
	}
	if exc.ExceptionCode < 0x01 || exc.ExceptionCode > 0x04 {
		return &UnknownErrorCodeError{Exception: exc}
	}
	return exc
}
