// internal/writer/modbus/client_test.go
package modbus

import (
	"encoding/binary"
	"io"
	"net"
	"testing"
	"time"
)

type writeReq struct {
	unitID uint8
	addr   uint16
	regs   []uint16
}

// serveWriteMultiple answers FC16 requests like a Modbus TCP server.
func serveWriteMultiple(t *testing.T) (string, <-chan writeReq) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	got := make(chan writeReq, 8)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(conn net.Conn) {
				defer conn.Close()
				for {
					mbap := make([]byte, 7)
					if _, err := io.ReadFull(conn, mbap); err != nil {
						return
					}
					pdu := make([]byte, binary.BigEndian.Uint16(mbap[4:6])-1)
					if _, err := io.ReadFull(conn, pdu); err != nil {
						return
					}

					qty := binary.BigEndian.Uint16(pdu[3:5])
					req := writeReq{unitID: mbap[6], addr: binary.BigEndian.Uint16(pdu[1:3])}
					for i := 0; i < int(qty); i++ {
						req.regs = append(req.regs, binary.BigEndian.Uint16(pdu[6+2*i:]))
					}
					got <- req

					resp := make([]byte, 12)
					copy(resp, mbap[:4])
					binary.BigEndian.PutUint16(resp[4:6], 6)
					resp[6] = mbap[6]
					copy(resp[7:12], pdu[:5])
					if _, err := conn.Write(resp); err != nil {
						return
					}
				}
			}(conn)
		}
	}()

	return ln.Addr().String(), got
}

func TestEndpointClient_WriteRegisters(t *testing.T) {
	addr, got := serveWriteMultiple(t)

	c, err := NewEndpointClient(Config{Endpoint: addr, Timeout: time.Second})
	if err != nil {
		t.Fatalf("NewEndpointClient: %v", err)
	}
	defer c.Close()

	if err := c.WriteRegisters(3, 5, 1000, []uint16{0x1234, 0x0001}); err != nil {
		t.Fatalf("WriteRegisters: %v", err)
	}
	// input-register blocks are written as holding registers
	if err := c.WriteRegisters(4, 6, 2000, []uint16{7}); err != nil {
		t.Fatalf("WriteRegisters area 4: %v", err)
	}

	first := <-got
	if first.unitID != 5 || first.addr != 1000 || len(first.regs) != 2 || first.regs[0] != 0x1234 {
		t.Fatalf("unexpected first write %+v", first)
	}
	second := <-got
	if second.unitID != 6 || second.addr != 2000 || second.regs[0] != 7 {
		t.Fatalf("unexpected second write %+v", second)
	}
}

func TestEndpointClient_RejectsCoilArea(t *testing.T) {
	c, err := NewEndpointClient(Config{Endpoint: "127.0.0.1:1", Timeout: time.Second})
	if err != nil {
		t.Fatalf("NewEndpointClient: %v", err)
	}
	if err := c.WriteRegisters(1, 1, 0, []uint16{1}); err == nil {
		t.Fatalf("expected error for coil area")
	}
}
