// internal/v5/v5test/logger.go
package v5test

import (
	"encoding/binary"
	"net"
	"strconv"
	"sync/atomic"
)

// Logger is an in-process data logger answering V5 read requests over TCP.
// Requests for another serial get an error frame carrying the logger's own
// serial, like real firmware.
type Logger struct {
	Serial uint32

	// Register returns the value of one register.
	Register func(addr uint16) uint16

	ln       net.Listener
	requests atomic.Int32
}

// StartLogger listens on a random loopback port.
func StartLogger(serial uint32, register func(addr uint16) uint16) (*Logger, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	l := &Logger{Serial: serial, Register: register, ln: ln}
	go l.accept()
	return l, nil
}

// Host returns the listening host.
func (l *Logger) Host() string {
	host, _, _ := net.SplitHostPort(l.ln.Addr().String())
	return host
}

// Port returns the listening port.
func (l *Logger) Port() int {
	_, port, _ := net.SplitHostPort(l.ln.Addr().String())
	p, _ := strconv.Atoi(port)
	return p
}

// Requests returns the number of frames answered so far.
func (l *Logger) Requests() int {
	return int(l.requests.Load())
}

// Close stops accepting connections.
func (l *Logger) Close() error {
	return l.ln.Close()
}

func (l *Logger) accept() {
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			return
		}
		go l.serve(conn)
	}
}

func (l *Logger) serve(conn net.Conn) {
	defer conn.Close()

	buf := make([]byte, 1024)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			return
		}
		if _, err := conn.Write(l.answer(buf[:n])); err != nil {
			return
		}
	}
}

// answer handles a request: header(11) payload(15) rtu(8) trailer(2).
func (l *Logger) answer(req []byte) []byte {
	l.requests.Add(1)

	if len(req) < 36 {
		return ErrorFrame(l.Serial, 0x04)
	}
	if binary.LittleEndian.Uint32(req[7:11]) != l.Serial {
		return ErrorFrame(l.Serial, 0x01)
	}

	fc := req[27]
	start := binary.BigEndian.Uint16(req[28:30])
	count := binary.BigEndian.Uint16(req[30:32])

	words := make([]uint16, count)
	for i := range words {
		words[i] = l.Register(start + uint16(i))
	}
	return Response(l.Serial, fc, words...)
}
