// internal/poller/modbus/client.go
package modbus

import (
	"errors"
	"time"

	gmodbus "github.com/goburrow/modbus"
	"github.com/rs/zerolog"

	"github.com/tamzrod/solarman-poller/internal/transport"
	"github.com/tamzrod/solarman-poller/internal/v5"
)

// Client reads registers through a standard Modbus client whose frames are
// carried inside V5 envelopes.
// This adapter is geometry-only: it issues reads and unpacks raw responses.
type Client struct {
	conn   *transport.Conn
	client gmodbus.Client
}

// Config is minimal transport config.
type Config struct {
	Host     string
	Port     int
	Serial   uint32
	Timeout  time.Duration
	Attempts int
}

// New returns a client. The connection is opened on the first read.
func New(cfg Config, log zerolog.Logger) (*Client, error) {
	if cfg.Host == "" || cfg.Port == 0 {
		return nil, errors.New("v5 client: host and port required")
	}

	conn := transport.New(transport.Config{
		Host:        cfg.Host,
		Port:        cfg.Port,
		DialTimeout: cfg.Timeout,
		ReadTimeout: cfg.Timeout,
		Attempts:    cfg.Attempts,
	}, log)

	return &Client{
		conn:   conn,
		client: gmodbus.NewClient2(v5.NewCodec(cfg.Serial), conn),
	}, nil
}

// Close closes the TCP connection.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.conn.Close()
}

// ReadHoldingRegisters is FC 3.
func (c *Client) ReadHoldingRegisters(addr, qty uint16) ([]uint16, error) {
	if qty == 0 {
		return nil, nil
	}
	b, err := c.client.ReadHoldingRegisters(addr, qty)
	if err != nil {
		return nil, err
	}
	return unpackRegisters(b), nil
}

// ReadInputRegisters is FC 4.
func (c *Client) ReadInputRegisters(addr, qty uint16) ([]uint16, error) {
	if qty == 0 {
		return nil, nil
	}
	b, err := c.client.ReadInputRegisters(addr, qty)
	if err != nil {
		return nil, err
	}
	return unpackRegisters(b), nil
}

// Read dispatches on the function code.
func (c *Client) Read(fc uint8, addr, qty uint16) ([]uint16, error) {
	switch fc {
	case gmodbus.FuncCodeReadHoldingRegisters:
		return c.ReadHoldingRegisters(addr, qty)
	case gmodbus.FuncCodeReadInputRegisters:
		return c.ReadInputRegisters(addr, qty)
	default:
		return nil, errors.New("v5 client: unsupported function code")
	}
}

// ---- helpers (pure geometry) ----

func unpackRegisters(data []byte) []uint16 {
	n := len(data) / 2
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return out
}
