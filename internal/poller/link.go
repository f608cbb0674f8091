// internal/poller/link.go
package poller

import (
	"github.com/goburrow/modbus"

	"github.com/tamzrod/solarman-poller/internal/transport"
)

// Link provides the transport for one cycle.
//
// verbose is false while the logger is offline so that expected failures
// are logged quietly.
type Link interface {
	Do(verbose bool, fn func(tx modbus.Transporter) error) error
	Close() error
}

// Persistent reuses one connection across cycles.
func Persistent(c *transport.Conn) Link {
	return persistentLink{conn: c}
}

type persistentLink struct {
	conn *transport.Conn
}

func (l persistentLink) Do(verbose bool, fn func(modbus.Transporter) error) error {
	l.conn.SetVerbose(verbose)
	return fn(l.conn)
}

func (l persistentLink) Close() error {
	return l.conn.Close()
}

// PerCycle opens a fresh connection for every cycle and closes it afterwards.
func PerCycle(k transport.Connector) Link {
	return cycleLink{connector: k}
}

type cycleLink struct {
	connector transport.Connector
}

func (l cycleLink) Do(verbose bool, fn func(modbus.Transporter) error) error {
	return l.connector.Do(func(c *transport.Conn) error {
		c.SetVerbose(verbose)
		return fn(c)
	})
}

func (cycleLink) Close() error { return nil }
