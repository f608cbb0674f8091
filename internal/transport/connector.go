// internal/transport/connector.go
package transport

import "github.com/rs/zerolog"

// Connector creates connections to one logger.
type Connector struct {
	cfg Config
	log zerolog.Logger
}

// NewConnector returns a connector for cfg.
func NewConnector(cfg Config, log zerolog.Logger) Connector {
	return Connector{cfg: cfg.withDefaults(), log: log}
}

// Open returns a new, lazily-dialled connection. The caller owns Close.
func (k Connector) Open() *Conn {
	return New(k.cfg, k.log)
}

// Do opens a connection for the duration of fn and always closes it,
// including when fn fails or panics.
func (k Connector) Do(fn func(*Conn) error) error {
	c := k.Open()
	defer c.Close()
	return fn(c)
}
