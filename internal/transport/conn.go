// internal/transport/conn.go
package transport

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/goburrow/modbus"
	"github.com/rs/zerolog"
)

const (
	DefaultTimeout  = 10 * time.Second
	DefaultAttempts = 5

	readBufferSize = 1024
)

var (
	ErrNotConnected = errors.New("transport: could not open connection")
	ErrWriteFailed  = errors.New("transport: unable to send frame to logger")
	ErrNoData       = errors.New("transport: no data received")
)

// Config is the minimal connection config for one logger.
type Config struct {
	Host        string
	Port        int
	DialTimeout time.Duration
	ReadTimeout time.Duration
	Attempts    int
}

// Address returns host:port.
func (c Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c Config) withDefaults() Config {
	if c.DialTimeout <= 0 {
		c.DialTimeout = DefaultTimeout
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = DefaultTimeout
	}
	if c.Attempts <= 0 {
		c.Attempts = DefaultAttempts
	}
	return c
}

// Conn is one lazily-opened TCP connection to a logger.
// At most one request may be in flight; Conn is not safe for concurrent use.
type Conn struct {
	cfg     Config
	log     zerolog.Logger
	conn    net.Conn
	verbose bool
}

var _ modbus.Transporter = (*Conn)(nil)

// New returns an unconnected Conn. The socket is opened on first Send.
func New(cfg Config, log zerolog.Logger) *Conn {
	cfg = cfg.withDefaults()
	return &Conn{
		cfg:     cfg,
		log:     log.With().Str("component", "transport").Str("address", cfg.Address()).Logger(),
		verbose: true,
	}
}

// SetVerbose controls whether failures are logged at warn level or demoted
// to debug. Pollers turn it off while the logger is known to be offline.
func (c *Conn) SetVerbose(v bool) {
	c.verbose = v
}

// Send writes a request frame and returns the first non-empty read.
//
// It never returns nil: on failure the slice is empty and err says why.
// Reads are attempted cfg.Attempts times, each bounded by cfg.ReadTimeout.
func (c *Conn) Send(req []byte) ([]byte, error) {
	if c.conn == nil {
		if err := c.open(); err != nil {
			return []byte{}, err
		}
	}

	c.log.Debug().Str("frame", fmt.Sprintf("%X", req)).Msg("request frame")

	_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.ReadTimeout))
	if err := writeAll(c.conn, req); err != nil {
		c.failure().Err(err).Msg("unable to send frame to logger")
		c.drop()
		return []byte{}, fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	buf := make([]byte, readBufferSize)
	var lastErr error

	for attempt := 1; attempt <= c.cfg.Attempts; attempt++ {
		_ = c.conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout))

		n, err := c.conn.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			c.log.Debug().Str("frame", fmt.Sprintf("%X", data)).Msg("response frame")
			return data, nil
		}

		var netErr net.Error
		switch {
		case err == nil, errors.Is(err, io.EOF):
			lastErr = ErrNoData
			c.failure().Int("attempt", attempt).Msg("no data received")

		case errors.As(err, &netErr) && netErr.Timeout():
			lastErr = err
			c.log.Debug().Err(err).Int("attempt", attempt).Msg("connection timeout")
			if attempt == c.cfg.Attempts {
				c.failure().Msg("too many connection timeouts")
			}

		default:
			lastErr = err
			c.failure().Err(err).Int("attempt", attempt).Msg("connection error")
		}
	}

	// A late reply must never be read as the answer to the next request.
	c.drop()

	return []byte{}, fmt.Errorf("transport: no response after %d attempts: %w", c.cfg.Attempts, lastErr)
}

// Close releases the underlying socket. It is safe to call more than once.
func (c *Conn) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *Conn) open() error {
	conn, err := net.DialTimeout("tcp", c.cfg.Address(), c.cfg.DialTimeout)
	if err != nil {
		c.failure().Err(err).Msg("could not open socket")
		return fmt.Errorf("%w: %v", ErrNotConnected, err)
	}
	c.conn = conn
	return nil
}

func (c *Conn) drop() {
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}

func (c *Conn) failure() *zerolog.Event {
	if c.verbose {
		return c.log.Warn()
	}
	return c.log.Debug()
}

func writeAll(w io.Writer, b []byte) error {
	for len(b) > 0 {
		n, err := w.Write(b)
		if err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}
