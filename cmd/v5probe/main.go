// cmd/v5probe/main.go
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/solarman-poller/internal/definition"
	"github.com/tamzrod/solarman-poller/internal/logging"
	"github.com/tamzrod/solarman-poller/internal/poller/modbus"
	"github.com/tamzrod/solarman-poller/internal/v5"
)

func main() {
	var (
		host     = flag.String("host", "", "logger address")
		port     = flag.Int("port", 8899, "logger port")
		serial   = flag.String("serial", "", "logger serial number")
		fc       = flag.Uint("fc", 3, "function code (3 or 4)")
		start    = flag.String("start", "0x0000", "first register")
		count    = flag.Uint("count", 1, "number of registers")
		timeout  = flag.Duration("timeout", 10*time.Second, "read timeout")
		attempts = flag.Int("attempts", 5, "read attempts")
		defRef   = flag.String("definition", "", "decode the read with this definition: a file or one of "+strings.Join(definition.BuiltinTypes(), ", "))
		decodeIn = flag.Bool("decode", false, "decode logged request/response frames instead of reading")
		request  = flag.String("request", "", "request frame as hex (with -decode)")
		response = flag.String("response", "", "response frame as hex (with -decode)")
		level    = flag.String("log", "warn", "log level")
	)
	flag.Parse()

	log, err := logging.Setup(*level, logging.FormatConsole)
	if err != nil {
		fatal(err)
	}

	if *decodeIn {
		if err := decodeFrames(*request, *response); err != nil {
			fatal(err)
		}
		return
	}

	if err := read(log, *host, *port, *serial, uint8(*fc), *start, uint16(*count), *timeout, *attempts, *defRef); err != nil {
		fatal(err)
	}
}

func decodeFrames(reqHex, respHex string) error {
	in := bufio.NewScanner(os.Stdin)
	in.Buffer(make([]byte, 0, 4096), 1<<20)

	if reqHex == "" {
		fmt.Fprint(os.Stderr, "request frame: ")
		if in.Scan() {
			reqHex = in.Text()
		}
	}
	if respHex == "" {
		fmt.Fprint(os.Stderr, "response frame: ")
		if in.Scan() {
			respHex = in.Text()
		}
	}

	req, err := ParseHex(reqHex)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	resp, err := ParseHex(respHex)
	if err != nil {
		return fmt.Errorf("response: %w", err)
	}

	return DumpFrames(os.Stdout, req, resp)
}

func read(log zerolog.Logger, host string, port int, serialStr string, fc uint8, startStr string, count uint16, timeout time.Duration, attempts int, defRef string) error {
	serial, err := v5.ParseSerial(serialStr)
	if err != nil {
		return err
	}
	start, err := definition.ParseNumber(startStr)
	if err != nil || start > 0xFFFF {
		return fmt.Errorf("invalid start %q", startStr)
	}
	if count == 0 || uint32(start)+uint32(count) > 0x10000 {
		return fmt.Errorf("invalid count %d", count)
	}

	c, err := modbus.New(modbus.Config{
		Host:     host,
		Port:     port,
		Serial:   serial,
		Timeout:  timeout,
		Attempts: attempts,
	}, log)
	if err != nil {
		return err
	}
	defer c.Close()

	regs, err := c.Read(fc, uint16(start), count)
	if err != nil {
		return fmt.Errorf("read failed (%s): %w", v5.Kind(err), err)
	}

	DumpRegisters(os.Stdout, uint16(start), regs)

	if defRef == "" {
		return nil
	}
	def, err := definition.Resolve(defRef)
	if err != nil {
		return err
	}
	return DumpReadings(os.Stdout, def, uint16(start), regs)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "v5probe:", err)
	os.Exit(1)
}
