// cmd/v5probe/dump.go
package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/tamzrod/solarman-poller/internal/decode"
	"github.com/tamzrod/solarman-poller/internal/definition"
	"github.com/tamzrod/solarman-poller/internal/v5"
)

// ParseHex accepts frames as logged: contiguous or space separated hex.
func ParseHex(s string) ([]byte, error) {
	s = strings.NewReplacer(" ", "", ":", "", "\t", "").Replace(strings.TrimSpace(s))
	if s == "" {
		return nil, fmt.Errorf("empty frame")
	}
	return hex.DecodeString(s)
}

// DumpFrames decodes a logged request/response pair and prints the registers.
func DumpFrames(w io.Writer, req, resp []byte) error {
	info, err := v5.DescribeRequest(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	fmt.Fprintf(w, "logger %d fc=%d request 0x%04X to 0x%04X\n", info.Serial, info.FunctionCode, info.Start, info.End())

	frame, err := v5.ExtractModbusFrame(resp, req)
	if err != nil {
		return fmt.Errorf("response (%s): %w", v5.Kind(err), err)
	}

	words, err := v5.ParseRegisters(frame, info.Start, info.End())
	if err != nil {
		return fmt.Errorf("registers (%s): %w", v5.Kind(err), err)
	}

	regs := make([]uint16, 0, len(words))
	for i := uint32(info.Start); i <= uint32(info.End()); i++ {
		regs = append(regs, words[uint16(i)].Uint16())
	}
	DumpRegisters(w, info.Start, regs)
	return nil
}

func DumpRegisters(w io.Writer, start uint16, regs []uint16) {
	for i, r := range regs {
		fmt.Fprintf(w, "[0x%04X]: 0x%04X (%d)\n", uint32(start)+uint32(i), r, r)
	}
}

// DumpReadings decodes every definition item fully covered by the read.
func DumpReadings(w io.Writer, def *definition.Definition, start uint16, regs []uint16) error {
	items, errs := def.Items()
	for _, err := range errs {
		fmt.Fprintln(w, "definition:", err)
	}

	words := make(map[uint16]v5.Word, len(regs))
	for i, r := range regs {
		words[start+uint16(i)] = v5.WordOf(r)
	}

	p := decode.Pipeline{Items: items}
	readings, _ := p.Run(words)
	for _, rd := range readings {
		fmt.Fprintf(w, "%-40s %s\n", rd.Item.ID, rd.Value)
	}
	return nil
}
