// internal/writer/writer_test.go
package writer

import (
	"errors"
	"strings"
	"testing"

	"github.com/tamzrod/solarman-poller/internal/poller"
)

// ---- fake endpoint client ----

type fakeEndpointClient struct {
	writes []writeCall
	fail   error

	lastRegsAddr uint16
	lastRegs     []uint16
}

type writeCall struct {
	area   byte
	unitID uint8
	addr   uint16
	qty    int
}

func (f *fakeEndpointClient) WriteRegisters(area byte, unitID uint8, addr uint16, regs []uint16) error {
	if f.fail != nil {
		return f.fail
	}
	f.writes = append(f.writes, writeCall{
		area:   area,
		unitID: unitID,
		addr:   addr,
		qty:    len(regs),
	})
	f.lastRegsAddr = addr
	f.lastRegs = append([]uint16(nil), regs...)
	return nil
}

func onePlan(offsets map[int]uint16) Plan {
	return Plan{
		LoggerID: "roof",
		Targets: []TargetEndpoint{
			{
				TargetID: 1,
				Endpoint: "ep1",
				Memories: []MemoryDest{
					{MemoryID: 1, Offsets: offsets},
				},
			},
		},
	}
}

// ---- tests ----

func TestWriter_OffsetMathPerFC(t *testing.T) {
	fake := &fakeEndpointClient{}

	w := New(onePlan(map[int]uint16{
		3: 100, // holding registers
		4: 500, // input registers
	}), map[string]endpointClient{"ep1": fake})

	res := poller.PollResult{
		LoggerID:  "roof",
		Reachable: true,
		Blocks: []poller.BlockResult{
			{FC: 3, Address: 2, Quantity: 3, Registers: []uint16{1, 2, 3}},
			{FC: 4, Address: 5, Quantity: 1, Registers: []uint16{4}},
		},
	}

	if err := w.Write(res); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fake.writes) != 2 {
		t.Fatalf("expected 2 writes, got %d", len(fake.writes))
	}
	if fake.writes[0].addr != 102 { // 100 + 2
		t.Fatalf("expected regs addr 102, got %d", fake.writes[0].addr)
	}
	if fake.writes[1].addr != 505 || fake.writes[1].area != 4 {
		t.Fatalf("expected input regs at 505 area 4, got %+v", fake.writes[1])
	}
}

func TestWriter_DefaultOffsetZero(t *testing.T) {
	fake := &fakeEndpointClient{}
	w := New(onePlan(nil), map[string]endpointClient{"ep1": fake})

	res := poller.PollResult{
		Reachable: true,
		Blocks: []poller.BlockResult{
			{FC: 3, Address: 20, Quantity: 2, Registers: []uint16{9, 9}},
		},
	}

	if err := w.Write(res); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fake.writes[0].addr != 20 {
		t.Fatalf("expected addr 20, got %d", fake.writes[0].addr)
	}
}

func TestWriter_UnreachableCycleWritesNothing(t *testing.T) {
	fake := &fakeEndpointClient{}
	w := New(onePlan(nil), map[string]endpointClient{"ep1": fake})

	if err := w.Write(poller.PollResult{Reachable: false}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.writes) != 0 {
		t.Fatalf("expected no writes, got %d", len(fake.writes))
	}
}

func TestWriter_ReportsMissingClientAndFailures(t *testing.T) {
	res := poller.PollResult{
		Reachable: true,
		Blocks:    []poller.BlockResult{{FC: 3, Address: 0, Quantity: 1, Registers: []uint16{1}}},
	}

	err := New(onePlan(nil), map[string]endpointClient{}).Write(res)
	if err == nil || !strings.Contains(err.Error(), "missing client") {
		t.Fatalf("expected missing client error, got %v", err)
	}

	fake := &fakeEndpointClient{fail: errors.New("boom")}
	err = New(onePlan(nil), map[string]endpointClient{"ep1": fake}).Write(res)
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected write failure, got %v", err)
	}
}

type countingWriter struct {
	n   int
	err error
}

func (c *countingWriter) Write(poller.PollResult) error {
	c.n++
	return c.err
}

func TestFanout_DeliversToAll(t *testing.T) {
	a := &countingWriter{err: errors.New("a failed")}
	b := &countingWriter{}

	err := Fanout{a, b}.Write(poller.PollResult{})
	if a.n != 1 || b.n != 1 {
		t.Fatalf("expected both writers called, got a=%d b=%d", a.n, b.n)
	}
	if err == nil || !strings.Contains(err.Error(), "a failed") {
		t.Fatalf("expected joined error, got %v", err)
	}
}
