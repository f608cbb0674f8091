// internal/status/encode_test.go
package status

import "testing"

func TestEncode_LiveSlots(t *testing.T) {
	regs := Encode(Snapshot{
		State:               StateOffline,
		ConsecutiveFailures: 4,
		LastErrorCode:       0x105,
		SecondsInError:      90,
	})

	if len(regs) != SlotsPerDevice {
		t.Fatalf("expected %d regs, got %d", SlotsPerDevice, len(regs))
	}
	if regs[SlotState] != uint16(StateOffline) {
		t.Fatalf("state slot: got=%d", regs[SlotState])
	}
	if regs[SlotLastErrorCode] != 0x105 {
		t.Fatalf("last error slot: got=%#x", regs[SlotLastErrorCode])
	}
	if regs[SlotSecondsInError] != 90 {
		t.Fatalf("seconds slot: got=%d", regs[SlotSecondsInError])
	}
	if regs[SlotConsecutiveFailures] != 4 {
		t.Fatalf("failures slot: got=%d", regs[SlotConsecutiveFailures])
	}
	for i := SlotReservedStart; i <= SlotDeviceNameEnd; i++ {
		if regs[i] != 0 {
			t.Fatalf("slot %d should be zero, got %d", i, regs[i])
		}
	}
}

func TestEncodeDeviceName(t *testing.T) {
	regs := EncodeDeviceName("Hi!\x01")

	if len(regs) != SlotDeviceNameSlots {
		t.Fatalf("expected %d regs, got %d", SlotDeviceNameSlots, len(regs))
	}
	if regs[0] != uint16('H')<<8|uint16('i') {
		t.Fatalf("reg0: got=%#04x", regs[0])
	}
	if regs[1] != uint16('!')<<8|uint16('?') {
		t.Fatalf("reg1: got=%#04x", regs[1])
	}
	for i := 2; i < len(regs); i++ {
		if regs[i] != 0 {
			t.Fatalf("reg%d should be zero, got %#04x", i, regs[i])
		}
	}

	long := EncodeDeviceName("ABCDEFGHIJKLMNOPQRSTUV")
	if long[7] != uint16('O')<<8|uint16('P') {
		t.Fatalf("name must truncate at 16 chars, last reg=%#04x", long[7])
	}
}
