// internal/status/status_test.go
package status

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tamzrod/rt22-antcn/internal/dispatch"
	"github.com/tamzrod/rt22-antcn/internal/result"
)

// ---- fakes ----

type write struct {
	unit uint8
	addr uint16
	regs []uint16
}

type fakeWriter struct {
	writes []write
	fail   bool
}

func (f *fakeWriter) WriteRegisters(unitID uint8, addr uint16, regs []uint16) error {
	if f.fail {
		return errors.New("boom")
	}
	cp := append([]uint16(nil), regs...)
	f.writes = append(f.writes, write{unit: unitID, addr: addr, regs: cp})
	return nil
}

func (f *fakeWriter) last() write { return f.writes[len(f.writes)-1] }

// ---- tests ----

func TestEncode_DeviceName(t *testing.T) {
	regs := Encode(Snapshot{Health: HealthOK}, "RT-22\x01")
	if len(regs) != SlotsPerDevice {
		t.Fatalf("len=%d", len(regs))
	}
	if regs[SlotDeviceNameStart] != uint16('R')<<8|uint16('T') {
		t.Fatalf("reg0=%#04x", regs[SlotDeviceNameStart])
	}
	if regs[SlotDeviceNameStart+2] != uint16('2')<<8|uint16('?') {
		t.Fatalf("control char not sanitized: %#04x", regs[SlotDeviceNameStart+2])
	}
	if regs[SlotDeviceNameEnd] != 0 {
		t.Fatalf("padding not zero")
	}
	for i := SlotReservedStart; i <= SlotReservedEnd; i++ {
		if regs[i] != 0 {
			t.Fatalf("reserved slot %d=%d", i, regs[i])
		}
	}
}

func TestEncode_DeviceNameTruncated(t *testing.T) {
	regs := Encode(Snapshot{}, "ABCDEFGHIJKLMNOPQRS")
	if regs[SlotDeviceNameEnd] != uint16('O')<<8|uint16('P') {
		t.Fatalf("last name reg=%#04x", regs[SlotDeviceNameEnd])
	}
}

func TestFromRecord_NegativeCode(t *testing.T) {
	s := FromRecord(dispatch.ModeOffset, result.WithCode(0, 0, result.CodeTimeout), 7)
	if s.Health != HealthError {
		t.Fatalf("health=%d", s.Health)
	}
	if s.LastErrorCode != 0xFFFE || s.ErrorCode() != -2 {
		t.Fatalf("code=%#04x (%d)", s.LastErrorCode, s.ErrorCode())
	}
	if s.LastMode != 2 || s.Calls != 7 {
		t.Fatalf("unexpected %+v", s)
	}
}

func TestPublisher_FullBlockThenIncremental(t *testing.T) {
	w := &fakeWriter{}
	p := NewPublisher(Config{UnitID: 3, Slot: 2, DeviceName: "ANTCN"}, w)

	p.Observe(dispatch.Request{Mode: dispatch.ModeInitialize}, result.WithCode(0, 0, result.CodeOK))

	first := w.last()
	if first.unit != 3 || first.addr != 40 || len(first.regs) != SlotsPerDevice {
		t.Fatalf("first write not a full block at slot*20: %+v", first)
	}
	if first.regs[SlotHealthCode] != HealthOK || first.regs[SlotCalls] != 1 {
		t.Fatalf("regs=%v", first.regs)
	}
	name := Encode(Snapshot{}, "ANTCN")
	for i := SlotDeviceNameStart; i <= SlotDeviceNameEnd; i++ {
		if first.regs[i] != name[i] {
			t.Fatalf("name slot %d mismatch", i)
		}
	}

	// same mode, error result: health, error and counter change
	w.writes = nil
	p.Observe(dispatch.Request{Mode: dispatch.ModeInitialize}, result.WithCode(0, 0, result.CodeNotRemote))

	if len(w.writes) != 3 {
		t.Fatalf("expected 3 single-register writes, got %d", len(w.writes))
	}
	for _, wr := range w.writes {
		if len(wr.regs) != 1 {
			t.Fatalf("incremental write carried %d regs", len(wr.regs))
		}
	}
	if got := p.Last(); got.ErrorCode() != result.CodeNotRemote || got.Calls != 2 {
		t.Fatalf("last=%+v", got)
	}
}

func TestPublisher_FailureForcesFullBlock(t *testing.T) {
	w := &fakeWriter{}
	core, logs := observer.New(zapcore.WarnLevel)
	p := NewPublisher(Config{Logger: zap.New(core)}, w)

	p.Observe(dispatch.Request{Mode: 1}, result.WithCode(0, 0, 0))

	w.fail = true
	p.Observe(dispatch.Request{Mode: 2}, result.WithCode(0, 0, 0))
	if logs.FilterMessage("status publish failed").Len() != 1 {
		t.Fatalf("failure not logged")
	}

	w.fail = false
	w.writes = nil
	p.Observe(dispatch.Request{Mode: 3}, result.WithCode(0, 0, 0))
	if len(w.writes) != 1 || len(w.writes[0].regs) != SlotsPerDevice {
		t.Fatalf("expected full re-assert after failure, got %+v", w.writes)
	}
	if w.writes[0].regs[SlotCalls] != 3 {
		t.Fatalf("counter=%d", w.writes[0].regs[SlotCalls])
	}
}

func TestPublisher_NoWriter(t *testing.T) {
	p := NewPublisher(Config{}, nil)
	if err := p.Write(Snapshot{}); err == nil {
		t.Fatalf("expected error without writer")
	}
}

func TestNewModbusWriter_Validation(t *testing.T) {
	if _, err := NewModbusWriter(ClientConfig{}); err == nil {
		t.Fatalf("expected error for empty endpoint")
	}
	w, err := NewModbusWriter(ClientConfig{Endpoint: "127.0.0.1:502", Timeout: time.Second})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	_ = w.Close()
}
