// internal/status/publisher.go
package status

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/tamzrod/rt22-antcn/internal/dispatch"
	"github.com/tamzrod/rt22-antcn/internal/result"
)

type Config struct {
	UnitID     uint8
	Slot       uint16
	DeviceName string
	Logger     *zap.Logger
}

// Publisher mirrors every delivered record into a status block.
// It implements dispatch.Observer. Failures are logged, never returned
// to the dispatcher.
type Publisher struct {
	mu  sync.Mutex
	cfg Config
	w   RegisterWriter
	log *zap.Logger

	needFull bool
	last     Snapshot
	calls    uint16
}

var _ dispatch.Observer = (*Publisher)(nil)

func NewPublisher(cfg Config, w RegisterWriter) *Publisher {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Publisher{
		cfg:      cfg,
		w:        w,
		log:      log.Named("status"),
		needFull: true, // full block on first write
		last:     Snapshot{Health: HealthUnknown},
	}
}

// Observe records one delivered call and publishes it.
func (p *Publisher) Observe(req dispatch.Request, rec result.Record) {
	p.mu.Lock()
	p.calls++
	s := FromRecord(req.Mode, rec, p.calls)
	err := p.write(s)
	p.mu.Unlock()

	if err != nil {
		p.log.Warn("status publish failed",
			zap.Int("mode", req.Mode),
			zap.Int32("code", rec.Code),
			zap.Error(err),
		)
	}
}

// Write delivers a snapshot. After any failure the next call
// re-asserts the full block.
func (p *Publisher) Write(s Snapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.write(s)
}

// Last returns the last snapshot written successfully.
func (p *Publisher) Last() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

func (p *Publisher) write(s Snapshot) error {
	if p.w == nil {
		return errors.New("status: no register writer")
	}

	base := p.baseAddr()

	// ------------------------------------------------------------
	// Full block write (identity re-assert)
	// ------------------------------------------------------------
	if p.needFull {
		if err := p.w.WriteRegisters(p.cfg.UnitID, base, Encode(s, p.cfg.DeviceName)); err != nil {
			return fmt.Errorf("status: full block write failed: %w", err)
		}
		p.needFull = false
		p.last = s
		return nil
	}

	var errs []string

	slots := []struct {
		slot uint16
		name string
		old  *uint16
		val  uint16
	}{
		{SlotHealthCode, "health", &p.last.Health, s.Health},
		{SlotLastErrorCode, "last_error", &p.last.LastErrorCode, s.LastErrorCode},
		{SlotLastMode, "last_mode", &p.last.LastMode, s.LastMode},
		{SlotCalls, "calls", &p.last.Calls, s.Calls},
	}

	for _, sl := range slots {
		if *sl.old == sl.val {
			continue
		}
		if err := p.w.WriteRegisters(p.cfg.UnitID, base+sl.slot, []uint16{sl.val}); err != nil {
			errs = append(errs, fmt.Sprintf("slot%d %s write failed: %v", sl.slot, sl.name, err))
			continue
		}
		*sl.old = sl.val
	}

	if len(errs) > 0 {
		p.needFull = true
		return errors.New("status: " + strings.Join(errs, " | "))
	}

	return nil
}

func (p *Publisher) baseAddr() uint16 {
	return p.cfg.Slot * SlotsPerDevice
}
