// internal/dispatch/dispatcher.go
package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/tamzrod/rt22-antcn/internal/protocol"
	"github.com/tamzrod/rt22-antcn/internal/result"
)

// ZeroClassPolicy decides what the host gets for a pass-through call without class.
type ZeroClassPolicy string

const (
	// ZeroClassReply delivers an illegal-mode record so the host never hangs.
	ZeroClassReply ZeroClassPolicy = "reply"
	// ZeroClassDecline delivers nothing, like the legacy adapter.
	ZeroClassDecline ZeroClassPolicy = "decline"
)

// DefaultMessageMax is the pass-through message budget in bytes.
const DefaultMessageMax = 80

var ack = []byte("ACK")

// Config is the immutable runtime config of the dispatcher.
type Config struct {
	Rupors     protocol.Rupors
	Replies    protocol.ReplyChecker
	ZeroClass  ZeroClassPolicy
	MessageMax int
}

// Dispatcher turns host calls into controller exchanges.
// Not safe for concurrent use: the host serializes calls.
type Dispatcher struct {
	cfg     Config
	link    Exchanger
	state   State
	classes Classes
	log     Logger
}

type nopLogger struct{}

func (nopLogger) Logit(string, int32, string) {}

// New wires a dispatcher. classes may be nil when pass-through is never used.
func New(cfg Config, link Exchanger, state State, classes Classes, log Logger) (*Dispatcher, error) {
	if link == nil {
		return nil, errors.New("dispatch: exchanger required")
	}
	if state == nil {
		return nil, errors.New("dispatch: state required")
	}
	if log == nil {
		log = nopLogger{}
	}
	if cfg.ZeroClass == "" {
		cfg.ZeroClass = ZeroClassReply
	}
	if cfg.Replies.IsZero() {
		cfg.Replies = protocol.NewReplyChecker(nil)
	}
	if cfg.MessageMax <= 0 {
		cfg.MessageMax = DefaultMessageMax
	}
	return &Dispatcher{
		cfg:     cfg,
		link:    link,
		state:   state,
		classes: classes,
		log:     log,
	}, nil
}

// Handle performs exactly one call to completion.
// The only error it returns is ErrZeroClass; every other outcome is in the record.
func (d *Dispatcher) Handle(ctx context.Context, req Request) (rec result.Record, err error) {
	defer func() {
		if p := recover(); p != nil {
			d.log.Logit(fmt.Sprintf("mode %d aborted: %v", req.Mode, p), result.CodeIllegalMode, result.DomainHost.String())
			rec, err = result.New(0, 0, result.ErrIllegalMode), nil
		}
	}()

	if req.Mode < MinMode || req.Mode > MaxMode {
		d.log.Logit(fmt.Sprintf("Illegal mode %d", req.Mode), result.CodeIllegalMode, result.DomainHost.String())
		return result.New(0, 0, fmt.Errorf("mode %d: %w", req.Mode, result.ErrIllegalMode)), nil
	}

	var herr error

	switch req.Mode {
	case ModeInitialize:
		herr = d.initialize(ctx)
	case ModeSource:
		herr = d.pointSource(ctx)
	case ModeOffset:
		herr = d.applyOffsets(ctx)
	case ModeOnSource:
		d.onSource("Checking onsource status, extended error logging")
	case ModePassThrough:
		return d.passThrough(req)
	case ModeOnSourceQuiet:
		d.onSource("Checking onsource status, no error logging")
	case ModeFocus:
		d.log.Logit("TBD focus control", 0, "")
		herr = fmt.Errorf("focus control: %w", result.ErrIllegalMode)
	case ModeTrack:
		d.onSource("Checking onsource status, log tracking data")
	case ModeDetectors:
		d.log.Logit("Station dependent detectors access", 0, "")
	case ModeSatellite:
		d.log.Logit("Satellite tracking mode", 0, "")
	case ModeTerminate:
		d.log.Logit("Termination mode", 0, "")
	}

	return result.New(0, 0, herr), nil
}

// ---- mode handlers ----

// initialize runs the full fixed sequence even when single exchanges fail.
// The first failure decides the code.
func (d *Dispatcher) initialize(ctx context.Context) error {
	var first error
	keep := func(err error) {
		if first == nil && err != nil {
			first = err
		}
	}

	d.log.Logit("Initializing PRAO RT-22 Antenna Interface...", 0, "")

	d.log.Logit("Sending message to RT-22 Antenna...", 0, "")
	keep(d.exchange(ctx, protocol.Announce()))

	for _, q := range []protocol.Line{
		protocol.GetCalibration(),
		protocol.GetCurrent(),
		protocol.GetMeteo(),
	} {
		d.log.Logit(protocol.Describe(q.Verb()), 0, "")
		keep(d.exchange(ctx, q))
	}

	set := protocol.SetRupors(d.cfg.Rupors)
	d.log.Logit("Setting RT-22 Antenna Rupors To Default Values For VLBI Experiment...", 0, "")
	d.log.Logit(set.Loggable(), 0, "")
	if err := d.exchange(ctx, set); err != nil {
		var de *protocol.DeviceError
		if errors.As(err, &de) {
			err = fmt.Errorf("%w: %w", result.ErrPointingModel, err)
		}
		keep(err)
	}

	q := protocol.GetRupors()
	d.log.Logit(protocol.Describe(q.Verb()), 0, "")
	keep(d.exchange(ctx, q))

	d.state.SetOnSource(false)
	return first
}

func (d *Dispatcher) pointSource(ctx context.Context) error {
	d.log.Logit("Commanding to a new source", 0, "")

	msg := protocol.NewSourceMessage(d.state.SourceName())
	d.log.Logit(msg.Loggable(), 0, "")
	first := d.exchange(ctx, msg)

	ra, dec := d.state.SourceCoords()
	cmd := protocol.NewSource(ra, dec)
	d.log.Logit("Setting RT-22 Antenna To New Source...", 0, "")
	d.log.Logit(cmd.Loggable(), 0, "")
	if err := d.exchange(ctx, cmd); first == nil {
		first = err
	}

	d.state.SetOnSource(false)
	return first
}

func (d *Dispatcher) applyOffsets(ctx context.Context) error {
	d.log.Logit("Commanding new offsets", 0, "")

	az, el := d.state.Offsets()
	cmd := protocol.SetShifts(az, el)
	d.log.Logit("Setting RT-22 Antenna offsets...", 0, "")
	d.log.Logit(cmd.Loggable(), 0, "")
	err := d.exchange(ctx, cmd)

	d.state.SetOnSource(false)
	return err
}

func (d *Dispatcher) onSource(msg string) {
	d.log.Logit(msg, 0, "")
	d.state.SetOnSource(true)
}

// passThrough drains req.Records messages from req.Class and acks each one.
func (d *Dispatcher) passThrough(req Request) (result.Record, error) {
	if req.Class == 0 {
		d.log.Logit("Direct antenna command without class, call declined", result.CodeIllegalMode, result.DomainHost.String())
		return result.Record{}, ErrZeroClass
	}
	if d.classes == nil {
		return result.New(0, 0, errors.New("dispatch: no message classes wired")), nil
	}

	replyClass, n := 0, 0
	var err error

	for n < req.Records {
		msg, rerr := d.classes.Receive(req.Class, d.cfg.MessageMax)
		if rerr != nil {
			err = fmt.Errorf("class %d receive: %w", req.Class, rerr)
			break
		}
		d.log.Logit("Received message for antenna: "+string(msg), 0, "")

		rc, serr := d.classes.Send(replyClass, ack)
		if serr != nil {
			err = fmt.Errorf("class %d ack: %w", replyClass, serr)
			break
		}
		replyClass = rc
		n++
	}

	if err != nil {
		d.log.Logit(err.Error(), result.Code(err), result.DomainHost.String())
	}
	return result.New(replyClass, n, err), nil
}

// ---- helpers ----

// exchange sends one line, logs the reply verbatim and classifies it.
func (d *Dispatcher) exchange(ctx context.Context, l protocol.Line) error {
	reply, err := d.link.Exchange(ctx, l)
	if err != nil {
		code := result.Code(err)
		d.log.Logit(fmt.Sprintf("WARNING: %s failed: %v", l.Verb(), err), code, result.DomainFor(code).String())
		return err
	}

	d.log.Logit(reply, 0, "")
	return d.cfg.Replies.Check(l, reply)
}
