// internal/dispatch/types.go
package dispatch

import (
	"context"
	"errors"

	"github.com/tamzrod/rt22-antcn/internal/protocol"
	"github.com/tamzrod/rt22-antcn/internal/result"
)

// Operating modes defined by the host contract.
const (
	ModeInitialize    = 0
	ModeSource        = 1
	ModeOffset        = 2
	ModeOnSource      = 3
	ModePassThrough   = 4
	ModeOnSourceQuiet = 5
	ModeFocus         = 6
	ModeTrack         = 7
	ModeDetectors     = 8
	ModeSatellite     = 9
	ModeTerminate     = 10

	MinMode = ModeInitialize
	MaxMode = ModeTerminate
)

// Request is one host call. Immutable for the duration of the call.
type Request struct {
	Mode    int
	Class   int // pass-through only
	Records int // pass-through only
}

// ErrZeroClass is returned by Handle when a pass-through call names no class.
// No record is produced for it; the run loop applies the configured policy.
var ErrZeroClass = errors.New("dispatch: pass-through without class")

// ---- collaborators (owned by the host) ----

// Host delivers calls one at a time and takes back their records.
type Host interface {
	Wait(ctx context.Context) (Request, error)
	Deliver(rec result.Record) error
}

// State is the slice of host shared state the dispatcher touches.
type State interface {
	SourceName() string
	SourceCoords() (ra, dec float64)
	Offsets() (az, el float64)
	SetOnSource(on bool)
}

// Classes is the host's inter-process message store.
type Classes interface {
	// Receive pops the next message of class, at most max bytes.
	Receive(class int, max int) ([]byte, error)
	// Send appends msg to class; class 0 allocates one. Returns the class used.
	Send(class int, msg []byte) (int, error)
}

// Logger is the host log sink. Fire-and-forget.
type Logger interface {
	Logit(msg string, code int32, domain string)
}

// Exchanger sends one command line and returns one reply.
type Exchanger interface {
	Exchange(ctx context.Context, line protocol.Line) (string, error)
}

// Observer sees every delivered record (status mirror).
type Observer interface {
	Observe(req Request, rec result.Record)
}
