// internal/link/errors.go
package link

import (
	"context"
	"errors"
	"fmt"
	"net"

	"go.uber.org/multierr"
)

// Op is the exchange stage that failed.
type Op string

const (
	OpConnect Op = "connect"
	OpSend    Op = "send"
	OpReceive Op = "receive"
)

var (
	ErrConnectFailed = errors.New("link: connect failed")
	ErrSendFailed    = errors.New("link: send failed")
	ErrReceiveFailed = errors.New("link: receive failed")

	// ErrEmptyReply means the controller closed without answering.
	ErrEmptyReply = errors.New("link: empty reply")
)

// Error is a failed exchange. It unwraps to both the stage sentinel and the cause.
type Error struct {
	Op       Op
	Endpoint string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("link %s %s: %v", e.Op, e.Endpoint, e.Err)
}

func (e *Error) Unwrap() []error {
	return append([]error{e.sentinel()}, multierr.Errors(e.Err)...)
}

// Timeout reports whether the stage ran out of time.
func (e *Error) Timeout() bool {
	for _, err := range multierr.Errors(e.Err) {
		if errors.Is(err, context.DeadlineExceeded) {
			return true
		}
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return true
		}
	}
	return false
}

func (e *Error) sentinel() error {
	switch e.Op {
	case OpConnect:
		return ErrConnectFailed
	case OpSend:
		return ErrSendFailed
	default:
		return ErrReceiveFailed
	}
}
