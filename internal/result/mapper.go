// internal/result/mapper.go
package result

import (
	"context"
	"errors"

	"github.com/tamzrod/rt22-antcn/internal/link"
	"github.com/tamzrod/rt22-antcn/internal/protocol"
)

// Code maps a handler outcome to a host error number.
// Unknown errors fall back to CodeIllegalMode; it never panics.
func Code(err error) int32 {
	if err == nil {
		return CodeOK
	}

	// Errors may carry their own number (site extensions).
	type coder interface{ Code() int32 }
	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}

	switch {
	case errors.Is(err, ErrIllegalMode):
		return CodeIllegalMode
	case errors.Is(err, ErrPointingModel):
		return CodePointingModel
	}

	var de *protocol.DeviceError
	if errors.As(err, &de) {
		return CodeDevice
	}

	// A call cut short by the caller did not get its answer in time,
	// whatever stage it was in.
	if errors.Is(err, context.Canceled) {
		return CodeTimeout
	}

	var le *link.Error
	if errors.As(err, &le) {
		if le.Timeout() {
			return CodeTimeout
		}
		switch le.Op {
		case link.OpConnect:
			return CodeNotRemote
		case link.OpSend:
			return CodeTimeout
		case link.OpReceive:
			return CodeBadLength
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return CodeTimeout
	}

	return CodeIllegalMode
}
