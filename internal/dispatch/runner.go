// internal/dispatch/runner.go
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/tamzrod/rt22-antcn/internal/result"
)

// Run waits for calls and answers them, one at a time, until the host
// reports io.EOF or ctx is done. Termination mode does not stop it.
// obs may be nil.
func (d *Dispatcher) Run(ctx context.Context, h Host, obs Observer) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		req, err := h.Wait(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("dispatch: wait: %w", err)
		}

		rec, err := d.Handle(ctx, req)
		if errors.Is(err, ErrZeroClass) {
			if d.cfg.ZeroClass == ZeroClassDecline {
				continue
			}
			rec = result.New(0, 0, result.ErrIllegalMode)
		}

		if err := h.Deliver(rec); err != nil {
			return fmt.Errorf("dispatch: deliver: %w", err)
		}

		if obs != nil {
			obs.Observe(req, rec)
		}
	}
}
