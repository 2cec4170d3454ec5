// internal/host/chan.go
package host

import (
	"context"
	"io"

	"github.com/tamzrod/rt22-antcn/internal/dispatch"
	"github.com/tamzrod/rt22-antcn/internal/result"
)

// Chan is a host reduced to two channels.
// Closing In ends the dispatcher loop.
type Chan struct {
	In  chan dispatch.Request
	Out chan result.Record
}

func NewChan(buffer int) *Chan {
	return &Chan{
		In:  make(chan dispatch.Request, buffer),
		Out: make(chan result.Record, buffer),
	}
}

func (c *Chan) Wait(ctx context.Context) (dispatch.Request, error) {
	select {
	case <-ctx.Done():
		return dispatch.Request{}, ctx.Err()
	case req, ok := <-c.In:
		if !ok {
			return dispatch.Request{}, io.EOF
		}
		return req, nil
	}
}

func (c *Chan) Deliver(rec result.Record) error {
	c.Out <- rec
	return nil
}

// Call sends one request and waits for its record.
func (c *Chan) Call(ctx context.Context, req dispatch.Request) (result.Record, error) {
	select {
	case <-ctx.Done():
		return result.Record{}, ctx.Err()
	case c.In <- req:
	}
	select {
	case <-ctx.Done():
		return result.Record{}, ctx.Err()
	case rec := <-c.Out:
		return rec, nil
	}
}
