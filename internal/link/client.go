// internal/link/client.go
package link

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/tamzrod/rt22-antcn/internal/protocol"
)

const (
	DefaultTimeout  = 2 * time.Second
	DefaultMaxReply = 512
)

// Client talks to the antenna controller.
// Stateless: 1 command = 1 connection. No retries.
type Client struct {
	endpoint string
	timeout  time.Duration
	maxReply int
	log      *zap.Logger
}

type Config struct {
	Endpoint string
	Timeout  time.Duration
	MaxReply int
	Logger   *zap.Logger
}

func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("link: endpoint required")
	}
	if _, _, err := net.SplitHostPort(cfg.Endpoint); err != nil {
		return nil, err
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxReply <= 0 {
		cfg.MaxReply = DefaultMaxReply
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Client{
		endpoint: cfg.Endpoint,
		timeout:  cfg.Timeout,
		maxReply: cfg.MaxReply,
		log:      cfg.Logger.Named("link"),
	}, nil
}

// Endpoint returns the configured controller address.
func (c *Client) Endpoint() string { return c.endpoint }

// Exchange sends one line and returns one reply with a single trailing
// terminator character removed.
func (c *Client) Exchange(ctx context.Context, line protocol.Line) (reply string, err error) {
	started := time.Now()

	deadline := started.Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	dctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(dctx, "tcp", c.endpoint)
	if err != nil {
		// keep the caller's cancellation visible to errors.Is
		if cerr := ctx.Err(); cerr != nil && !errors.Is(err, cerr) {
			err = multierr.Append(err, cerr)
		}
		return "", &Error{Op: OpConnect, Endpoint: c.endpoint, Err: err}
	}
	defer func() {
		cerr := conn.Close()
		if cerr == nil {
			return
		}
		var le *Error
		if errors.As(err, &le) {
			le.Err = multierr.Append(le.Err, cerr)
			return
		}
		c.log.Debug("close after exchange", zap.String("endpoint", c.endpoint), zap.Error(cerr))
	}()

	_ = conn.SetDeadline(deadline)

	out := line.Bytes()
	if err := writeAll(conn, out); err != nil {
		return "", &Error{Op: OpSend, Endpoint: c.endpoint, Err: err}
	}

	buf, rerr := c.readReply(conn)
	if len(buf) == 0 {
		if rerr == nil || errors.Is(rerr, io.EOF) {
			rerr = ErrEmptyReply
		}
		return "", &Error{Op: OpReceive, Endpoint: c.endpoint, Err: rerr}
	}
	if rerr != nil && !errors.Is(rerr, io.EOF) {
		c.log.Debug("reply cut short", zap.String("endpoint", c.endpoint), zap.Error(rerr))
	}

	reply = string(trimTerminator(buf))

	c.log.Debug("exchange",
		zap.String("endpoint", c.endpoint),
		zap.String("verb", line.Verb()),
		zap.Int("bytes_out", len(out)),
		zap.Int("bytes_in", len(buf)),
		zap.Duration("took", time.Since(started)),
	)

	return reply, nil
}

// readReply is a single receive: whatever the first non-empty read yields,
// at most the byte budget. The controller is not required to terminate lines.
func (c *Client) readReply(r io.Reader) ([]byte, error) {
	buf := make([]byte, c.maxReply)
	for {
		n, err := r.Read(buf)
		if n > 0 || err != nil {
			return buf[:n], err
		}
	}
}

// ---- helpers ----

func trimTerminator(b []byte) []byte {
	if n := len(b); n > 0 && (b[n-1] == '\n' || b[n-1] == '\r') {
		return b[:n-1]
	}
	return b
}

func writeAll(w io.Writer, b []byte) error {
	for len(b) > 0 {
		n, err := w.Write(b)
		if err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}
