// internal/devsim/server.go
package devsim

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tamzrod/rt22-antcn/internal/protocol"
)

// Reply sent for every accepted command.
const ReplyOK = "OK"

// DefaultMaxLine bounds one received command, terminator included.
const DefaultMaxLine = 512

type Config struct {
	Listen      string // host:port, port 0 picks one
	MaxLine     int
	ConnTimeout time.Duration
	Logger      *zap.Logger
}

// Values is the simulated controller state.
type Values struct {
	RA, Dec     float64 // radians
	ShiftAz     float64
	ShiftEl     float64
	Rupors      protocol.Rupors
	Temperature float64 // C
	Pressure    float64 // hPa
	Humidity    float64 // %
}

// Server is an RT-22 antenna controller stand-in.
// One command line per connection, one reply line back.
type Server struct {
	cfg Config
	log *zap.Logger

	ln       net.Listener
	stopOnce sync.Once
	stopChan chan struct{}

	connMu  sync.Mutex // orders wg.Add against Close
	closing bool
	wg      sync.WaitGroup

	mu        sync.Mutex
	values    Values
	history   []protocol.Line
	overrides map[string]string
	drop      bool
	delay     time.Duration
}

func New(cfg Config) *Server {
	if cfg.MaxLine <= 0 {
		cfg.MaxLine = DefaultMaxLine
	}
	if cfg.ConnTimeout <= 0 {
		cfg.ConnTimeout = 5 * time.Second
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Server{
		cfg:      cfg,
		log:      log.Named("rt22sim"),
		stopChan: make(chan struct{}),
		values: Values{
			Rupors:      protocol.DefaultRuporsArcsec.Radians(),
			Temperature: 15,
			Pressure:    1013.25,
			Humidity:    60,
		},
		overrides: make(map[string]string),
	}
}

// Start binds the listener and serves in the background.
func Start(cfg Config) (*Server, error) {
	s := New(cfg)
	if err := s.Listen(); err != nil {
		return nil, err
	}
	go s.Serve()
	return s, nil
}

// Listen binds the configured address.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return fmt.Errorf("devsim: listen %s: %w", s.cfg.Listen, err)
	}
	s.ln = ln
	s.log.Info("listening", zap.String("addr", ln.Addr().String()))
	return nil
}

// Addr is the bound address, "" before Listen.
func (s *Server) Addr() string {
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Serve accepts connections until Close.
func (s *Server) Serve() error {
	if s.ln == nil {
		return errors.New("devsim: not listening")
	}

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			select {
			case <-s.stopChan:
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.log.Warn("accept failed", zap.Error(err))
			continue
		}

		if !s.track() {
			conn.Close()
			return nil
		}
		go func() {
			defer s.wg.Done()
			s.handleConnection(conn)
		}()
	}
}

// ListenAndServe runs until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		s.Close()
	}()

	return s.Serve()
}

// Close stops accepting and waits for open connections.
func (s *Server) Close() error {
	var err error
	s.stopOnce.Do(func() {
		s.connMu.Lock()
		s.closing = true
		s.connMu.Unlock()

		close(s.stopChan)
		if s.ln != nil {
			err = s.ln.Close()
		}
	})
	s.wg.Wait()
	return err
}

// track registers one connection handler unless Close has begun.
func (s *Server) track() bool {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	if s.closing {
		return false
	}
	s.wg.Add(1)
	return true
}

// ---- test hooks ----

// Commands returns every parsed command, oldest first.
func (s *Server) Commands() []protocol.Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]protocol.Line(nil), s.history...)
}

// Verbs returns the verbs of Commands.
func (s *Server) Verbs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.history))
	for i, l := range s.history {
		out[i] = l.Verb()
	}
	return out
}

// SetReplyOverride replaces the reply for verb. Empty reply clears it.
func (s *Server) SetReplyOverride(verb, reply string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if reply == "" {
		delete(s.overrides, verb)
		return
	}
	s.overrides[verb] = reply
}

// SetDropReply makes the server close connections without replying.
func (s *Server) SetDropReply(drop bool) {
	s.mu.Lock()
	s.drop = drop
	s.mu.Unlock()
}

// SetDelay holds every reply back by d.
func (s *Server) SetDelay(d time.Duration) {
	s.mu.Lock()
	s.delay = d
	s.mu.Unlock()
}

// Values returns the current simulated state.
func (s *Server) Values() Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values
}

// ---- connection ----

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(s.cfg.ConnTimeout))

	r := bufio.NewReader(io.LimitReader(conn, int64(s.cfg.MaxLine)))
	raw, err := r.ReadString('\n')
	if err != nil && raw == "" {
		s.log.Debug("read failed", zap.String("client", conn.RemoteAddr().String()), zap.Error(err))
		return
	}

	reply := s.process(raw)

	s.mu.Lock()
	drop, delay := s.drop, s.delay
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-s.stopChan:
			return
		}
	}
	if drop {
		return
	}

	if _, err := io.WriteString(conn, reply+protocol.Terminator); err != nil {
		s.log.Debug("write failed", zap.Error(err))
	}
}

// process parses one command, applies it and returns the reply (no terminator).
func (s *Server) process(raw string) string {
	line, err := protocol.ParseLine(raw)
	if err != nil {
		s.log.Warn("bad command", zap.String("line", strings.TrimRight(raw, "\r\n")), zap.Error(err))
		return "ERROR " + err.Error()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, line)

	if r, ok := s.overrides[line.Verb()]; ok {
		return r
	}

	switch line.Verb() {
	case protocol.VerbMessage:
		s.log.Info("message", zap.String("text", line.Fields()[0]))
		return ReplyOK

	case protocol.VerbCalibration:
		v := s.values
		return joinFloats(v.RA, v.Dec, 0, v.ShiftAz, v.ShiftEl)

	case protocol.VerbCurrent:
		v := s.values
		return joinFloats(v.RA, v.Dec, 0, 0, 0)

	case protocol.VerbMeteo:
		v := s.values
		return joinFloats(v.Temperature, v.Pressure, v.Humidity)

	case protocol.VerbGetRupors:
		r := s.values.Rupors
		return joinFloats(r.LeftAz, r.LeftEl, r.RightAz, r.RightEl, float64(r.Polarity), r.ErrorBound)

	case protocol.VerbSetRupors:
		f, err := floats(line, 6)
		if err != nil {
			return "ERROR " + err.Error()
		}
		s.values.Rupors = protocol.Rupors{
			LeftAz:     f[0],
			LeftEl:     f[1],
			RightAz:    f[2],
			RightEl:    f[3],
			Polarity:   int(f[4]),
			ErrorBound: f[5],
		}
		return ReplyOK

	case protocol.VerbNewSource:
		f, err := floats(line, 2)
		if err != nil {
			return "ERROR " + err.Error()
		}
		s.values.RA, s.values.Dec = f[0], f[1]
		s.values.ShiftAz, s.values.ShiftEl = 0, 0
		return ReplyOK

	case protocol.VerbSetShifts:
		f, err := floats(line, 2)
		if err != nil {
			return "ERROR " + err.Error()
		}
		s.values.ShiftAz, s.values.ShiftEl = f[0], f[1]
		return ReplyOK
	}

	return "ERROR unsupported " + line.Verb()
}

func floats(l protocol.Line, n int) ([]float64, error) {
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := l.FloatField(i)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func joinFloats(vs ...float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.FormatFloat(v, 'f', 9, 64)
	}
	return strings.Join(parts, protocol.Delimiter)
}
