// internal/dispatch/dispatcher_test.go
package dispatch

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tamzrod/rt22-antcn/internal/link"
	"github.com/tamzrod/rt22-antcn/internal/protocol"
	"github.com/tamzrod/rt22-antcn/internal/result"
)

// ---- fakes ----

type fakeLink struct {
	lines   []protocol.Line
	replies map[string]string // verb -> reply
	fail    map[string]error  // verb -> error
	failAll error
}

func (f *fakeLink) Exchange(_ context.Context, l protocol.Line) (string, error) {
	f.lines = append(f.lines, l)
	if f.failAll != nil {
		return "", f.failAll
	}
	if err := f.fail[l.Verb()]; err != nil {
		return "", err
	}
	if r, ok := f.replies[l.Verb()]; ok {
		return r, nil
	}
	return "OK", nil
}

func (f *fakeLink) verbs() []string {
	out := make([]string, 0, len(f.lines))
	for _, l := range f.lines {
		out = append(out, l.Verb())
	}
	return out
}

type fakeState struct {
	name     string
	ra, dec  float64
	az, el   float64
	onSource bool
	sets     int
}

func (s *fakeState) SourceName() string              { return s.name }
func (s *fakeState) SourceCoords() (float64, float64) { return s.ra, s.dec }
func (s *fakeState) Offsets() (float64, float64)      { return s.az, s.el }
func (s *fakeState) SetOnSource(on bool) {
	s.onSource = on
	s.sets++
}

type fakeClasses struct {
	queues map[int][][]byte
	sent   map[int][][]byte
	reads  int
	next   int
}

func newFakeClasses() *fakeClasses {
	return &fakeClasses{queues: map[int][][]byte{}, sent: map[int][][]byte{}, next: 100}
}

func (c *fakeClasses) Receive(class int, max int) ([]byte, error) {
	c.reads++
	q := c.queues[class]
	if len(q) == 0 {
		return nil, errors.New("class empty")
	}
	msg := q[0]
	c.queues[class] = q[1:]
	if len(msg) > max {
		msg = msg[:max]
	}
	return msg, nil
}

func (c *fakeClasses) Send(class int, msg []byte) (int, error) {
	if class == 0 {
		c.next++
		class = c.next
	}
	c.sent[class] = append(c.sent[class], msg)
	return class, nil
}

type recLogger struct {
	lines   []string
	codes   []int32
	domains []string
}

func (l *recLogger) Logit(msg string, code int32, domain string) {
	l.lines = append(l.lines, msg)
	l.codes = append(l.codes, code)
	l.domains = append(l.domains, domain)
}

func (l *recLogger) contains(s string) bool {
	for _, m := range l.lines {
		if strings.Contains(m, s) {
			return true
		}
	}
	return false
}

type rig struct {
	d       *Dispatcher
	link    *fakeLink
	state   *fakeState
	classes *fakeClasses
	log     *recLogger
}

func newRig(t *testing.T) *rig {
	t.Helper()
	r := &rig{
		link:    &fakeLink{replies: map[string]string{}, fail: map[string]error{}},
		state:   &fakeState{name: "3C84", ra: 0.87, dec: 0.72, az: 0.001, el: -0.002},
		classes: newFakeClasses(),
		log:     &recLogger{},
	}
	d, err := New(Config{Rupors: protocol.DefaultRuporsArcsec.Radians()}, r.link, r.state, r.classes, r.log)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	r.d = d
	return r
}

func (r *rig) handle(t *testing.T, req Request) result.Record {
	t.Helper()
	rec, err := r.d.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle(%+v) err=%v", req, err)
	}
	return rec
}

// ---- tests ----

func TestHandle_IllegalModes(t *testing.T) {
	r := newRig(t)

	for _, m := range []int{-32768, -1, 11, 12, 99, 100, 32767} {
		rec := r.handle(t, Request{Mode: m})
		if rec.Code != result.CodeIllegalMode {
			t.Fatalf("mode %d: code=%d want -1", m, rec.Code)
		}
		if rec.Domain != result.DomainHost {
			t.Fatalf("mode %d: domain=%q", m, rec.Domain)
		}
	}
	if len(r.link.lines) != 0 {
		t.Fatalf("illegal modes must not touch the controller, got %v", r.link.verbs())
	}
}

func TestHandle_InitializeSequence(t *testing.T) {
	r := newRig(t)
	r.state.onSource = true

	rec := r.handle(t, Request{Mode: ModeInitialize})
	if !rec.OK() {
		t.Fatalf("code=%d", rec.Code)
	}

	want := []string{
		protocol.VerbMessage,
		protocol.VerbCalibration,
		protocol.VerbCurrent,
		protocol.VerbMeteo,
		protocol.VerbSetRupors,
		protocol.VerbGetRupors,
	}
	if got := strings.Join(r.link.verbs(), ","); got != strings.Join(want, ",") {
		t.Fatalf("sequence=%s want=%s", got, strings.Join(want, ","))
	}
	if r.link.lines[0].String() != protocol.Announce().String() {
		t.Fatalf("first exchange must be the announce, got %q", r.link.lines[0].String())
	}
	if r.link.lines[4].String() != protocol.SetRupors(protocol.DefaultRuporsArcsec.Radians()).String() {
		t.Fatalf("unexpected rupors line %q", r.link.lines[4].String())
	}
	if r.state.onSource {
		t.Fatalf("on-source flag must be cleared")
	}
}

func TestHandle_InitializeKeepsGoingOnFailures(t *testing.T) {
	r := newRig(t)
	r.link.failAll = &link.Error{Op: link.OpConnect, Err: errors.New("refused")}
	r.state.onSource = true

	rec := r.handle(t, Request{Mode: ModeInitialize})

	if len(r.link.lines) != 6 {
		t.Fatalf("expected 6 exchanges, got %d", len(r.link.lines))
	}
	if rec.Code != result.CodeNotRemote {
		t.Fatalf("code=%d want %d", rec.Code, result.CodeNotRemote)
	}
	if r.state.onSource {
		t.Fatalf("on-source flag must be cleared even on failure")
	}
	if !r.log.contains("WARNING: SEND_MESSG failed") {
		t.Fatalf("link failure not logged: %v", r.log.lines)
	}
}

func TestHandle_InitializeRuporsRejected(t *testing.T) {
	r := newRig(t)
	r.link.replies[protocol.VerbSetRupors] = "ERROR rupor drive fault"

	rec := r.handle(t, Request{Mode: ModeInitialize})
	if rec.Code != result.CodePointingModel {
		t.Fatalf("code=%d want %d", rec.Code, result.CodePointingModel)
	}
	if len(r.link.lines) != 6 {
		t.Fatalf("re-query must still run, got %d exchanges", len(r.link.lines))
	}
}

func TestHandle_PointSource(t *testing.T) {
	r := newRig(t)
	r.state.onSource = true

	rec := r.handle(t, Request{Mode: ModeSource})
	if !rec.OK() {
		t.Fatalf("code=%d", rec.Code)
	}
	if len(r.link.lines) != 2 {
		t.Fatalf("expected 2 exchanges, got %v", r.link.verbs())
	}
	if got := r.link.lines[0].String(); got != "SEND_MESSG New Source : 3C84\r\n" {
		t.Fatalf("announce=%q", got)
	}

	cmd := r.link.lines[1].String()
	want := "NEW_SOURCE " + protocol.Fixed(0.87) + " " + protocol.Fixed(0.72) + " 1 0 0 0 \r\n"
	if cmd != want {
		t.Fatalf("got=%q want=%q", cmd, want)
	}
	if r.state.onSource {
		t.Fatalf("on-source flag must be cleared")
	}
}

func TestHandle_ApplyOffsets(t *testing.T) {
	r := newRig(t)

	rec := r.handle(t, Request{Mode: ModeOffset})
	if !rec.OK() {
		t.Fatalf("code=%d", rec.Code)
	}
	if len(r.link.lines) != 1 {
		t.Fatalf("expected 1 exchange, got %v", r.link.verbs())
	}
	if got, want := r.link.lines[0].String(), protocol.SetShifts(0.001, -0.002).String(); got != want {
		t.Fatalf("got=%q want=%q", got, want)
	}
	if r.state.sets != 1 || r.state.onSource {
		t.Fatalf("on-source flag must be cleared once")
	}
}

func TestHandle_OffsetsDeviceError(t *testing.T) {
	r := newRig(t)
	r.link.replies[protocol.VerbSetShifts] = "NAK shift out of range"

	if rec := r.handle(t, Request{Mode: ModeOffset}); rec.Code != result.CodeDevice {
		t.Fatalf("code=%d want %d", rec.Code, result.CodeDevice)
	}
}

func TestHandle_SourceTimeout(t *testing.T) {
	r := newRig(t)
	r.link.fail[protocol.VerbNewSource] = &link.Error{Op: link.OpReceive, Err: context.DeadlineExceeded}

	if rec := r.handle(t, Request{Mode: ModeSource}); rec.Code != result.CodeTimeout {
		t.Fatalf("code=%d want %d", rec.Code, result.CodeTimeout)
	}

	// the failed exchange is logged with its code and error table
	for i, m := range r.log.lines {
		if strings.HasPrefix(m, "WARNING: "+protocol.VerbNewSource) {
			if r.log.codes[i] != result.CodeTimeout || r.log.domains[i] != "AN" {
				t.Fatalf("logged code=%d domain=%q", r.log.codes[i], r.log.domains[i])
			}
			return
		}
	}
	t.Fatalf("failed exchange not logged: %q", r.log.lines)
}

// panicState blows up on the first shared-state read.
type panicState struct{ fakeState }

func (panicState) SourceName() string { panic("shared memory detached") }

func TestHandle_RecoversHandlerPanic(t *testing.T) {
	log := &recLogger{}
	d, err := New(Config{}, &fakeLink{}, &panicState{}, nil, log)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	rec, err := d.Handle(context.Background(), Request{Mode: ModeSource})
	if err != nil {
		t.Fatalf("Handle err=%v", err)
	}
	if rec.Code != result.CodeIllegalMode || rec.Domain != result.DomainHost {
		t.Fatalf("unexpected record %s", rec)
	}
	if !log.contains("mode 1 aborted: shared memory detached") {
		t.Fatalf("panic not logged: %q", log.lines)
	}
}

func TestHandle_OnSourceModes(t *testing.T) {
	for _, m := range []int{ModeOnSource, ModeOnSourceQuiet, ModeTrack} {
		r := newRig(t)

		rec := r.handle(t, Request{Mode: m})
		if !rec.OK() {
			t.Fatalf("mode %d: code=%d", m, rec.Code)
		}
		if !r.state.onSource {
			t.Fatalf("mode %d: on-source flag not set", m)
		}
		if len(r.link.lines) != 0 {
			t.Fatalf("mode %d: unexpected exchange", m)
		}
	}
}

func TestHandle_FocusAlwaysRejected(t *testing.T) {
	r := newRig(t)

	for _, req := range []Request{
		{Mode: ModeFocus},
		{Mode: ModeFocus, Class: 3, Records: 2},
	} {
		rec := r.handle(t, req)
		if rec.Code != result.CodeIllegalMode {
			t.Fatalf("code=%d want -1", rec.Code)
		}
	}
	if !r.log.contains("TBD focus control") {
		t.Fatalf("focus placeholder not logged")
	}
	if len(r.link.lines) != 0 {
		t.Fatalf("focus must not touch the controller")
	}
}

func TestHandle_NoOpModes(t *testing.T) {
	for _, m := range []int{ModeDetectors, ModeSatellite, ModeTerminate} {
		r := newRig(t)

		rec := r.handle(t, Request{Mode: m})
		if !rec.OK() {
			t.Fatalf("mode %d: code=%d", m, rec.Code)
		}
		if len(r.link.lines) != 0 || r.state.sets != 0 {
			t.Fatalf("mode %d must not touch controller or state", m)
		}
	}
}

func TestHandle_PassThrough(t *testing.T) {
	r := newRig(t)
	r.classes.queues[3] = [][]byte{[]byte("stow"), []byte("unstow")}

	rec := r.handle(t, Request{Mode: ModePassThrough, Class: 3, Records: 2})
	if !rec.OK() {
		t.Fatalf("code=%d", rec.Code)
	}
	if rec.Records != 2 {
		t.Fatalf("records=%d want 2", rec.Records)
	}
	if r.classes.reads != 2 {
		t.Fatalf("reads=%d want 2", r.classes.reads)
	}

	acks := r.classes.sent[int(rec.Class)]
	if rec.Class == 0 || len(acks) != 2 {
		t.Fatalf("expected 2 acks in reply class, got class=%d acks=%d", rec.Class, len(acks))
	}
	for _, a := range acks {
		if string(a) != "ACK" {
			t.Fatalf("ack=%q", a)
		}
	}
	if !r.log.contains("Received message for antenna: unstow") {
		t.Fatalf("messages not logged: %v", r.log.lines)
	}
}

func TestHandle_PassThroughZeroClass(t *testing.T) {
	r := newRig(t)

	_, err := r.d.Handle(context.Background(), Request{Mode: ModePassThrough, Class: 0, Records: 2})
	if !errors.Is(err, ErrZeroClass) {
		t.Fatalf("expected ErrZeroClass, got %v", err)
	}
	if r.classes.reads != 0 {
		t.Fatalf("zero class must not read messages")
	}
}

func TestHandle_PassThroughShortClass(t *testing.T) {
	r := newRig(t)
	r.classes.queues[3] = [][]byte{[]byte("only one")}

	rec := r.handle(t, Request{Mode: ModePassThrough, Class: 3, Records: 2})
	if rec.Records != 1 {
		t.Fatalf("records=%d want 1", rec.Records)
	}
	if rec.Code != result.CodeIllegalMode {
		t.Fatalf("code=%d want -1", rec.Code)
	}
}

func TestHandle_PassThroughTruncatesMessages(t *testing.T) {
	r := newRig(t)
	r.classes.queues[3] = [][]byte{[]byte(strings.Repeat("m", 200))}

	r.handle(t, Request{Mode: ModePassThrough, Class: 3, Records: 1})

	want := "Received message for antenna: " + strings.Repeat("m", DefaultMessageMax)
	if !r.log.contains(want) || r.log.contains(want+"m") {
		t.Fatalf("message not cut to %d bytes", DefaultMessageMax)
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Config{}, nil, &fakeState{}, nil, nil); err == nil {
		t.Fatalf("expected error without exchanger")
	}
	if _, err := New(Config{}, &fakeLink{}, nil, nil, nil); err == nil {
		t.Fatalf("expected error without state")
	}
}
