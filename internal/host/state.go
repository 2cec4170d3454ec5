// internal/host/state.go
package host

import "sync"

// Source is the pointing target as the host stores it.
type Source struct {
	Name string
	RA   float64 // radians
	Dec  float64 // radians
}

// MemState is an in-process stand-in for the host shared memory.
type MemState struct {
	mu       sync.Mutex
	source   Source
	az, el   float64
	onSource bool
}

func NewMemState(src Source) *MemState {
	return &MemState{source: src}
}

// ---- dispatch.State ----

func (s *MemState) SourceName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source.Name
}

func (s *MemState) SourceCoords() (float64, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source.RA, s.source.Dec
}

func (s *MemState) Offsets() (float64, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.az, s.el
}

func (s *MemState) SetOnSource(on bool) {
	s.mu.Lock()
	s.onSource = on
	s.mu.Unlock()
}

// ---- host side ----

func (s *MemState) SetSource(src Source) {
	s.mu.Lock()
	s.source = src
	s.mu.Unlock()
}

func (s *MemState) SetOffsets(az, el float64) {
	s.mu.Lock()
	s.az, s.el = az, el
	s.mu.Unlock()
}

func (s *MemState) OnSource() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.onSource
}
