// internal/logging/sink.go
package logging

import "go.uber.org/zap"

// Sink is the host log sink (message + error number + error domain) on zap.
// Code 0 is informational; anything else is a warning carrying the pair.
type Sink struct {
	log *zap.Logger
}

func NewSink(l *zap.Logger) *Sink {
	if l == nil {
		l = zap.NewNop()
	}
	return &Sink{log: l.Named("antcn")}
}

func (s *Sink) Logit(msg string, code int32, domain string) {
	if code == 0 {
		s.log.Info(msg)
		return
	}
	s.log.Warn(msg, zap.Int32("code", code), zap.String("domain", domain))
}
