// internal/protocol/reply.go
package protocol

import (
	"fmt"
	"strings"
)

// DefaultErrorTokens are reply leaders the controller uses to report failure.
var DefaultErrorTokens = []string{"ERROR", "ERR", "NAK", "FAIL"}

// DeviceError is a reply that the controller marked as a failure.
type DeviceError struct {
	Verb  string
	Reply string
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("controller rejected %s: %s", e.Verb, e.Reply)
}

// ReplyChecker classifies replies by their first token.
// Everything else in a reply stays opaque.
type ReplyChecker struct {
	tokens []string
}

// NewReplyChecker builds a checker; nil tokens means DefaultErrorTokens.
func NewReplyChecker(tokens []string) ReplyChecker {
	if tokens == nil {
		tokens = DefaultErrorTokens
	}
	up := make([]string, 0, len(tokens))
	for _, t := range tokens {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t != "" {
			up = append(up, t)
		}
	}
	return ReplyChecker{tokens: up}
}

// IsZero reports an unbuilt checker.
func (c ReplyChecker) IsZero() bool { return c.tokens == nil }

// Check returns *DeviceError when reply leads with an error token.
func (c ReplyChecker) Check(l Line, reply string) error {
	fields := strings.Fields(reply)
	if len(fields) == 0 {
		return nil
	}
	first := strings.ToUpper(strings.TrimRight(fields[0], ":,;"))
	for _, t := range c.tokens {
		if first == t {
			return &DeviceError{Verb: l.Verb(), Reply: reply}
		}
	}
	return nil
}
