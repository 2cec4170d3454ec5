// internal/status/snapshot.go
package status

import (
	"github.com/tamzrod/rt22-antcn/internal/result"
)

// Snapshot is the last delivered call, in register form.
type Snapshot struct {
	Health        uint16
	LastErrorCode uint16 // int16 two's complement
	LastMode      uint16
	Calls         uint16
}

// FromRecord builds the snapshot for one delivered record.
// calls is the running counter; it wraps.
func FromRecord(mode int, rec result.Record, calls uint16) Snapshot {
	health := HealthOK
	if !rec.OK() {
		health = HealthError
	}

	return Snapshot{
		Health:        health,
		LastErrorCode: uint16(int16(rec.Code)),
		LastMode:      uint16(mode),
		Calls:         calls,
	}
}

// ErrorCode returns the signed result code held in the snapshot.
func (s Snapshot) ErrorCode() int32 {
	return int32(int16(s.LastErrorCode))
}
