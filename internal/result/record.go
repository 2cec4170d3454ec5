// internal/result/record.go
package result

import "fmt"

// Record is what the host receives after every call.
// Layout is host-locked: class, records, error, domain, unused.
type Record struct {
	Class   int32
	Records int32
	Code    int32
	Domain  Domain
}

// New builds a record for an outcome.
func New(class, records int, err error) Record {
	return WithCode(class, records, Code(err))
}

// WithCode builds a record from an already-mapped code.
func WithCode(class, records int, code int32) Record {
	return Record{
		Class:   int32(class),
		Records: int32(records),
		Code:    code,
		Domain:  DomainFor(code),
	}
}

// OK reports success.
func (r Record) OK() bool { return r.Code == CodeOK }

// Words encodes the 5-word host block.
// The domain is packed the way the host copies two chars into an int:
// first char in the low byte.
func (r Record) Words() [5]int32 {
	var w [5]int32

	w[0] = r.Class
	w[1] = r.Records
	w[2] = r.Code
	w[3] = int32(uint32(r.Domain[0]) | uint32(r.Domain[1])<<8)
	// w[4] unused, always 0

	return w
}

func (r Record) String() string {
	return fmt.Sprintf("class=%d records=%d error=%d %s", r.Class, r.Records, r.Code, r.Domain)
}
