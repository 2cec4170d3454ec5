// internal/protocol/line.go
package protocol

import (
	"strings"
)

// RT-22 controller verbs.
// The set, field order and delimiters are the wire contract and MUST NOT drift.
const (
	VerbMessage     = "SEND_MESSG"
	VerbCalibration = "GET_COOCAL"
	VerbCurrent     = "GET_COOCUR"
	VerbMeteo       = "GET_METEOD"
	VerbSetRupors   = "SET_RUPORS"
	VerbGetRupors   = "GET_RUPORS"
	VerbNewSource   = "NEW_SOURCE"
	VerbSetShifts   = "SET_SHIFTS"
)

const (
	// Delimiter separates the verb and every field.
	Delimiter = " "

	// Terminator ends every command line.
	Terminator = "\r\n"

	// SourceNameMaxChars is how much of the host source name fits the announce line.
	SourceNameMaxChars = 9

	announceText = "RT-22 Antenna Field System Client Is Connected."

	// EPOCH DA DDEL PM, fixed for every NEW_SOURCE.
	// The trailing delimiter before CRLF is what the controller expects.
	newSourceTrailer = " 1 0 0 0 "
)

// Line is one immutable command line, terminator included.
type Line struct {
	verb   string
	fields []string
	raw    string
}

// String returns the exact wire bytes.
func (l Line) String() string { return l.raw }

// Bytes returns a fresh copy of the wire bytes.
func (l Line) Bytes() []byte { return []byte(l.raw) }

// Verb returns the command verb.
func (l Line) Verb() string { return l.verb }

// Fields returns a copy of the fields after the verb.
func (l Line) Fields() []string {
	out := make([]string, len(l.fields))
	copy(out, l.fields)
	return out
}

// Loggable is the line without its terminator.
func (l Line) Loggable() string { return strings.TrimRight(l.raw, "\r\n") }

func build(verb string, fields ...string) Line {
	var b strings.Builder
	b.WriteString(verb)
	for _, f := range fields {
		b.WriteString(Delimiter)
		b.WriteString(f)
	}
	b.WriteString(Terminator)

	return Line{verb: verb, fields: fields, raw: b.String()}
}

// ---- constructors (one per verb) ----

// Message sends free text to the controller operator console.
// The text travels as a single field.
func Message(text string) Line { return build(VerbMessage, text) }

// Announce is the connectivity check sent on initialization.
func Announce() Line { return Message(announceText) }

// NewSourceMessage announces the source name before a NEW_SOURCE.
// The wire is ASCII: the name keeps its first SourceNameMaxChars characters,
// anything outside printable ASCII becomes '?'.
func NewSourceMessage(name string) Line {
	var b strings.Builder
	n := 0
	for _, r := range name {
		if n == SourceNameMaxChars {
			break
		}
		if r < 0x20 || r > 0x7E {
			r = '?'
		}
		b.WriteRune(r)
		n++
	}
	return Message("New Source : " + b.String())
}

func GetCalibration() Line { return build(VerbCalibration) }
func GetCurrent() Line     { return build(VerbCurrent) }
func GetMeteo() Line       { return build(VerbMeteo) }
func GetRupors() Line      { return build(VerbGetRupors) }

// SetRupors configures the four feed-horn biases, polarity flag and error bound.
func SetRupors(r Rupors) Line {
	return build(VerbSetRupors,
		Fixed(r.LeftAz),
		Fixed(r.LeftEl),
		Fixed(r.RightAz),
		Fixed(r.RightEl),
		Int(r.Polarity),
		Fixed(r.ErrorBound),
	)
}

// NewSource points the antenna at ra/dec (radians).
func NewSource(ra, dec float64) Line {
	a, d := Fixed(ra), Fixed(dec)

	var b strings.Builder
	b.WriteString(VerbNewSource)
	b.WriteString(Delimiter)
	b.WriteString(a)
	b.WriteString(Delimiter)
	b.WriteString(d)
	b.WriteString(newSourceTrailer)
	b.WriteString(Terminator)

	return Line{
		verb:   VerbNewSource,
		fields: []string{a, d, "1", "0", "0", "0"},
		raw:    b.String(),
	}
}

// SetShifts applies azimuth/elevation corrections (radians).
func SetShifts(az, el float64) Line {
	return build(VerbSetShifts, Fixed(az), Fixed(el))
}

// Describe returns the field legend logged before a query, or "".
func Describe(verb string) string {
	switch verb {
	case VerbCalibration:
		return "GET_COOCAL : Alpha, Delta, F_Error, A1, H1"
	case VerbCurrent:
		return "GET_COOCUR : Alpha_Cur, Delta_Cur, F_Error, Er_CurA, Er_CurH"
	case VerbMeteo:
		return "GET_METEOD : T, P, WL"
	case VerbGetRupors:
		return "GET_RUPORS : FL_A, FL_H, FR_A, FR_H, ILRB, Error"
	default:
		return ""
	}
}
