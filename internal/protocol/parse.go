// internal/protocol/parse.go
package protocol

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyLine   = errors.New("protocol: empty line")
	ErrUnknownVerb = errors.New("protocol: unknown verb")
	ErrFieldCount  = errors.New("protocol: wrong field count")
)

// expected field counts; -1 = free text
var verbFields = map[string]int{
	VerbMessage:     -1,
	VerbCalibration: 0,
	VerbCurrent:     0,
	VerbMeteo:       0,
	VerbGetRupors:   0,
	VerbSetRupors:   6,
	VerbNewSource:   6,
	VerbSetShifts:   2,
}

// ParseLine splits a received command line back into verb and fields.
// Used on the controller side; the adapter itself never parses commands.
func ParseLine(s string) (Line, error) {
	body := strings.TrimRight(s, "\r\n")
	if strings.TrimSpace(body) == "" {
		return Line{}, ErrEmptyLine
	}

	verb, rest, _ := strings.Cut(body, Delimiter)

	want, ok := verbFields[verb]
	if !ok {
		return Line{}, fmt.Errorf("%w: %q", ErrUnknownVerb, verb)
	}

	var fields []string
	if want < 0 {
		fields = []string{rest}
	} else {
		fields = strings.Fields(rest)
		if len(fields) != want {
			return Line{}, fmt.Errorf("%w: %s got=%d want=%d", ErrFieldCount, verb, len(fields), want)
		}
	}

	return Line{verb: verb, fields: fields, raw: body + Terminator}, nil
}

// FloatField decodes field i of l as a Fixed value.
func (l Line) FloatField(i int) (float64, error) {
	if i < 0 || i >= len(l.fields) {
		return 0, fmt.Errorf("%w: %s has no field %d", ErrFieldCount, l.verb, i)
	}
	return ParseFixed(l.fields[i])
}
