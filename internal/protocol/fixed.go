// internal/protocol/fixed.go
package protocol

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FractionDigits is the fixed precision of every angular/coordinate field.
const FractionDigits = 32

// Fixed encodes v as plain decimal text with exactly FractionDigits fractional digits.
// Never scientific notation, never locale separators.
func Fixed(v float64) string {
	return strconv.FormatFloat(v, 'f', FractionDigits, 64)
}

// Int encodes an integer flag field.
func Int(v int) string {
	return strconv.Itoa(v)
}

// ParseFixed decodes a field produced by Fixed.
func ParseFixed(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("protocol: empty numeric field")
	}
	if strings.ContainsAny(s, "eE,") {
		return 0, fmt.Errorf("protocol: numeric field %q is not plain decimal", s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("protocol: numeric field %q: %w", s, err)
	}
	return v, nil
}

// ArcsecToRad converts arc-seconds to radians (a * pi / 648000).
func ArcsecToRad(arcsec float64) float64 {
	return arcsec * math.Pi / 648000
}
