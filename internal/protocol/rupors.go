// internal/protocol/rupors.go
package protocol

// Rupors is the feed-horn (rupor) bias set sent by SET_RUPORS.
// Angles are radians.
type Rupors struct {
	LeftAz     float64
	LeftEl     float64
	RightAz    float64
	RightEl    float64
	Polarity   int
	ErrorBound float64
}

// RuporsArcsec is the same set expressed the way operators configure it.
type RuporsArcsec struct {
	LeftAz     float64
	LeftEl     float64
	RightAz    float64
	RightEl    float64
	Polarity   int
	ErrorBound float64
}

// RT-22 VLBI standard.
var DefaultRuporsArcsec = RuporsArcsec{
	LeftAz:     -580,
	LeftEl:     530,
	RightAz:    580,
	RightEl:    530,
	Polarity:   -1,
	ErrorBound: 40,
}

// Radians converts once; callers keep the result for the process lifetime.
func (a RuporsArcsec) Radians() Rupors {
	return Rupors{
		LeftAz:     ArcsecToRad(a.LeftAz),
		LeftEl:     ArcsecToRad(a.LeftEl),
		RightAz:    ArcsecToRad(a.RightAz),
		RightEl:    ArcsecToRad(a.RightEl),
		Polarity:   a.Polarity,
		ErrorBound: ArcsecToRad(a.ErrorBound),
	}
}
