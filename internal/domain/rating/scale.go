// Package rating implements the Glicko-2 rating system.
//
// Ratings exist on two scales. The display scale is the familiar one centered
// at 1500 with a deviation of 350 for an unrated competitor. The internal scale
// is the one the update algorithm computes on; it also carries volatility.
// Conversions between the two are explicit: Display -> Internal assumes
// DefaultVolatility, Internal -> Display drops volatility.
//
// See http://www.glicko.net/glicko/glicko2.pdf for the algorithm.
package rating

import "math"

// Scale conversion constants.
const (
	Scale             = 173.7178
	DisplayCenter     = 1500.0
	UnratedDeviation  = 350.0
	DefaultVolatility = 0.06

	// intervalZ is the two-sided 95% normal quantile.
	intervalZ = 1.96
)

// UnratedDisplay is the display-scale rating of a competitor with no history.
var UnratedDisplay = Display{Value: DisplayCenter, Deviation: UnratedDeviation}

// Display is a rating on the human-facing scale.
type Display struct {
	Value     float64 `json:"value"`
	Deviation float64 `json:"deviation"`
}

// Internal is a rating on the scale the update algorithm works on.
type Internal struct {
	Value      float64 `json:"value"`
	Deviation  float64 `json:"deviation"`
	Volatility float64 `json:"volatility"`
}

// Convertible is anything that can be expressed on the internal scale.
// Both Display and Internal satisfy it.
type Convertible interface {
	Internal() Internal
}

// Interval is a closed range of display-scale values.
type Interval struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// ToInternal converts a display rating, assigning DefaultVolatility.
func ToInternal(d Display) Internal {
	return Internal{
		Value:      (d.Value - DisplayCenter) / Scale,
		Deviation:  d.Deviation / Scale,
		Volatility: DefaultVolatility,
	}
}

// ToDisplay converts an internal rating. Volatility is lost.
func ToDisplay(r Internal) Display {
	return Display{
		Value:     r.Value*Scale + DisplayCenter,
		Deviation: r.Deviation * Scale,
	}
}

// UnratedInternal returns UnratedDisplay on the internal scale.
func UnratedInternal() Internal {
	return ToInternal(UnratedDisplay)
}

// Internal implements Convertible.
func (d Display) Internal() Internal { return ToInternal(d) }

// Interval returns the 95% confidence range around the rating.
func (d Display) Interval() Interval {
	half := intervalZ * d.Deviation
	return Interval{Low: d.Value - half, High: d.Value + half}
}

// Internal implements Convertible.
func (r Internal) Internal() Internal { return r }

// Display converts to the display scale, dropping volatility.
func (r Internal) Display() Display { return ToDisplay(r) }

// WithVolatility returns a copy of r carrying the given volatility.
func (r Internal) WithVolatility(sigma float64) Internal {
	r.Volatility = sigma
	return r
}

// IsFinite reports whether every component of r is a finite number.
func (r Internal) IsFinite() bool {
	for _, x := range [...]float64{r.Value, r.Deviation, r.Volatility} {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
