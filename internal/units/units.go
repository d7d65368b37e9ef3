// Package units holds the unit conventions shared across the pushing
// stack. Robot drivers speak millimetres and degrees; the work frame,
// trajectories and observation features are metres and radians.
// Conversions live here so the boundary stays in one place.
package units

import "math"

// MMToM converts millimetres to metres.
func MMToM(mm float64) float64 { return mm * 0.001 }

// MToMM converts metres to millimetres.
func MToMM(m float64) float64 { return m * 1000 }

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 { return deg * math.Pi / 180 }

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 { return rad * 180 / math.Pi }
