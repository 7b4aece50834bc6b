// Package datatype implements the Garmin Dxxx record schemas (spec §3, §4.2)
// on top of internal/codec: one Go struct plus codec.Schema per datatype
// variant, and the packet_id constants that disambiguate which schema to use
// within a category.
package datatype

const semicircleScale = 1 << 31

// SemicircleToDegrees converts a semicircle integer to degrees: 2^31
// semicircles equals 180 degrees (spec §3, GLOSSARY).
func SemicircleToDegrees(v int32) float64 {
	return float64(v) * 180.0 / semicircleScale
}

// DegreesToSemicircle is the inverse of SemicircleToDegrees, rounding to the
// nearest representable semicircle.
func DegreesToSemicircle(deg float64) int32 {
	scaled := deg * semicircleScale / 180.0
	if scaled >= 0 {
		return int32(scaled + 0.5)
	}
	return int32(scaled - 0.5)
}

// Position is a decoded lat/lon pair in wire semicircle units (spec §3).
type Position struct {
	Lat int32
	Lon int32
}

// Degrees returns the position as (latitude, longitude) in degrees.
func (p Position) Degrees() (lat, lon float64) {
	return SemicircleToDegrees(p.Lat), SemicircleToDegrees(p.Lon)
}
