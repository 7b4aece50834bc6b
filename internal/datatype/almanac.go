package datatype

import "github.com/basincreek/gogarmin/internal/codec"

// AlmanacEntry is one satellite's D500 almanac record.
type AlmanacEntry struct {
	WeekNumber int16
	Eccentricity float32
	Toa          float32
	Inclination  float32
	Svid         uint8
	Health       uint8
}

// D500Schema is the almanac datatype.
var D500Schema = codec.Schema{
	{Name: "svid", Kind: codec.U8},
	{Name: "week_number", Kind: codec.I16},
	{Name: "eccentricity", Kind: codec.F32},
	{Name: "toa", Kind: codec.F32},
	{Name: "inclination", Kind: codec.F32},
	{Name: "health", Kind: codec.U8, Optional: true},
}

// DecodeD500 decodes an almanac entry.
func DecodeD500(buf []byte) (AlmanacEntry, error) {
	rec, err := codec.Decode(D500Schema, buf)
	if err != nil {
		return AlmanacEntry{}, err
	}
	return AlmanacEntry{
		Svid:         rec.Fields["svid"].(uint8),
		WeekNumber:   rec.Fields["week_number"].(int16),
		Eccentricity: rec.Fields["eccentricity"].(float32),
		Toa:          rec.Fields["toa"].(float32),
		Inclination:  rec.Fields["inclination"].(float32),
		Health:       rec.Fields["health"].(uint8),
	}, nil
}

// EncodeD500 encodes a as an almanac entry.
func EncodeD500(a AlmanacEntry) ([]byte, error) {
	rec := codec.NewRecord()
	rec.Set("svid", a.Svid)
	rec.Set("week_number", a.WeekNumber)
	rec.Set("eccentricity", a.Eccentricity)
	rec.Set("toa", a.Toa)
	rec.Set("inclination", a.Inclination)
	rec.Set("health", a.Health)
	return codec.Encode(D500Schema, rec)
}
