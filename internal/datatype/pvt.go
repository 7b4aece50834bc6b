package datatype

import "github.com/basincreek/gogarmin/internal/codec"

// PVT is one real-time position/velocity/time fix streamed during an A800
// session (spec §3, §4.7).
type PVT struct {
	Alt      float32
	Epe      float32
	Fix      uint16 // 0=unusable .. 5=3D differential
	Tow      float64
	Posn     Position
	EastVel  float32
	NorthVel float32
	UpVel    float32
}

// D800Schema is the PVT datatype.
var D800Schema = codec.Schema{
	{Name: "alt", Kind: codec.F32},
	{Name: "epe", Kind: codec.F32},
	{Name: "fix", Kind: codec.U16},
	{Name: "tow", Kind: codec.F64},
	{Name: "posn", Kind: codec.Record, Sub: codec.Schema{
		{Name: "lat", Kind: codec.I32},
		{Name: "lon", Kind: codec.I32},
	}},
	{Name: "east_vel", Kind: codec.F32},
	{Name: "north_vel", Kind: codec.F32},
	{Name: "up_vel", Kind: codec.F32},
}

// DecodeD800 decodes a PVT record.
func DecodeD800(buf []byte) (PVT, error) {
	rec, err := codec.Decode(D800Schema, buf)
	if err != nil {
		return PVT{}, err
	}
	posn := rec.Fields["posn"].(codec.Record)
	return PVT{
		Alt:      rec.Fields["alt"].(float32),
		Epe:      rec.Fields["epe"].(float32),
		Fix:      rec.Fields["fix"].(uint16),
		Tow:      rec.Fields["tow"].(float64),
		Posn:     Position{Lat: posn.Fields["lat"].(int32), Lon: posn.Fields["lon"].(int32)},
		EastVel:  rec.Fields["east_vel"].(float32),
		NorthVel: rec.Fields["north_vel"].(float32),
		UpVel:    rec.Fields["up_vel"].(float32),
	}, nil
}

// EncodeD800 encodes p as a PVT record. Used by tests that simulate a
// streaming device.
func EncodeD800(p PVT) ([]byte, error) {
	rec := codec.NewRecord()
	rec.Set("alt", p.Alt)
	rec.Set("epe", p.Epe)
	rec.Set("fix", p.Fix)
	rec.Set("tow", p.Tow)
	posn := codec.NewRecord()
	posn.Set("lat", p.Posn.Lat)
	posn.Set("lon", p.Posn.Lon)
	rec.Set("posn", posn)
	rec.Set("east_vel", p.EastVel)
	rec.Set("north_vel", p.NorthVel)
	rec.Set("up_vel", p.UpVel)
	return codec.Encode(D800Schema, rec)
}
