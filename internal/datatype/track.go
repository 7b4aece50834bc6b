package datatype

import "github.com/basincreek/gogarmin/internal/codec"

// TrackHeader announces display and color attributes for the points that
// follow (spec §3).
type TrackHeader struct {
	Dspl  uint8
	Color uint8
	Ident string
}

// D310Schema is the track header datatype.
var D310Schema = codec.Schema{
	{Name: "dspl", Kind: codec.U8},
	{Name: "color", Kind: codec.U8},
	{Name: "ident", Kind: codec.CString},
}

// DecodeD310 decodes a track header.
func DecodeD310(buf []byte) (TrackHeader, error) {
	rec, err := codec.Decode(D310Schema, buf)
	if err != nil {
		return TrackHeader{}, err
	}
	return TrackHeader{Dspl: rec.Fields["dspl"].(uint8), Color: rec.Fields["color"].(uint8), Ident: rec.Fields["ident"].(string)}, nil
}

// EncodeD310 encodes h as a track header.
func EncodeD310(h TrackHeader) ([]byte, error) {
	rec := codec.NewRecord()
	rec.Set("dspl", h.Dspl)
	rec.Set("color", h.Color)
	rec.Set("ident", h.Ident)
	return codec.Encode(D310Schema, rec)
}

// TrackPoint is one recorded fix; NewTrk marks the first point of a segment
// (spec §3).
type TrackPoint struct {
	Posn  Position
	Time  uint32
	Alt   float32
	Depth float32
	NewTrk bool
}

// D301Schema is the track point datatype.
var D301Schema = codec.Schema{
	{Name: "posn", Kind: codec.Record, Sub: codec.Schema{
		{Name: "lat", Kind: codec.I32},
		{Name: "lon", Kind: codec.I32},
	}},
	{Name: "time", Kind: codec.U32},
	{Name: "alt", Kind: codec.F32},
	{Name: "depth", Kind: codec.F32},
	{Name: "new_trk", Kind: codec.U8},
}

// DecodeD301 decodes a track point.
func DecodeD301(buf []byte) (TrackPoint, error) {
	rec, err := codec.Decode(D301Schema, buf)
	if err != nil {
		return TrackPoint{}, err
	}
	posn := rec.Fields["posn"].(codec.Record)
	return TrackPoint{
		Posn:   Position{Lat: posn.Fields["lat"].(int32), Lon: posn.Fields["lon"].(int32)},
		Time:   rec.Fields["time"].(uint32),
		Alt:    rec.Fields["alt"].(float32),
		Depth:  rec.Fields["depth"].(float32),
		NewTrk: rec.Fields["new_trk"].(uint8) != 0,
	}, nil
}

// EncodeD301 encodes p as a track point.
func EncodeD301(p TrackPoint) ([]byte, error) {
	rec := codec.NewRecord()
	posn := codec.NewRecord()
	posn.Set("lat", p.Posn.Lat)
	posn.Set("lon", p.Posn.Lon)
	rec.Set("posn", posn)
	rec.Set("time", p.Time)
	rec.Set("alt", p.Alt)
	rec.Set("depth", p.Depth)
	newTrk := uint8(0)
	if p.NewTrk {
		newTrk = 1
	}
	rec.Set("new_trk", newTrk)
	return codec.Encode(D301Schema, rec)
}

// Track groups a header with the points between it and the next header or
// Transfer Complete.
type Track struct {
	Header TrackHeader
	Points []TrackPoint
}
