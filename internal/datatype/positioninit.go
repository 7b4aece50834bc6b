package datatype

import "github.com/basincreek/gogarmin/internal/codec"

// D700Schema is the position-initialization datatype: a single semicircle
// position the host sends to seed a cold-start GPS fix.
var D700Schema = codec.Schema{
	{Name: "posn", Kind: codec.Record, Sub: codec.Schema{
		{Name: "lat", Kind: codec.I32},
		{Name: "lon", Kind: codec.I32},
	}},
}

// DecodeD700 decodes a position-init record.
func DecodeD700(buf []byte) (Position, error) {
	rec, err := codec.Decode(D700Schema, buf)
	if err != nil {
		return Position{}, err
	}
	posn := rec.Fields["posn"].(codec.Record)
	return Position{Lat: posn.Fields["lat"].(int32), Lon: posn.Fields["lon"].(int32)}, nil
}

// EncodeD700 encodes p as a position-init record.
func EncodeD700(p Position) ([]byte, error) {
	rec := codec.NewRecord()
	posn := codec.NewRecord()
	posn.Set("lat", p.Lat)
	posn.Set("lon", p.Lon)
	rec.Set("posn", posn)
	return codec.Encode(D700Schema, rec)
}
