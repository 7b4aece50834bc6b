package datatype

import "github.com/basincreek/gogarmin/internal/codec"

// Waypoint is the in-memory form shared by every D1xx variant this package
// supports. Fields a given variant's schema omits decode to their zero value
// (spec §4.2 trailing-optional rule) and are simply not written back on
// encode for that variant.
type Waypoint struct {
	Ident string
	Posn  Position
	Cmnt  string

	// Symbol and display fields carried by D103 and later.
	Smbl uint16
	Dspl uint8

	// Altitude/depth/distance fields carried by D108 and later.
	Alt  float32
	Dpth float32
	Dist float32

	// State/country codes and class/attribute byte carried by D108.
	State string
	Cc    string
	Class uint8
	Attr  uint8
}

// D100Schema is the original waypoint datatype: a 6-byte fixed identifier,
// position, an unused legacy distance field, and a 40-byte comment.
var D100Schema = codec.Schema{
	{Name: "ident", Kind: codec.CharArray, Len: 6},
	{Name: "posn", Kind: codec.Record, Sub: codec.Schema{
		{Name: "lat", Kind: codec.I32},
		{Name: "lon", Kind: codec.I32},
	}},
	{Name: "unused", Kind: codec.U32},
	{Name: "cmnt", Kind: codec.CharArray, Len: 40},
}

// D103Schema adds a symbol and a display-attribute byte after the D100
// fields.
var D103Schema = codec.Schema{
	{Name: "ident", Kind: codec.CharArray, Len: 6},
	{Name: "posn", Kind: codec.Record, Sub: codec.Schema{
		{Name: "lat", Kind: codec.I32},
		{Name: "lon", Kind: codec.I32},
	}},
	{Name: "unused", Kind: codec.U32},
	{Name: "cmnt", Kind: codec.CharArray, Len: 40},
	{Name: "smbl", Kind: codec.U8},
	{Name: "dspl", Kind: codec.U8},
}

// D108Schema is the richer variant carrying class/attribute, altitude,
// depth, distance, and state/country strings; those five fields are marked
// optional, and the NUL-terminated ident and comment strings follow them.
var D108Schema = codec.Schema{
	{Name: "class", Kind: codec.U8},
	{Name: "attr", Kind: codec.U8},
	{Name: "smbl", Kind: codec.U16},
	{Name: "posn", Kind: codec.Record, Sub: codec.Schema{
		{Name: "lat", Kind: codec.I32},
		{Name: "lon", Kind: codec.I32},
	}},
	{Name: "alt", Kind: codec.F32, Optional: true},
	{Name: "dpth", Kind: codec.F32, Optional: true},
	{Name: "dist", Kind: codec.F32, Optional: true},
	{Name: "state", Kind: codec.CharArray, Len: 2, Optional: true},
	{Name: "cc", Kind: codec.CharArray, Len: 2, Optional: true},
	{Name: "ident", Kind: codec.CString},
	{Name: "cmnt", Kind: codec.CString},
}

// DecodeD100 decodes a D100 waypoint.
func DecodeD100(buf []byte) (Waypoint, error) {
	rec, err := codec.Decode(D100Schema, buf)
	if err != nil {
		return Waypoint{}, err
	}
	return waypointFromRecord(rec), nil
}

// EncodeD100 encodes w as a D100 waypoint.
func EncodeD100(w Waypoint) ([]byte, error) {
	return codec.Encode(D100Schema, waypointToRecord(w))
}

// DecodeD103 decodes a D103 waypoint.
func DecodeD103(buf []byte) (Waypoint, error) {
	rec, err := codec.Decode(D103Schema, buf)
	if err != nil {
		return Waypoint{}, err
	}
	w := waypointFromRecord(rec)
	w.Smbl = uint16(rec.Fields["smbl"].(uint8))
	w.Dspl = rec.Fields["dspl"].(uint8)
	return w, nil
}

// EncodeD103 encodes w as a D103 waypoint.
func EncodeD103(w Waypoint) ([]byte, error) {
	rec := waypointToRecord(w)
	rec.Set("smbl", uint8(w.Smbl))
	rec.Set("dspl", w.Dspl)
	return codec.Encode(D103Schema, rec)
}

// DecodeD108 decodes a D108 waypoint.
func DecodeD108(buf []byte) (Waypoint, error) {
	rec, err := codec.Decode(D108Schema, buf)
	if err != nil {
		return Waypoint{}, err
	}
	posn := rec.Fields["posn"].(codec.Record)
	return Waypoint{
		Ident: rec.Fields["ident"].(string),
		Cmnt:  rec.Fields["cmnt"].(string),
		Posn:  Position{Lat: posn.Fields["lat"].(int32), Lon: posn.Fields["lon"].(int32)},
		Smbl:  rec.Fields["smbl"].(uint16),
		Class: rec.Fields["class"].(uint8),
		Attr:  rec.Fields["attr"].(uint8),
		Alt:   rec.Fields["alt"].(float32),
		Dpth:  rec.Fields["dpth"].(float32),
		Dist:  rec.Fields["dist"].(float32),
		State: rec.Fields["state"].(string),
		Cc:    rec.Fields["cc"].(string),
	}, nil
}

// EncodeD108 encodes w as a D108 waypoint.
func EncodeD108(w Waypoint) ([]byte, error) {
	rec := codec.NewRecord()
	rec.Set("class", w.Class)
	rec.Set("attr", w.Attr)
	rec.Set("smbl", w.Smbl)
	posn := codec.NewRecord()
	posn.Set("lat", w.Posn.Lat)
	posn.Set("lon", w.Posn.Lon)
	rec.Set("posn", posn)
	rec.Set("alt", w.Alt)
	rec.Set("dpth", w.Dpth)
	rec.Set("dist", w.Dist)
	rec.Set("state", w.State)
	rec.Set("cc", w.Cc)
	rec.Set("ident", w.Ident)
	rec.Set("cmnt", w.Cmnt)
	return codec.Encode(D108Schema, rec)
}

func waypointFromRecord(rec codec.Record) Waypoint {
	posn := rec.Fields["posn"].(codec.Record)
	return Waypoint{
		Ident: rec.Fields["ident"].(string),
		Cmnt:  rec.Fields["cmnt"].(string),
		Posn:  Position{Lat: posn.Fields["lat"].(int32), Lon: posn.Fields["lon"].(int32)},
	}
}

func waypointToRecord(w Waypoint) codec.Record {
	rec := codec.NewRecord()
	rec.Set("ident", w.Ident)
	posn := codec.NewRecord()
	posn.Set("lat", w.Posn.Lat)
	posn.Set("lon", w.Posn.Lon)
	rec.Set("posn", posn)
	rec.Set("unused", uint32(0))
	rec.Set("cmnt", w.Cmnt)
	return rec
}
