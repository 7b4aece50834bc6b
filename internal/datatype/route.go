package datatype

import "github.com/basincreek/gogarmin/internal/codec"

// RouteHeader announces a route's number and name; it precedes the route's
// link/waypoint sequence (spec §3).
type RouteHeader struct {
	RouteNum uint16
	Cmnt     string
}

// D201Schema is the route header datatype.
var D201Schema = codec.Schema{
	{Name: "route_num", Kind: codec.U16},
	{Name: "cmnt", Kind: codec.CharArray, Len: 20},
}

// DecodeD201 decodes a route header.
func DecodeD201(buf []byte) (RouteHeader, error) {
	rec, err := codec.Decode(D201Schema, buf)
	if err != nil {
		return RouteHeader{}, err
	}
	return RouteHeader{RouteNum: rec.Fields["route_num"].(uint16), Cmnt: rec.Fields["cmnt"].(string)}, nil
}

// EncodeD201 encodes h as a route header.
func EncodeD201(h RouteHeader) ([]byte, error) {
	rec := codec.NewRecord()
	rec.Set("route_num", h.RouteNum)
	rec.Set("cmnt", h.Cmnt)
	return codec.Encode(D201Schema, rec)
}

// RouteLink carries the subclass and identifier of one leg connecting two
// route waypoints.
type RouteLink struct {
	Class   uint16
	Subclass string
	Ident   string
}

// D210Schema is the route link datatype: a 16-bit class, a 18-byte subclass
// blob, and a NUL-terminated identifier.
var D210Schema = codec.Schema{
	{Name: "class", Kind: codec.U16},
	{Name: "subclass", Kind: codec.CharArray, Len: 18},
	{Name: "ident", Kind: codec.CString},
}

// DecodeD210 decodes a route link.
func DecodeD210(buf []byte) (RouteLink, error) {
	rec, err := codec.Decode(D210Schema, buf)
	if err != nil {
		return RouteLink{}, err
	}
	return RouteLink{
		Class:    rec.Fields["class"].(uint16),
		Subclass: rec.Fields["subclass"].(string),
		Ident:    rec.Fields["ident"].(string),
	}, nil
}

// EncodeD210 encodes l as a route link.
func EncodeD210(l RouteLink) ([]byte, error) {
	rec := codec.NewRecord()
	rec.Set("class", l.Class)
	rec.Set("subclass", l.Subclass)
	rec.Set("ident", l.Ident)
	return codec.Encode(D210Schema, rec)
}

// Route is the assembled in-memory form a pull transfer groups the wire
// sequence into: a header followed by alternating links and waypoints (spec
// §3, §8 ProtocolArray/route-download scenario).
type Route struct {
	Header    RouteHeader
	Links     []RouteLink
	Waypoints []Waypoint
}
