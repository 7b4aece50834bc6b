package datatype

import "github.com/basincreek/gogarmin/internal/codec"

// FlightBookRecord is a single D650 logged flight summary.
type FlightBookRecord struct {
	TakeoffTime  uint32
	LandingTime  uint32
	TakeoffPosn  Position
	LandingPosn  Position
	NightTime    uint32
	NumLandings  uint32
	MaxAlt       float32
	Distance     float32
	CrossCountry bool
	Ident        string
}

// D650Schema is the flight book datatype.
var D650Schema = codec.Schema{
	{Name: "takeoff_time", Kind: codec.U32},
	{Name: "landing_time", Kind: codec.U32},
	{Name: "takeoff_posn", Kind: codec.Record, Sub: codec.Schema{
		{Name: "lat", Kind: codec.I32},
		{Name: "lon", Kind: codec.I32},
	}},
	{Name: "landing_posn", Kind: codec.Record, Sub: codec.Schema{
		{Name: "lat", Kind: codec.I32},
		{Name: "lon", Kind: codec.I32},
	}},
	{Name: "night_time", Kind: codec.U32},
	{Name: "num_landings", Kind: codec.U32},
	{Name: "max_alt", Kind: codec.F32},
	{Name: "distance", Kind: codec.F32},
	{Name: "cross_country", Kind: codec.U8},
	{Name: "ident", Kind: codec.CString},
}

// DecodeD650 decodes a flight book record.
func DecodeD650(buf []byte) (FlightBookRecord, error) {
	rec, err := codec.Decode(D650Schema, buf)
	if err != nil {
		return FlightBookRecord{}, err
	}
	takeoff := rec.Fields["takeoff_posn"].(codec.Record)
	landing := rec.Fields["landing_posn"].(codec.Record)
	return FlightBookRecord{
		TakeoffTime:  rec.Fields["takeoff_time"].(uint32),
		LandingTime:  rec.Fields["landing_time"].(uint32),
		TakeoffPosn:  Position{Lat: takeoff.Fields["lat"].(int32), Lon: takeoff.Fields["lon"].(int32)},
		LandingPosn:  Position{Lat: landing.Fields["lat"].(int32), Lon: landing.Fields["lon"].(int32)},
		NightTime:    rec.Fields["night_time"].(uint32),
		NumLandings:  rec.Fields["num_landings"].(uint32),
		MaxAlt:       rec.Fields["max_alt"].(float32),
		Distance:     rec.Fields["distance"].(float32),
		CrossCountry: rec.Fields["cross_country"].(uint8) != 0,
		Ident:        rec.Fields["ident"].(string),
	}, nil
}

// EncodeD650 encodes f as a flight book record.
func EncodeD650(f FlightBookRecord) ([]byte, error) {
	rec := codec.NewRecord()
	rec.Set("takeoff_time", f.TakeoffTime)
	rec.Set("landing_time", f.LandingTime)
	takeoff := codec.NewRecord()
	takeoff.Set("lat", f.TakeoffPosn.Lat)
	takeoff.Set("lon", f.TakeoffPosn.Lon)
	rec.Set("takeoff_posn", takeoff)
	landing := codec.NewRecord()
	landing.Set("lat", f.LandingPosn.Lat)
	landing.Set("lon", f.LandingPosn.Lon)
	rec.Set("landing_posn", landing)
	rec.Set("night_time", f.NightTime)
	rec.Set("num_landings", f.NumLandings)
	rec.Set("max_alt", f.MaxAlt)
	rec.Set("distance", f.Distance)
	crossCountry := uint8(0)
	if f.CrossCountry {
		crossCountry = 1
	}
	rec.Set("cross_country", crossCountry)
	rec.Set("ident", f.Ident)
	return codec.Encode(D650Schema, rec)
}
