package datatype

import "github.com/basincreek/gogarmin/internal/codec"

// DateTime is the D600 device clock record.
type DateTime struct {
	Month  uint8
	Day    uint8
	Year   uint16
	Hour   uint16
	Minute uint8
	Second uint8
}

// D600Schema is the datetime datatype.
var D600Schema = codec.Schema{
	{Name: "month", Kind: codec.U8},
	{Name: "day", Kind: codec.U8},
	{Name: "year", Kind: codec.U16},
	{Name: "hour", Kind: codec.U16},
	{Name: "minute", Kind: codec.U8},
	{Name: "second", Kind: codec.U8},
}

// DecodeD600 decodes a datetime record.
func DecodeD600(buf []byte) (DateTime, error) {
	rec, err := codec.Decode(D600Schema, buf)
	if err != nil {
		return DateTime{}, err
	}
	return DateTime{
		Month:  rec.Fields["month"].(uint8),
		Day:    rec.Fields["day"].(uint8),
		Year:   rec.Fields["year"].(uint16),
		Hour:   rec.Fields["hour"].(uint16),
		Minute: rec.Fields["minute"].(uint8),
		Second: rec.Fields["second"].(uint8),
	}, nil
}

// EncodeD600 encodes d as a datetime record.
func EncodeD600(d DateTime) ([]byte, error) {
	rec := codec.NewRecord()
	rec.Set("month", d.Month)
	rec.Set("day", d.Day)
	rec.Set("year", d.Year)
	rec.Set("hour", d.Hour)
	rec.Set("minute", d.Minute)
	rec.Set("second", d.Second)
	return codec.Encode(D600Schema, rec)
}
