package datatype

import "github.com/basincreek/gogarmin/internal/codec"

// Lap is a single D906 fitness lap record.
type Lap struct {
	StartTime      uint32
	TotalTime      uint32 // hundredths of a second
	TotalDist      float32
	MaxSpeed       float32
	CalsConsumed   uint16
	AvgHeartRate   uint8
	MaxHeartRate   uint8
}

// D906Schema is the lap datatype.
var D906Schema = codec.Schema{
	{Name: "start_time", Kind: codec.U32},
	{Name: "total_time", Kind: codec.U32},
	{Name: "total_dist", Kind: codec.F32},
	{Name: "max_speed", Kind: codec.F32},
	{Name: "cals_consumed", Kind: codec.U16},
	{Name: "avg_heart_rate", Kind: codec.U8, Optional: true},
	{Name: "max_heart_rate", Kind: codec.U8, Optional: true},
}

// DecodeD906 decodes a lap record.
func DecodeD906(buf []byte) (Lap, error) {
	rec, err := codec.Decode(D906Schema, buf)
	if err != nil {
		return Lap{}, err
	}
	return Lap{
		StartTime:    rec.Fields["start_time"].(uint32),
		TotalTime:    rec.Fields["total_time"].(uint32),
		TotalDist:    rec.Fields["total_dist"].(float32),
		MaxSpeed:     rec.Fields["max_speed"].(float32),
		CalsConsumed: rec.Fields["cals_consumed"].(uint16),
		AvgHeartRate: rec.Fields["avg_heart_rate"].(uint8),
		MaxHeartRate: rec.Fields["max_heart_rate"].(uint8),
	}, nil
}

// EncodeD906 encodes l as a lap record.
func EncodeD906(l Lap) ([]byte, error) {
	rec := codec.NewRecord()
	rec.Set("start_time", l.StartTime)
	rec.Set("total_time", l.TotalTime)
	rec.Set("total_dist", l.TotalDist)
	rec.Set("max_speed", l.MaxSpeed)
	rec.Set("cals_consumed", l.CalsConsumed)
	rec.Set("avg_heart_rate", l.AvgHeartRate)
	rec.Set("max_heart_rate", l.MaxHeartRate)
	return codec.Encode(D906Schema, rec)
}
