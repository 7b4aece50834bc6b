package datatype

import "github.com/basincreek/gogarmin/internal/codec"

// Run is a single D1000 fitness activity run, referencing its first and last
// lap by index.
type Run struct {
	FirstLapIndex uint16
	LastLapIndex  uint16
	SportType     uint8
	ProgramType   uint8
}

// D1000Schema is the run datatype.
var D1000Schema = codec.Schema{
	{Name: "first_lap_index", Kind: codec.U16},
	{Name: "last_lap_index", Kind: codec.U16},
	{Name: "sport_type", Kind: codec.U8},
	{Name: "program_type", Kind: codec.U8},
}

// DecodeD1000 decodes a run record.
func DecodeD1000(buf []byte) (Run, error) {
	rec, err := codec.Decode(D1000Schema, buf)
	if err != nil {
		return Run{}, err
	}
	return Run{
		FirstLapIndex: rec.Fields["first_lap_index"].(uint16),
		LastLapIndex:  rec.Fields["last_lap_index"].(uint16),
		SportType:     rec.Fields["sport_type"].(uint8),
		ProgramType:   rec.Fields["program_type"].(uint8),
	}, nil
}

// EncodeD1000 encodes r as a run record.
func EncodeD1000(r Run) ([]byte, error) {
	rec := codec.NewRecord()
	rec.Set("first_lap_index", r.FirstLapIndex)
	rec.Set("last_lap_index", r.LastLapIndex)
	rec.Set("sport_type", r.SportType)
	rec.Set("program_type", r.ProgramType)
	return codec.Encode(D1000Schema, rec)
}
