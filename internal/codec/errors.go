package codec

import "fmt"

// ShortPayload is returned when a buffer ends before a required field can be
// read (spec §7, §9).
type ShortPayload struct {
	Field    string
	Need     int
	Have     int
	Offset   int
}

func (e *ShortPayload) Error() string {
	return fmt.Sprintf("codec: short payload at field %q (offset %d): need %d bytes, have %d", e.Field, e.Offset, e.Need, e.Have)
}

// FieldRange is returned when a value to be encoded is not the Go type its
// field's Kind requires, or when a field names a Kind the codec does not
// handle (spec §7). Value magnitudes are not range-checked.
type FieldRange struct {
	Field string
	Value any
	Kind  Kind
}

func (e *FieldRange) Error() string {
	return fmt.Sprintf("codec: value %v out of range for field %q (kind %d)", e.Value, e.Field, e.Kind)
}
