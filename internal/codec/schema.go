// Package codec implements the declarative binary record codec for Garmin
// Dxxx datatypes (spec §4.2): fixed and variable-width fields, little-endian
// integers, fixed-width and NUL-terminated strings, arrays, and trailing
// optional fields.
package codec

// Kind identifies the wire representation of one schema field.
type Kind int

const (
	U8 Kind = iota
	I8
	U16
	I16
	U32
	I32
	F32
	F64
	// CharArray is a fixed-length string of Len bytes, NUL padded on
	// encode and truncated at the first NUL (or Len, whichever is first) on
	// decode.
	CharArray
	// CString is a NUL-terminated string with no fixed width: decode reads
	// to the first 0x00 byte (or end of buffer); encode appends one
	// trailing 0x00.
	CString
	// Array is a fixed-count sequence of Elem-kind primitives; Len is the
	// element count.
	Array
	// Record is a nested sub-record described by Sub.
	Record
)

// Field describes one named entry in a Dxxx schema.
type Field struct {
	Name string
	Kind Kind

	// Len is the byte width for CharArray, or the element count for Array.
	Len int

	// Elem is the element kind for Array fields.
	Elem Kind

	// Sub is the nested schema for Record fields.
	Sub Schema

	// Optional marks a trailing field that may be absent from a shorter
	// payload; absent fields decode to the Kind's zero value (spec §4.2,
	// §9: "shorter payload ⇒ defaults").
	Optional bool
}

// Schema is an ordered list of fields. Field order is the wire order.
type Schema []Field

// Value is a single decoded field value: one of uint8/int8/uint16/int16/
// uint32/int32/float32/float64/string/[]Value (Array)/Record (nested).
type Value = any

// Record is a decoded datatype instance: field name to decoded Value, in the
// order given in Rec.Order (map iteration order is not wire order).
type Record struct {
	Order  []string
	Fields map[string]Value
}

// NewRecord creates an empty Record.
func NewRecord() Record {
	return Record{Fields: make(map[string]Value)}
}

// Set stores a field value, appending to Order if the name is new.
func (r *Record) Set(name string, v Value) {
	if _, ok := r.Fields[name]; !ok {
		r.Order = append(r.Order, name)
	}
	r.Fields[name] = v
}

// Get returns a field's value and whether it was present.
func (r Record) Get(name string) (Value, bool) {
	v, ok := r.Fields[name]
	return v, ok
}
