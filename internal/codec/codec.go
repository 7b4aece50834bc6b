package codec

import (
	"bytes"
	"encoding/binary"
	"math"
)

// kindWidth returns the fixed wire width of a primitive kind, or 0 for
// variable-width kinds (CString) and composite kinds (CharArray, Array,
// Record, whose width comes from the Field itself).
func kindWidth(k Kind) int {
	switch k {
	case U8, I8:
		return 1
	case U16, I16:
		return 2
	case U32, I32, F32:
		return 4
	case F64:
		return 8
	default:
		return 0
	}
}

// cursor reads sequentially through a decode buffer, tracking the byte
// offset consumed so far for error reporting.
type cursor struct {
	buf []byte
	off int
}

func (c *cursor) remaining() int {
	return len(c.buf) - c.off
}

// Decode parses buf according to schema, producing a Record. Trailing
// Optional fields are permitted to be absent from a short buffer; any
// required field missing from buf is a ShortPayload error.
func Decode(schema Schema, buf []byte) (Record, error) {
	rec := NewRecord()
	c := &cursor{buf: buf}
	for _, f := range schema {
		if c.remaining() <= 0 && f.Optional {
			rec.Set(f.Name, zeroValue(f))
			continue
		}
		v, err := decodeField(c, f)
		if err != nil {
			return rec, err
		}
		rec.Set(f.Name, v)
	}
	return rec, nil
}

func zeroValue(f Field) Value {
	switch f.Kind {
	case U8:
		return uint8(0)
	case I8:
		return int8(0)
	case U16:
		return uint16(0)
	case I16:
		return int16(0)
	case U32:
		return uint32(0)
	case I32:
		return int32(0)
	case F32:
		return float32(0)
	case F64:
		return float64(0)
	case CharArray, CString:
		return ""
	case Array:
		return make([]Value, f.Len)
	case Record:
		zr := NewRecord()
		for _, sf := range f.Sub {
			zr.Set(sf.Name, zeroValue(sf))
		}
		return zr
	default:
		return nil
	}
}

func decodeField(c *cursor, f Field) (Value, error) {
	switch f.Kind {
	case U8, I8, U16, I16, U32, I32, F32, F64:
		return decodePrimitive(c, f.Name, f.Kind)
	case CharArray:
		if c.remaining() < f.Len {
			return nil, &ShortPayload{Field: f.Name, Need: f.Len, Have: c.remaining(), Offset: c.off}
		}
		raw := c.buf[c.off : c.off+f.Len]
		c.off += f.Len
		if i := bytes.IndexByte(raw, 0); i >= 0 {
			raw = raw[:i]
		}
		return string(raw), nil
	case CString:
		i := bytes.IndexByte(c.buf[c.off:], 0)
		if i < 0 {
			s := string(c.buf[c.off:])
			c.off = len(c.buf)
			return s, nil
		}
		s := string(c.buf[c.off : c.off+i])
		c.off += i + 1
		return s, nil
	case Array:
		out := make([]Value, f.Len)
		for i := 0; i < f.Len; i++ {
			v, err := decodePrimitive(c, f.Name, f.Elem)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case Record:
		sub := NewRecord()
		for _, sf := range f.Sub {
			if c.remaining() <= 0 && sf.Optional {
				sub.Set(sf.Name, zeroValue(sf))
				continue
			}
			v, err := decodeField(c, sf)
			if err != nil {
				return nil, err
			}
			sub.Set(sf.Name, v)
		}
		return sub, nil
	default:
		return nil, &FieldRange{Field: f.Name, Kind: f.Kind}
	}
}

func decodePrimitive(c *cursor, name string, k Kind) (Value, error) {
	w := kindWidth(k)
	if c.remaining() < w {
		return nil, &ShortPayload{Field: name, Need: w, Have: c.remaining(), Offset: c.off}
	}
	b := c.buf[c.off : c.off+w]
	c.off += w
	switch k {
	case U8:
		return b[0], nil
	case I8:
		return int8(b[0]), nil
	case U16:
		return binary.LittleEndian.Uint16(b), nil
	case I16:
		return int16(binary.LittleEndian.Uint16(b)), nil
	case U32:
		return binary.LittleEndian.Uint32(b), nil
	case I32:
		return int32(binary.LittleEndian.Uint32(b)), nil
	case F32:
		return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
	case F64:
		return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
	default:
		return nil, &FieldRange{Field: name, Kind: k}
	}
}

// Encode serialises rec according to schema. Every field is written at full
// width regardless of whether it was Optional on decode: encode always
// produces the canonical, full-length wire form (spec §4.2, §9).
func Encode(schema Schema, rec Record) ([]byte, error) {
	var buf bytes.Buffer
	for _, f := range schema {
		v, ok := rec.Get(f.Name)
		if !ok {
			v = zeroValue(f)
		}
		if err := encodeField(&buf, f, v); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func encodeField(buf *bytes.Buffer, f Field, v Value) error {
	switch f.Kind {
	case U8, I8, U16, I16, U32, I32, F32, F64:
		return encodePrimitive(buf, f.Name, f.Kind, v)
	case CharArray:
		s, _ := v.(string)
		raw := make([]byte, f.Len)
		n := copy(raw, s)
		_ = n
		buf.Write(raw)
		return nil
	case CString:
		s, _ := v.(string)
		buf.WriteString(s)
		buf.WriteByte(0)
		return nil
	case Array:
		elems, ok := v.([]Value)
		if !ok || len(elems) != f.Len {
			elems = make([]Value, f.Len)
		}
		for i := 0; i < f.Len; i++ {
			if err := encodePrimitive(buf, f.Name, f.Elem, elems[i]); err != nil {
				return err
			}
		}
		return nil
	case Record:
		sub, ok := v.(Record)
		if !ok {
			sub = NewRecord()
		}
		for _, sf := range f.Sub {
			sv, present := sub.Get(sf.Name)
			if !present {
				sv = zeroValue(sf)
			}
			if err := encodeField(buf, sf, sv); err != nil {
				return err
			}
		}
		return nil
	default:
		return &FieldRange{Field: f.Name, Kind: f.Kind}
	}
}

func encodePrimitive(buf *bytes.Buffer, name string, k Kind, v Value) error {
	w := kindWidth(k)
	tmp := make([]byte, w)
	switch k {
	case U8:
		u, ok := v.(uint8)
		if !ok {
			return &FieldRange{Field: name, Value: v, Kind: k}
		}
		tmp[0] = u
	case I8:
		i, ok := v.(int8)
		if !ok {
			return &FieldRange{Field: name, Value: v, Kind: k}
		}
		tmp[0] = byte(i)
	case U16:
		u, ok := v.(uint16)
		if !ok {
			return &FieldRange{Field: name, Value: v, Kind: k}
		}
		binary.LittleEndian.PutUint16(tmp, u)
	case I16:
		i, ok := v.(int16)
		if !ok {
			return &FieldRange{Field: name, Value: v, Kind: k}
		}
		binary.LittleEndian.PutUint16(tmp, uint16(i))
	case U32:
		u, ok := v.(uint32)
		if !ok {
			return &FieldRange{Field: name, Value: v, Kind: k}
		}
		binary.LittleEndian.PutUint32(tmp, u)
	case I32:
		i, ok := v.(int32)
		if !ok {
			return &FieldRange{Field: name, Value: v, Kind: k}
		}
		binary.LittleEndian.PutUint32(tmp, uint32(i))
	case F32:
		f, ok := v.(float32)
		if !ok {
			return &FieldRange{Field: name, Value: v, Kind: k}
		}
		binary.LittleEndian.PutUint32(tmp, math.Float32bits(f))
	case F64:
		f, ok := v.(float64)
		if !ok {
			return &FieldRange{Field: name, Value: v, Kind: k}
		}
		binary.LittleEndian.PutUint64(tmp, math.Float64bits(f))
	default:
		return &FieldRange{Field: name, Value: v, Kind: k}
	}
	buf.Write(tmp)
	return nil
}

// Size returns the fixed encoded size of schema, or -1 if schema contains a
// CString field (whose size is not known without data).
func Size(schema Schema) int {
	total := 0
	for _, f := range schema {
		switch f.Kind {
		case CString:
			return -1
		case CharArray:
			total += f.Len
		case Array:
			total += f.Len * kindWidth(f.Elem)
		case Record:
			n := Size(f.Sub)
			if n < 0 {
				return -1
			}
			total += n
		default:
			total += kindWidth(f.Kind)
		}
	}
	return total
}
