package datatype

import "github.com/basincreek/gogarmin/internal/codec"

// MapHeader announces the total size of a map transfer, read in fixed-size
// chunks (spec §4.7).
type MapHeader struct {
	TotalSize uint32
	ChunkSize uint32
}

// MapHeaderSchema decodes the map transfer header.
var MapHeaderSchema = codec.Schema{
	{Name: "total_size", Kind: codec.U32},
	{Name: "chunk_size", Kind: codec.U32},
}

// DecodeMapHeader decodes a map transfer header.
func DecodeMapHeader(buf []byte) (MapHeader, error) {
	rec, err := codec.Decode(MapHeaderSchema, buf)
	if err != nil {
		return MapHeader{}, err
	}
	return MapHeader{TotalSize: rec.Fields["total_size"].(uint32), ChunkSize: rec.Fields["chunk_size"].(uint32)}, nil
}

// EncodeMapHeader encodes h as a map transfer header.
func EncodeMapHeader(h MapHeader) ([]byte, error) {
	rec := codec.NewRecord()
	rec.Set("total_size", h.TotalSize)
	rec.Set("chunk_size", h.ChunkSize)
	return codec.Encode(MapHeaderSchema, rec)
}

// MapChunk is one indexed chunk of the map blob.
type MapChunk struct {
	Index uint32
	Data  []byte
}

// DecodeMapChunk decodes one map chunk packet: a 32-bit chunk index followed
// by raw chunk bytes whose length is not schema-fixed (it varies with the
// final, possibly short, chunk).
func DecodeMapChunk(buf []byte) (MapChunk, error) {
	if len(buf) < 4 {
		return MapChunk{}, &codec.ShortPayload{Field: "index", Need: 4, Have: len(buf)}
	}
	index := uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
	data := make([]byte, len(buf)-4)
	copy(data, buf[4:])
	return MapChunk{Index: index, Data: data}, nil
}

// EncodeMapChunk encodes c as a map chunk packet.
func EncodeMapChunk(c MapChunk) []byte {
	buf := make([]byte, 4+len(c.Data))
	buf[0] = byte(c.Index)
	buf[1] = byte(c.Index >> 8)
	buf[2] = byte(c.Index >> 16)
	buf[3] = byte(c.Index >> 24)
	copy(buf[4:], c.Data)
	return buf
}
