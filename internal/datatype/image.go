package datatype

import "github.com/basincreek/gogarmin/internal/codec"

// ImageProperties is the header the device sends before streaming an image's
// row data (spec §4.7).
type ImageProperties struct {
	Index      uint16
	Width      uint16
	Height     uint16
	Bpp        uint8
	Writable   bool
	PaletteLen uint16
}

// ImagePropertiesSchema decodes the image properties header.
var ImagePropertiesSchema = codec.Schema{
	{Name: "index", Kind: codec.U16},
	{Name: "width", Kind: codec.U16},
	{Name: "height", Kind: codec.U16},
	{Name: "bpp", Kind: codec.U8},
	{Name: "writable", Kind: codec.U8},
	{Name: "palette_len", Kind: codec.U16},
}

// DecodeImageProperties decodes an image properties header.
func DecodeImageProperties(buf []byte) (ImageProperties, error) {
	rec, err := codec.Decode(ImagePropertiesSchema, buf)
	if err != nil {
		return ImageProperties{}, err
	}
	return ImageProperties{
		Index:      rec.Fields["index"].(uint16),
		Width:      rec.Fields["width"].(uint16),
		Height:     rec.Fields["height"].(uint16),
		Bpp:        rec.Fields["bpp"].(uint8),
		Writable:   rec.Fields["writable"].(uint8) != 0,
		PaletteLen: rec.Fields["palette_len"].(uint16),
	}, nil
}

// EncodeImageProperties encodes p as an image properties header.
func EncodeImageProperties(p ImageProperties) ([]byte, error) {
	rec := codec.NewRecord()
	rec.Set("index", p.Index)
	rec.Set("width", p.Width)
	rec.Set("height", p.Height)
	rec.Set("bpp", p.Bpp)
	writable := uint8(0)
	if p.Writable {
		writable = 1
	}
	rec.Set("writable", writable)
	rec.Set("palette_len", p.PaletteLen)
	return codec.Encode(ImagePropertiesSchema, rec)
}

// ImageRow is one row-data packet; reassembly orders rows by RowNum (spec
// §4.7).
type ImageRow struct {
	RowNum uint16
	Pixels []byte
}

// DecodeImageRow decodes one image row packet: a 16-bit row number followed
// by raw pixel bytes. Pixel width is not schema-fixed (it depends on Bpp from
// the preceding ImageProperties), so this is decoded by hand rather than
// through codec.Decode.
func DecodeImageRow(buf []byte) (ImageRow, error) {
	if len(buf) < 2 {
		return ImageRow{}, &codec.ShortPayload{Field: "row_num", Need: 2, Have: len(buf)}
	}
	rowNum := uint16(buf[0]) | uint16(buf[1])<<8
	pixels := make([]byte, len(buf)-2)
	copy(pixels, buf[2:])
	return ImageRow{RowNum: rowNum, Pixels: pixels}, nil
}

// EncodeImageRow encodes r as an image row packet.
func EncodeImageRow(r ImageRow) []byte {
	buf := make([]byte, 2+len(r.Pixels))
	buf[0] = byte(r.RowNum)
	buf[1] = byte(r.RowNum >> 8)
	copy(buf[2:], r.Pixels)
	return buf
}

// Image is the reassembled result of a get_image transfer: the header plus
// rows ordered by RowNum. PullImage does not receive or fill Palette; the
// header's PaletteLen is reported as sent, and no palette is applied.
type Image struct {
	Properties ImageProperties
	Palette    []byte
	Rows       []ImageRow
}
