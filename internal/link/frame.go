package link

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

const (
	dle byte = 0x10
	etx byte = 0x03
)

// checksum is the two's-complement of the 8-bit sum of id, length, and
// payload, taken modulo 256 (spec §4.3): the byte that makes the total sum
// zero mod 256.
func checksum(id, length byte, payload []byte) byte {
	sum := id + length
	for _, b := range payload {
		sum += b
	}
	return 0 - sum
}

func stuffByte(buf *bytes.Buffer, b byte) {
	if b == dle {
		buf.WriteByte(dle)
	}
	buf.WriteByte(b)
}

// Frame serialises pkt into its wire bytes: DLE, id, length, payload,
// checksum, DLE, ETX, with any DLE byte inside id/length/payload/checksum
// stuffed as DLE DLE (spec §4.3). pkt.ID and len(pkt.Payload) must each fit
// a byte, per the serial link's single-byte id and length fields.
func Frame(pkt Packet) ([]byte, error) {
	if pkt.ID > 0xFF {
		return nil, fmt.Errorf("link: packet_id %d does not fit the serial link's 8-bit id field", pkt.ID)
	}
	if len(pkt.Payload) > 0xFF {
		return nil, fmt.Errorf("link: payload of %d bytes exceeds the serial link's 8-bit length field", len(pkt.Payload))
	}

	id := byte(pkt.ID)
	length := byte(len(pkt.Payload))
	sum := checksum(id, length, pkt.Payload)

	var buf bytes.Buffer
	buf.WriteByte(dle)
	stuffByte(&buf, id)
	stuffByte(&buf, length)
	for _, b := range pkt.Payload {
		stuffByte(&buf, b)
	}
	stuffByte(&buf, sum)
	buf.WriteByte(dle)
	buf.WriteByte(etx)
	return buf.Bytes(), nil
}

func readRawByte(r io.Reader) (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// nextLogical reads one destuffed byte from an in-progress frame. done is
// true when an unescaped DLE ETX terminator was consumed instead of a data
// byte (state SAW_DLE_IN_FRAME → END, spec §4.3).
func nextLogical(r io.Reader) (b byte, done bool, err error) {
	c, err := readRawByte(r)
	if err != nil {
		return 0, false, err
	}
	if c != dle {
		return c, false, nil
	}
	c2, err := readRawByte(r)
	if err != nil {
		return 0, false, err
	}
	switch c2 {
	case etx:
		return 0, true, nil
	case dle:
		return dle, false, nil
	default:
		return 0, false, fmt.Errorf("link: byte 0x%02x follows DLE mid-frame, expected DLE or ETX", c2)
	}
}

// ErrChecksumMismatch is returned by Unframe when a frame's trailing
// checksum byte does not match the computed checksum.
var ErrChecksumMismatch = errors.New("link: checksum mismatch")

// Unframe scans r for the next frame, starting IDLE: bytes preceding the
// first DLE are discarded (spec §4.3's "unescaped ETX outside a frame is
// discarded" generalizes to any stray byte while IDLE). It then reads the
// destuffed id/length/payload/checksum and verifies the checksum.
func Unframe(r io.Reader) (Packet, error) {
	for {
		c, err := readRawByte(r)
		if err != nil {
			return Packet{}, err
		}
		if c == dle {
			break
		}
	}

	idByte, done, err := nextLogical(r)
	if err != nil {
		return Packet{}, err
	}
	if done {
		return Packet{}, errors.New("link: empty frame")
	}

	lengthByte, done, err := nextLogical(r)
	if err != nil {
		return Packet{}, err
	}
	if done {
		return Packet{}, errors.New("link: frame ended before length byte")
	}

	length := int(lengthByte)
	payload := make([]byte, 0, length)
	for i := 0; i < length; i++ {
		b, done, err := nextLogical(r)
		if err != nil {
			return Packet{}, err
		}
		if done {
			return Packet{}, fmt.Errorf("link: frame ended after %d of %d payload bytes", i, length)
		}
		payload = append(payload, b)
	}

	checksumByte, done, err := nextLogical(r)
	if err != nil {
		return Packet{}, err
	}
	if done {
		return Packet{}, errors.New("link: frame ended before checksum byte")
	}

	_, done, err = nextLogical(r)
	if err != nil {
		return Packet{}, err
	}
	if !done {
		return Packet{}, errors.New("link: frame did not terminate with DLE ETX after checksum")
	}

	if want := checksum(idByte, lengthByte, payload); want != checksumByte {
		return Packet{}, ErrChecksumMismatch
	}

	return Packet{ID: uint16(idByte), Payload: payload}, nil
}
