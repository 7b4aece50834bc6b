// Package link implements the Lxxx framing layer (spec §4.3): L000/L001
// DLE/ETX byte-stuffed serial framing with checksum and ACK/NAK, and the
// L002 USB pass-through that routes already-framed packets by packet_id.
package link

// Packet is the link-layer unit passed up to the session (spec §3):
// packet_id plus a byte-string payload. Framing bytes, checksums, and
// stuffing are internal to this package and never appear here.
type Packet struct {
	ID      uint16
	Payload []byte
}

// Reserved packet_id values used by the serial link's flow control (spec
// §4.3). These never appear as Packet.ID values delivered to the session.
const (
	pidACK uint16 = 6
	pidNAK uint16 = 21
)
