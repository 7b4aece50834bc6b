// Package replay captures and replays Link-layer traffic to pcap files, so
// the testable properties named in spec §8 can be exercised against a
// recorded conversation instead of real hardware.
package replay

import (
	"fmt"
	"io"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"github.com/basincreek/gogarmin/internal/link"
)

// linkType is one of the 16 values pcap reserves for private use (DLT_USER0);
// frames carried under it are opaque to general pcap tooling but round-trip
// cleanly through gopacket/pcapgo, which needs no libpcap/cgo dependency.
const linkType = layers.LinkType(147)

// Direction marks which side of the conversation a recorded frame came from.
type Direction uint8

const (
	DirectionSent Direction = iota
	DirectionReceived
)

// Recorder writes every Packet the session sends or receives to a pcap
// stream, one gopacket CaptureInfo record per frame.
type Recorder struct {
	w      *pcapgo.Writer
	closer io.Closer
}

// NewRecorder wraps w with a pcap file header. If w also implements
// io.Closer, Close on the Recorder closes it too.
func NewRecorder(w io.Writer) (*Recorder, error) {
	pw := pcapgo.NewWriter(w)
	if err := pw.WriteFileHeader(65536, linkType); err != nil {
		return nil, fmt.Errorf("replay: write pcap header: %w", err)
	}
	closer, _ := w.(io.Closer)
	return &Recorder{w: pw, closer: closer}, nil
}

// Record appends one frame: a 1-byte direction tag, the 2-byte little-endian
// packet id, and the raw payload.
func (r *Recorder) Record(dir Direction, pkt link.Packet) error {
	frame := make([]byte, 3+len(pkt.Payload))
	frame[0] = byte(dir)
	frame[1] = byte(pkt.ID)
	frame[2] = byte(pkt.ID >> 8)
	copy(frame[3:], pkt.Payload)

	return r.w.WritePacket(gopacket.CaptureInfo{
		Timestamp:     time.Now(),
		CaptureLength: len(frame),
		Length:        len(frame),
	}, frame)
}

// Close closes the underlying writer if it is an io.Closer.
func (r *Recorder) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

// Player replays a captured pcap stream as a link.Link: DirectionReceived
// frames become the queue Receive() drains, in recording order; Send() is
// recorded for later inspection via Sent() rather than checked against the
// capture, since the point of replay is to drive a session through a known
// device conversation, not to assert the caller repeats the original bytes
// exactly.
type Player struct {
	toRecv  []link.Packet
	recvIdx int
	sent    []link.Packet
}

// NewPlayer reads every frame from r and separates it by direction.
func NewPlayer(r io.Reader) (*Player, error) {
	pr, err := pcapgo.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("replay: open pcap stream: %w", err)
	}

	p := &Player{}
	for {
		data, _, err := pr.ReadPacketData()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("replay: read packet: %w", err)
		}
		if len(data) < 3 {
			continue
		}
		dir := Direction(data[0])
		id := uint16(data[1]) | uint16(data[2])<<8
		payload := make([]byte, len(data)-3)
		copy(payload, data[3:])

		if dir == DirectionReceived {
			p.toRecv = append(p.toRecv, link.Packet{ID: id, Payload: payload})
		}
	}
	return p, nil
}

// Send records pkt as sent by the caller.
func (p *Player) Send(pkt link.Packet) error {
	p.sent = append(p.sent, pkt)
	return nil
}

// Receive returns the next recorded device-to-host packet, or io.EOF once
// the recording is exhausted.
func (p *Player) Receive() (link.Packet, error) {
	if p.recvIdx >= len(p.toRecv) {
		return link.Packet{}, io.EOF
	}
	pkt := p.toRecv[p.recvIdx]
	p.recvIdx++
	return pkt, nil
}

// Close is a no-op; the underlying reader's lifetime is owned by the caller.
func (p *Player) Close() error { return nil }

// Sent returns every packet recorded via Send, in call order.
func (p *Player) Sent() []link.Packet {
	out := make([]link.Packet, len(p.sent))
	copy(out, p.sent)
	return out
}

var _ link.Link = (*Player)(nil)
