package link

import (
	"github.com/basincreek/gogarmin/internal/phys"
	"github.com/basincreek/gogarmin/internal/protoerr"
)

// USBLink is the L002 link layer: USB framing already delimits packets, so
// this is a pass-through that strips the transport-layer packet type and
// routes by packet_id (spec §4.3).
type USBLink struct {
	transport phys.USBTransport
}

// NewUSBLink wraps transport as a USBLink.
func NewUSBLink(transport phys.USBTransport) *USBLink {
	return &USBLink{transport: transport}
}

// Send writes pkt as an application-layer USB packet.
func (l *USBLink) Send(pkt Packet) error {
	err := l.transport.WritePacket(phys.USBPacket{
		Type:     phys.USBPacketTypeApplication,
		PacketID: pkt.ID,
		Payload:  pkt.Payload,
	})
	if err != nil {
		return &protoerr.LinkFailure{PacketID: pkt.ID, HavePID: true, Diagnostic: "usb write failed", Err: err}
	}
	return nil
}

// Receive blocks for the next application-layer USB packet, discarding
// transport-layer packets (session keep-alives) transparently.
func (l *USBLink) Receive() (Packet, error) {
	for {
		p, err := l.transport.ReadPacket()
		if err != nil {
			return Packet{}, &protoerr.LinkFailure{Diagnostic: "usb read failed", Err: err}
		}
		if p.Type != phys.USBPacketTypeApplication {
			continue
		}
		return Packet{ID: p.PacketID, Payload: p.Payload}, nil
	}
}

// Close closes the underlying USB transport.
func (l *USBLink) Close() error {
	return l.transport.Close()
}
