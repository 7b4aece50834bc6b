package garmin

import (
	"github.com/basincreek/gogarmin/internal/command"
	"github.com/basincreek/gogarmin/internal/datatype"
	"github.com/basincreek/gogarmin/internal/link"
	"github.com/basincreek/gogarmin/internal/protoerr"
)

const (
	datetimeRole     = "datetime"
	positionInitRole = "position_init"
)

// GetDateTime reads the device's current date and time (D600). Unlike the
// bulk categories, this is a singleton exchange: the device replies with one
// DateTime packet directly, with no Records/Transfer-Complete envelope
// (spec §9 Open Questions: decided here in favor of the simpler singleton
// shape, matching the other true-singleton categories named in spec §3).
func (s *Session) GetDateTime() (datatype.DateTime, error) {
	_, release, err := s.acquire(datetimeRole)
	if err != nil {
		return datatype.DateTime{}, err
	}
	defer release()

	op, err := command.OpcodeForRole(datetimeRole)
	if err != nil {
		return datatype.DateTime{}, err
	}
	if err := command.Send(s.link, op); err != nil {
		return datatype.DateTime{}, err
	}
	pkt, err := s.link.Receive()
	if err != nil {
		return datatype.DateTime{}, err
	}
	if pkt.ID != datatype.PidDateTime {
		return datatype.DateTime{}, &protoerr.ProtocolViolation{PacketID: pkt.ID, HavePID: true, Diagnostic: "expected datetime packet"}
	}
	return datatype.DecodeD600(pkt.Payload)
}

// PutDateTime sets the device's date and time.
func (s *Session) PutDateTime(dt datatype.DateTime) error {
	_, release, err := s.acquire(datetimeRole)
	if err != nil {
		return err
	}
	defer release()

	op, err := command.OpcodeForRole(datetimeRole)
	if err != nil {
		return err
	}
	payload, err := datatype.EncodeD600(dt)
	if err != nil {
		return err
	}
	if err := command.Send(s.link, op); err != nil {
		return err
	}
	return s.link.Send(link.Packet{ID: datatype.PidDateTime, Payload: payload})
}

// PutPosition initializes the device's current position (D700), used to
// speed up a cold GPS fix.
func (s *Session) PutPosition(pos datatype.Position) error {
	_, release, err := s.acquire(positionInitRole)
	if err != nil {
		return err
	}
	defer release()

	op, err := command.OpcodeForRole(positionInitRole)
	if err != nil {
		return err
	}
	payload, err := datatype.EncodeD700(pos)
	if err != nil {
		return err
	}
	if err := command.Send(s.link, op); err != nil {
		return err
	}
	return s.link.Send(link.Packet{ID: datatype.PidPositionInit, Payload: payload})
}
