package garmin

import (
	"fmt"

	"github.com/basincreek/gogarmin/internal/command"
	"github.com/basincreek/gogarmin/internal/datatype"
	"github.com/basincreek/gogarmin/internal/transfer"
)

const waypointRole = "waypoint_transfer"

// waypointPacketID returns the packet_id used for waypoint data records.
// Every D1xx waypoint variant in this library rides on the same application
// packet_id (spec §3); only the payload schema differs by datatype.
func waypointPacketID() uint16 {
	return datatype.PidWaypoint
}

// waypointCodecFor resolves the decode/encode pair for the negotiated
// waypoint datatype name (e.g. "D100", "D103", "D108").
func waypointCodecFor(name string) (func([]byte) (datatype.Waypoint, error), func(datatype.Waypoint) ([]byte, error), error) {
	switch name {
	case "D100":
		return datatype.DecodeD100, datatype.EncodeD100, nil
	case "D103":
		return datatype.DecodeD103, datatype.EncodeD103, nil
	case "D108":
		return datatype.DecodeD108, datatype.EncodeD108, nil
	default:
		return nil, nil, fmt.Errorf("garmin: unsupported waypoint datatype %q", name)
	}
}

// GetWaypoints downloads the device's waypoint list.
func (s *Session) GetWaypoints() ([]datatype.Waypoint, error) {
	_, release, err := s.acquire(waypointRole)
	if err != nil {
		return nil, err
	}
	defer release()

	binding, err := s.ProtocolSet().Resolve(waypointRole)
	if err != nil {
		return nil, err
	}
	if len(binding.Datatypes) == 0 {
		return nil, fmt.Errorf("garmin: waypoint_transfer role has no datatype bound")
	}
	decode, _, err := waypointCodecFor(binding.Datatypes[0])
	if err != nil {
		return nil, err
	}
	op, err := command.OpcodeForRole(waypointRole)
	if err != nil {
		return nil, err
	}
	return transfer.Pull(s.link, waypointRole, op, waypointPacketID(), decode)
}

// PutWaypoints uploads records to the device.
func (s *Session) PutWaypoints(records []datatype.Waypoint) error {
	_, release, err := s.acquire(waypointRole)
	if err != nil {
		return err
	}
	defer release()

	binding, err := s.ProtocolSet().Resolve(waypointRole)
	if err != nil {
		return err
	}
	if len(binding.Datatypes) == 0 {
		return fmt.Errorf("garmin: waypoint_transfer role has no datatype bound")
	}
	_, encode, err := waypointCodecFor(binding.Datatypes[0])
	if err != nil {
		return err
	}
	op, err := command.OpcodeForRole(waypointRole)
	if err != nil {
		return err
	}
	return transfer.Push(s.link, op, waypointPacketID(), records, encode)
}
