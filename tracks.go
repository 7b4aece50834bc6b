package garmin

import (
	"fmt"

	"github.com/basincreek/gogarmin/internal/command"
	"github.com/basincreek/gogarmin/internal/datatype"
	"github.com/basincreek/gogarmin/internal/link"
	"github.com/basincreek/gogarmin/internal/protoerr"
	"github.com/basincreek/gogarmin/internal/transfer"
)

const trackRole = "track_transfer"

// checkTrackDatatypes confirms the negotiated track_transfer binding names
// D310/D301, the only track-header/point variants this library implements.
// Unlike waypoints and routes, which pick between several Dxxx variants via
// internal/datatype.D1xx codecs, every catalog entry and every published
// ProtocolArray grouping in this library's scope binds tracks to exactly
// one pair, so there is nothing to select between here — this only guards
// against a future catalog entry naming a variant this code cannot decode,
// rather than picking one of several at runtime the way waypointCodecFor
// does.
func checkTrackDatatypes(s *Session) error {
	binding, err := s.ProtocolSet().Resolve(trackRole)
	if err != nil {
		return err
	}
	var haveHeader, havePoint bool
	for _, d := range binding.Datatypes {
		switch d {
		case "D310":
			haveHeader = true
		case "D301":
			havePoint = true
		}
	}
	if !haveHeader || !havePoint {
		return fmt.Errorf("garmin: negotiated track_transfer datatypes %v are not supported (only D310/D301)", binding.Datatypes)
	}
	return nil
}

// GetTracks downloads the device's tracks (spec §3, §4.7): a Records
// announcement counting every header/point packet, followed by repeating
// groups of one TrackHeader (D310) and the TrackPoint (D301) packets that
// follow it.
func (s *Session) GetTracks() ([]datatype.Track, error) {
	_, release, err := s.acquire(trackRole)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := checkTrackDatatypes(s); err != nil {
		return nil, err
	}

	op, err := command.OpcodeForRole(trackRole)
	if err != nil {
		return nil, err
	}
	if err := command.Send(s.link, op); err != nil {
		return nil, err
	}
	announce, err := s.link.Receive()
	if err != nil {
		return nil, err
	}
	if announce.ID != datatype.PidRecords {
		return nil, &protoerr.ProtocolViolation{PacketID: announce.ID, HavePID: true, Diagnostic: "expected records announcement"}
	}
	count, err := transfer.DecodeRecordsCount(announce.Payload)
	if err != nil {
		return nil, err
	}

	var tracks []datatype.Track
	var current *datatype.Track
	for i := 0; i < count; i++ {
		pkt, err := s.link.Receive()
		if err != nil {
			return nil, err
		}
		switch pkt.ID {
		case datatype.PidTrackHeader:
			if current != nil {
				tracks = append(tracks, *current)
			}
			hdr, err := datatype.DecodeD310(pkt.Payload)
			if err != nil {
				return nil, err
			}
			current = &datatype.Track{Header: hdr}
		case datatype.PidTrackPoint:
			if current == nil {
				return nil, &protoerr.ProtocolViolation{PacketID: pkt.ID, HavePID: true, Diagnostic: "track point before track header"}
			}
			pt, err := datatype.DecodeD301(pkt.Payload)
			if err != nil {
				return nil, err
			}
			current.Points = append(current.Points, pt)
		default:
			return nil, &protoerr.ProtocolViolation{PacketID: pkt.ID, HavePID: true, Diagnostic: "unexpected packet id within track sequence"}
		}
	}
	if current != nil {
		tracks = append(tracks, *current)
	}

	if err := transfer.ExpectTransferComplete(s.link, trackRole, op); err != nil {
		return nil, err
	}
	return tracks, nil
}

// PutTracks uploads tracks to the device.
func (s *Session) PutTracks(tracks []datatype.Track) error {
	_, release, err := s.acquire(trackRole)
	if err != nil {
		return err
	}
	defer release()

	if err := checkTrackDatatypes(s); err != nil {
		return err
	}

	op, err := command.OpcodeForRole(trackRole)
	if err != nil {
		return err
	}

	total := 0
	for _, t := range tracks {
		total += 1 + len(t.Points)
	}

	if err := command.Send(s.link, op); err != nil {
		return err
	}
	if err := s.link.Send(link.Packet{ID: datatype.PidRecords, Payload: transfer.EncodeRecordsCount(total)}); err != nil {
		return err
	}
	for _, t := range tracks {
		hdrPayload, err := datatype.EncodeD310(t.Header)
		if err != nil {
			return err
		}
		if err := s.link.Send(link.Packet{ID: datatype.PidTrackHeader, Payload: hdrPayload}); err != nil {
			return err
		}
		for _, pt := range t.Points {
			ptPayload, err := datatype.EncodeD301(pt)
			if err != nil {
				return err
			}
			if err := s.link.Send(link.Packet{ID: datatype.PidTrackPoint, Payload: ptPayload}); err != nil {
				return err
			}
		}
	}
	return s.link.Send(link.Packet{ID: datatype.PidTransferComplete, Payload: command.Encode(op)})
}
