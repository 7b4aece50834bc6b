package garmin

import (
	"github.com/basincreek/gogarmin/internal/command"
	"github.com/basincreek/gogarmin/internal/datatype"
	"github.com/basincreek/gogarmin/internal/link"
	"github.com/basincreek/gogarmin/internal/protoerr"
	"github.com/basincreek/gogarmin/internal/transfer"
)

const routeRole = "route_transfer"

// GetRoutes downloads the device's routes (spec §3, §4.7): the wire
// sequence is a Records announcement counting every header/link/waypoint
// packet, followed by repeating groups of one RouteHeader (D201) and then
// alternating RouteLink (D210) / waypoint (D1xx) packets until the next
// header or the sequence ends.
func (s *Session) GetRoutes() ([]datatype.Route, error) {
	_, release, err := s.acquire(routeRole)
	if err != nil {
		return nil, err
	}
	defer release()

	binding, err := s.ProtocolSet().Resolve(routeRole)
	if err != nil {
		return nil, err
	}
	waypointDatatype := "D100"
	for _, d := range binding.Datatypes {
		if d != "D201" && d != "D210" {
			waypointDatatype = d
		}
	}
	decodeWpt, _, err := waypointCodecFor(waypointDatatype)
	if err != nil {
		return nil, err
	}
	op, err := command.OpcodeForRole(routeRole)
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

	var routes []datatype.Route
	var current *datatype.Route
	for i := 0; i < count; i++ {
		pkt, err := s.link.Receive()
		if err != nil {
			return nil, err
		}
		switch pkt.ID {
		case datatype.PidRouteHeader:
			if current != nil {
				routes = append(routes, *current)
			}
			hdr, err := datatype.DecodeD201(pkt.Payload)
			if err != nil {
				return nil, err
			}
			current = &datatype.Route{Header: hdr}
		case datatype.PidRouteLink:
			if current == nil {
				return nil, &protoerr.ProtocolViolation{PacketID: pkt.ID, HavePID: true, Diagnostic: "route link before route header"}
			}
			rl, err := datatype.DecodeD210(pkt.Payload)
			if err != nil {
				return nil, err
			}
			current.Links = append(current.Links, rl)
		case datatype.PidRouteWpt:
			if current == nil {
				return nil, &protoerr.ProtocolViolation{PacketID: pkt.ID, HavePID: true, Diagnostic: "route waypoint before route header"}
			}
			wpt, err := decodeWpt(pkt.Payload)
			if err != nil {
				return nil, err
			}
			current.Waypoints = append(current.Waypoints, wpt)
		default:
			return nil, &protoerr.ProtocolViolation{PacketID: pkt.ID, HavePID: true, Diagnostic: "unexpected packet id within route sequence"}
		}
	}
	if current != nil {
		routes = append(routes, *current)
	}

	if err := transfer.ExpectTransferComplete(s.link, routeRole, op); err != nil {
		return nil, err
	}
	return routes, nil
}

// PutRoutes uploads routes to the device.
func (s *Session) PutRoutes(routes []datatype.Route) error {
	_, release, err := s.acquire(routeRole)
	if err != nil {
		return err
	}
	defer release()

	binding, err := s.ProtocolSet().Resolve(routeRole)
	if err != nil {
		return err
	}
	waypointDatatype := "D100"
	for _, d := range binding.Datatypes {
		if d != "D201" && d != "D210" {
			waypointDatatype = d
		}
	}
	_, encodeWpt, err := waypointCodecFor(waypointDatatype)
	if err != nil {
		return err
	}
	op, err := command.OpcodeForRole(routeRole)
	if err != nil {
		return err
	}

	total := 0
	for _, r := range routes {
		total += 1 + len(r.Links) + len(r.Waypoints)
	}

	if err := command.Send(s.link, op); err != nil {
		return err
	}
	if err := s.link.Send(link.Packet{ID: datatype.PidRecords, Payload: transfer.EncodeRecordsCount(total)}); err != nil {
		return err
	}
	for _, r := range routes {
		hdrPayload, err := datatype.EncodeD201(r.Header)
		if err != nil {
			return err
		}
		if err := s.link.Send(link.Packet{ID: datatype.PidRouteHeader, Payload: hdrPayload}); err != nil {
			return err
		}
		for _, rl := range r.Links {
			linkPayload, err := datatype.EncodeD210(rl)
			if err != nil {
				return err
			}
			if err := s.link.Send(link.Packet{ID: datatype.PidRouteLink, Payload: linkPayload}); err != nil {
				return err
			}
		}
		for _, wpt := range r.Waypoints {
			wptPayload, err := encodeWpt(wpt)
			if err != nil {
				return err
			}
			if err := s.link.Send(link.Packet{ID: datatype.PidRouteWpt, Payload: wptPayload}); err != nil {
				return err
			}
		}
	}
	return s.link.Send(link.Packet{ID: datatype.PidTransferComplete, Payload: command.Encode(op)})
}
