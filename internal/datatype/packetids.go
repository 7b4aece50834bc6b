package datatype

// Application-layer packet_id values referenced by the transfer state
// machines (spec §4.7). These are distinct from the command opcodes in
// internal/command and from the transport framing ids in internal/link.
const (
	PidProductRequest  uint16 = 254
	PidProductReply    uint16 = 255
	PidExtendedProduct uint16 = 248
	PidProtocolArray   uint16 = 253

	PidRecords          uint16 = 27
	PidTransferComplete uint16 = 12

	PidWaypoint uint16 = 35

	PidRouteHeader uint16 = 29
	PidRouteLink   uint16 = 98
	PidRouteWpt    uint16 = 35 // route waypoints reuse the D1xx waypoint schema

	PidTrackHeader uint16 = 99
	PidTrackPoint  uint16 = 34

	PidLap uint16 = 149
	PidRun uint16 = 990

	PidAlmanac     uint16 = 49
	PidDateTime    uint16 = 14
	PidPositionInit uint16 = 36
	PidPVT         uint16 = 51
	PidFlightBook  uint16 = 134

	PidImageProperties uint16 = 192
	PidImageData       uint16 = 193

	PidMapProduct uint16 = 253 // carried on a dedicated map-transfer link; distinct namespace from PidProtocolArray
)
