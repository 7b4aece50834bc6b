package garmin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basincreek/gogarmin/internal/command"
	"github.com/basincreek/gogarmin/internal/config"
	"github.com/basincreek/gogarmin/internal/datatype"
	"github.com/basincreek/gogarmin/internal/link"
)

func openSessionForProduct39(t *testing.T) (*Session, *link.MockLink) {
	t.Helper()
	l := link.NewMockLink(productionReplyPacket(t, 39, 250))
	sess, err := Open(l, openTestCatalog(t), config.SessionOptions{})
	require.NoError(t, err)
	return sess, l
}

func TestGetRoutesGroupsHeaderLinkAndWaypointPackets(t *testing.T) {
	t.Parallel()

	sess, l := openSessionForProduct39(t)

	hdrPayload, err := datatype.EncodeD201(datatype.RouteHeader{RouteNum: 1, Cmnt: "loop"})
	require.NoError(t, err)
	linkPayload, err := datatype.EncodeD210(datatype.RouteLink{Class: 0, Ident: "WPT1"})
	require.NoError(t, err)
	wptPayload, err := datatype.EncodeD103(datatype.Waypoint{Ident: "WPT1"})
	require.NoError(t, err)

	l.QueueReceive(
		link.Packet{ID: datatype.PidRecords, Payload: []byte{3, 0}}, // header + link + waypoint
		link.Packet{ID: datatype.PidRouteHeader, Payload: hdrPayload},
		link.Packet{ID: datatype.PidRouteLink, Payload: linkPayload},
		link.Packet{ID: datatype.PidRouteWpt, Payload: wptPayload},
		link.Packet{ID: datatype.PidTransferComplete, Payload: command.Encode(command.TransferRte)},
	)

	routes, err := sess.GetRoutes()
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, uint16(1), routes[0].Header.RouteNum)
	require.Len(t, routes[0].Links, 1)
	assert.Equal(t, "WPT1", routes[0].Links[0].Ident)
	require.Len(t, routes[0].Waypoints, 1)
	assert.Equal(t, "WPT1", routes[0].Waypoints[0].Ident)
}

func TestPutRoutesSendsHeaderLinkWaypointSequence(t *testing.T) {
	t.Parallel()

	sess, l := openSessionForProduct39(t)

	route := datatype.Route{
		Header:    datatype.RouteHeader{RouteNum: 2},
		Links:     []datatype.RouteLink{{Ident: "A"}},
		Waypoints: []datatype.Waypoint{{Ident: "A"}},
	}

	require.NoError(t, sess.PutRoutes([]datatype.Route{route}))

	sent := l.Sent()
	// opcode, records(1), header(2), link(3), waypoint(4), transfer complete(5)
	require.Len(t, sent, 6)
	assert.Equal(t, datatype.PidRecords, sent[1].ID)
	assert.Equal(t, []byte{3, 0}, sent[1].Payload)
	assert.Equal(t, datatype.PidRouteHeader, sent[2].ID)
	assert.Equal(t, datatype.PidRouteLink, sent[3].ID)
	assert.Equal(t, datatype.PidRouteWpt, sent[4].ID)
	assert.Equal(t, datatype.PidTransferComplete, sent[5].ID)
}
