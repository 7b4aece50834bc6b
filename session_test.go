package garmin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basincreek/gogarmin/internal/catalog"
	"github.com/basincreek/gogarmin/internal/command"
	"github.com/basincreek/gogarmin/internal/config"
	"github.com/basincreek/gogarmin/internal/datatype"
	"github.com/basincreek/gogarmin/internal/link"
	"github.com/basincreek/gogarmin/internal/negotiate"
	"github.com/basincreek/gogarmin/internal/phys"
	"github.com/basincreek/gogarmin/internal/protoerr"
)

func openTestCatalog(t *testing.T) *catalog.DB {
	t.Helper()
	db, err := catalog.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func productionReplyPacket(t *testing.T, productID, softwareVersion uint16) link.Packet {
	t.Helper()
	payload := negotiate.EncodeProductInfo(negotiate.ProductInfo{ProductID: productID, SoftwareVersion: softwareVersion})
	return link.Packet{ID: datatype.PidProductReply, Payload: payload}
}

func TestOpenNegotiatesAndReportsProductInfo(t *testing.T) {
	t.Parallel()

	l := link.NewMockLink(productionReplyPacket(t, 13, 100))
	sess, err := Open(l, openTestCatalog(t), config.SessionOptions{})
	require.NoError(t, err)

	assert.Equal(t, uint16(13), sess.ProductInfo().ProductID)
	assert.Equal(t, uint16(13), sess.GetUnitID())
	assert.Equal(t, "A010", sess.ProtocolSet().CommandProtocol)
}

func TestSessionRejectsReentrantTransfer(t *testing.T) {
	t.Parallel()

	l := link.NewMockLink(productionReplyPacket(t, 13, 100))
	sess, err := Open(l, openTestCatalog(t), config.SessionOptions{})
	require.NoError(t, err)

	id, release, err := sess.acquire("waypoint_transfer")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	_, _, err = sess.acquire("route_transfer")
	require.Error(t, err)

	release()

	_, release2, err := sess.acquire("route_transfer")
	require.NoError(t, err)
	release2()
}

func TestGetWaypointsRoundTripsThroughNegotiatedCatalogEntry(t *testing.T) {
	t.Parallel()

	want := datatype.Waypoint{Ident: "HOME", Cmnt: "base"}
	payload, err := datatype.EncodeD100(want)
	require.NoError(t, err)

	l := link.NewMockLink(productionReplyPacket(t, 13, 100))
	sess, err := Open(l, openTestCatalog(t), config.SessionOptions{})
	require.NoError(t, err)

	l.QueueReceive(
		link.Packet{ID: datatype.PidRecords, Payload: []byte{1, 0}},
		link.Packet{ID: datatype.PidWaypoint, Payload: payload},
		link.Packet{ID: datatype.PidTransferComplete, Payload: []byte{7, 0}}, // TransferWpt opcode
	)

	got, err := sess.GetWaypoints()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "HOME", got[0].Ident)
}

func TestOpenAppliesNormalizedRetryPolicyToSerialLink(t *testing.T) {
	t.Parallel()

	port := phys.NewTestableSerialPort()
	transport := phys.NewSerialTransportFromPort(port, nil, "", phys.DefaultSerialPortMode())
	sl := link.NewSerialLink(transport)

	// The negotiated catalog has nothing to answer with, so negotiation
	// itself fails fast (empty read buffer is an immediate EOF); Open
	// applies the retry policy to sl before attempting it regardless.
	_, err := Open(sl, openTestCatalog(t), config.SessionOptions{AckTimeout: 50 * time.Millisecond, MaxRetries: 2})
	require.Error(t, err)

	ackTimeout, maxRetries := sl.RetryPolicy()
	assert.Equal(t, 50*time.Millisecond, ackTimeout)
	assert.Equal(t, 2, maxRetries)
}

func TestSessionAbortSendsAbortAndDrainsToTransferComplete(t *testing.T) {
	t.Parallel()

	l := link.NewMockLink(productionReplyPacket(t, 13, 100))
	sess, err := Open(l, openTestCatalog(t), config.SessionOptions{})
	require.NoError(t, err)

	l.QueueReceive(link.Packet{ID: datatype.PidTransferComplete, Payload: []byte{0, 0}})

	err = sess.Abort("waypoint_transfer")
	require.Error(t, err)

	var cancelled *protoerr.Cancelled
	require.ErrorAs(t, err, &cancelled)
	assert.Equal(t, "waypoint_transfer", cancelled.Category)

	sent := l.Sent()
	require.NotEmpty(t, sent)
	op, err := command.Decode(sent[len(sent)-1].Payload)
	require.NoError(t, err)
	assert.Equal(t, command.AbortTransfer, op)
}
