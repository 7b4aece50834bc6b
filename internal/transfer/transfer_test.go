package transfer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basincreek/gogarmin/internal/command"
	"github.com/basincreek/gogarmin/internal/datatype"
	"github.com/basincreek/gogarmin/internal/link"
)

func waypointPacket(t *testing.T, w datatype.Waypoint) link.Packet {
	t.Helper()
	payload, err := datatype.EncodeD100(w)
	require.NoError(t, err)
	return link.Packet{ID: datatype.PidWaypoint, Payload: payload}
}

func TestPullDownloadsAnnouncedRecordCount(t *testing.T) {
	t.Parallel()

	want := []datatype.Waypoint{
		{Ident: "HOME", Cmnt: "house"},
		{Ident: "WORK", Cmnt: "office"},
	}

	l := link.NewMockLink(
		link.Packet{ID: datatype.PidRecords, Payload: []byte{2, 0}},
		waypointPacket(t, want[0]),
		waypointPacket(t, want[1]),
		link.Packet{ID: datatype.PidTransferComplete, Payload: command.Encode(command.TransferWpt)},
	)

	got, err := Pull(l, "waypoint_transfer", command.TransferWpt, datatype.PidWaypoint, datatype.DecodeD100)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "HOME", got[0].Ident)
	assert.Equal(t, "WORK", got[1].Ident)

	sent := l.Sent()
	require.Len(t, sent, 1)
	op, err := command.Decode(sent[0].Payload)
	require.NoError(t, err)
	assert.Equal(t, command.TransferWpt, op)
}

func TestPullAbortsAfterThreeConsecutiveMalformedRecords(t *testing.T) {
	t.Parallel()

	badRecord := link.Packet{ID: datatype.PidWaypoint, Payload: []byte{1}} // too short for D100

	l := link.NewMockLink(
		link.Packet{ID: datatype.PidRecords, Payload: []byte{5, 0}},
		badRecord, badRecord, badRecord,
	)

	_, err := Pull(l, "waypoint_transfer", command.TransferWpt, datatype.PidWaypoint, datatype.DecodeD100)
	require.Error(t, err)
}

func TestPullRejectsUnexpectedPacketIDWithinRecordsSequence(t *testing.T) {
	t.Parallel()

	l := link.NewMockLink(
		link.Packet{ID: datatype.PidRecords, Payload: []byte{1, 0}},
		link.Packet{ID: datatype.PidTrackPoint, Payload: nil},
	)

	_, err := Pull(l, "waypoint_transfer", command.TransferWpt, datatype.PidWaypoint, datatype.DecodeD100)
	require.Error(t, err)
}

func TestPushUploadsRecordsThenTransferComplete(t *testing.T) {
	t.Parallel()

	records := []datatype.Waypoint{{Ident: "A"}, {Ident: "B"}, {Ident: "C"}}
	l := link.NewMockLink()

	err := Push(l, command.TransferWpt, datatype.PidWaypoint, records, datatype.EncodeD100)
	require.NoError(t, err)

	sent := l.Sent()
	require.Len(t, sent, 5) // opcode + records announcement + 3 data + transfer complete
	assert.Equal(t, uint16(10), sent[0].ID)
	assert.Equal(t, datatype.PidRecords, sent[1].ID)
	assert.Equal(t, []byte{3, 0}, sent[1].Payload)
	assert.Equal(t, datatype.PidWaypoint, sent[2].ID)
	assert.Equal(t, datatype.PidTransferComplete, sent[len(sent)-1].ID)
}

func TestAbortReturnsCancelledAfterTransferComplete(t *testing.T) {
	t.Parallel()

	l := link.NewMockLink(link.Packet{ID: datatype.PidTransferComplete, Payload: command.Encode(command.AbortTransfer)})
	err := Abort(l, "waypoint_transfer")
	require.Error(t, err)

	sent := l.Sent()
	require.Len(t, sent, 1)
	op, decErr := command.Decode(sent[0].Payload)
	require.NoError(t, decErr)
	assert.Equal(t, command.AbortTransfer, op)
}

func TestAbortReturnsCancelledWhenLinkEndsWithoutTransferComplete(t *testing.T) {
	t.Parallel()

	l := link.NewMockLink() // Receive returns io.EOF immediately
	err := Abort(l, "waypoint_transfer")
	require.Error(t, err)
}
