package replay

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basincreek/gogarmin/internal/link"
)

func TestRecordAndReplayRoundTripsReceivedPackets(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rec, err := NewRecorder(&buf)
	require.NoError(t, err)

	require.NoError(t, rec.Record(DirectionSent, link.Packet{ID: 10, Payload: []byte{7, 0}}))
	require.NoError(t, rec.Record(DirectionReceived, link.Packet{ID: 27, Payload: []byte{1, 0}}))
	require.NoError(t, rec.Record(DirectionReceived, link.Packet{ID: 35, Payload: []byte{0x41, 0x42}}))
	require.NoError(t, rec.Close())

	player, err := NewPlayer(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	first, err := player.Receive()
	require.NoError(t, err)
	assert.Equal(t, uint16(27), first.ID)

	second, err := player.Receive()
	require.NoError(t, err)
	assert.Equal(t, uint16(35), second.ID)
	assert.Equal(t, []byte{0x41, 0x42}, second.Payload)

	_, err = player.Receive()
	assert.Equal(t, io.EOF, err)
}

func TestPlayerRecordsSentPacketsForInspection(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rec, err := NewRecorder(&buf)
	require.NoError(t, err)
	require.NoError(t, rec.Close())

	player, err := NewPlayer(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	require.NoError(t, player.Send(link.Packet{ID: 10, Payload: []byte{1, 0}}))
	require.Len(t, player.Sent(), 1)
}
