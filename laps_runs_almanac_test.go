package garmin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basincreek/gogarmin/internal/command"
	"github.com/basincreek/gogarmin/internal/datatype"
	"github.com/basincreek/gogarmin/internal/link"
)

func TestGetLapsDecodesD906Records(t *testing.T) {
	t.Parallel()

	sess, l := openSessionForProduct39(t)

	payload, err := datatype.EncodeD906(datatype.Lap{StartTime: 100, TotalTime: 6000, CalsConsumed: 250})
	require.NoError(t, err)

	l.QueueReceive(
		link.Packet{ID: datatype.PidRecords, Payload: []byte{1, 0}},
		link.Packet{ID: datatype.PidLap, Payload: payload},
		link.Packet{ID: datatype.PidTransferComplete, Payload: command.Encode(command.TransferLaps)},
	)

	laps, err := sess.GetLaps()
	require.NoError(t, err)
	require.Len(t, laps, 1)
	assert.Equal(t, uint32(100), laps[0].StartTime)
	assert.Equal(t, uint16(250), laps[0].CalsConsumed)
}

func TestGetAlmanacAbortsAfterThreeMalformedEntries(t *testing.T) {
	t.Parallel()

	sess, l := openSessionForProduct39(t)

	l.QueueReceive(
		link.Packet{ID: datatype.PidRecords, Payload: []byte{3, 0}},
		link.Packet{ID: datatype.PidAlmanac, Payload: []byte{0x01}},
		link.Packet{ID: datatype.PidAlmanac, Payload: []byte{0x02}},
		link.Packet{ID: datatype.PidAlmanac, Payload: []byte{0x03}},
	)

	_, err := sess.GetAlmanac()
	require.Error(t, err)
}
