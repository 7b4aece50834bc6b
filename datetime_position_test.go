package garmin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basincreek/gogarmin/internal/datatype"
	"github.com/basincreek/gogarmin/internal/link"
)

func TestGetDateTimeReadsSingletonPacket(t *testing.T) {
	t.Parallel()

	sess, l := openSessionForProduct39(t)

	payload, err := datatype.EncodeD600(datatype.DateTime{Month: 7, Day: 30, Year: 2026, Hour: 9, Minute: 15})
	require.NoError(t, err)
	l.QueueReceive(link.Packet{ID: datatype.PidDateTime, Payload: payload})

	got, err := sess.GetDateTime()
	require.NoError(t, err)
	assert.Equal(t, uint16(2026), got.Year)
	assert.Equal(t, uint8(30), got.Day)
}

func TestPutDateTimeSendsOpcodeThenSingletonPacket(t *testing.T) {
	t.Parallel()

	sess, l := openSessionForProduct39(t)

	require.NoError(t, sess.PutDateTime(datatype.DateTime{Month: 1, Day: 1, Year: 2000}))

	sent := l.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, datatype.PidDateTime, sent[1].ID)
}

func TestPutPositionSendsOpcodeThenPositionInitPacket(t *testing.T) {
	t.Parallel()

	sess, l := openSessionForProduct39(t)

	require.NoError(t, sess.PutPosition(datatype.Position{Lat: 1, Lon: 2}))

	sent := l.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, datatype.PidPositionInit, sent[1].ID)
}
