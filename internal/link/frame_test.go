package link

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameUnframeRoundTrip(t *testing.T) {
	t.Parallel()

	cases := []Packet{
		{ID: 254, Payload: nil},
		{ID: 35, Payload: []byte("HOME")},
		{ID: 10, Payload: []byte{0x01}},
	}

	for _, pkt := range cases {
		framed, err := Frame(pkt)
		require.NoError(t, err)

		got, err := Unframe(bytes.NewReader(framed))
		require.NoError(t, err)
		assert.Equal(t, pkt.ID, got.ID)
		assert.Equal(t, pkt.Payload, got.Payload)
	}
}

func TestByteStuffingEscapesOnlyDLE(t *testing.T) {
	t.Parallel()

	pkt := Packet{ID: 35, Payload: []byte{0x01, dle, 0x02, dle, dle, 0x03}}
	framed, err := Frame(pkt)
	require.NoError(t, err)

	// Every 0x10 in the payload must appear doubled in the frame, and no
	// other byte should be stuffed.
	interior := framed[1 : len(framed)-2]
	count := bytes.Count(interior, []byte{dle})
	// id(35, no dle) + length(no dle) + 3 literal dle bytes in payload
	// (each contributing a doubled pair) + checksum (no dle expected here).
	assert.Equal(t, 6, count, "each literal DLE in payload should appear as a doubled pair")

	got, err := Unframe(bytes.NewReader(framed))
	require.NoError(t, err)
	assert.Equal(t, pkt.Payload, got.Payload)
}

func TestUnframeDetectsChecksumMismatch(t *testing.T) {
	t.Parallel()

	pkt := Packet{ID: 35, Payload: []byte("OK")}
	framed, err := Frame(pkt)
	require.NoError(t, err)

	// Corrupt the checksum byte (third from last, just before the closing DLE ETX).
	framed[len(framed)-3] ^= 0xFF

	_, err = Unframe(bytes.NewReader(framed))
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestUnframeDiscardsLeadingNoise(t *testing.T) {
	t.Parallel()

	pkt := Packet{ID: 1, Payload: []byte{9}}
	framed, err := Frame(pkt)
	require.NoError(t, err)

	noisy := append([]byte{0xAA, 0xBB, 0x03}, framed...)
	got, err := Unframe(bytes.NewReader(noisy))
	require.NoError(t, err)
	assert.Equal(t, pkt.ID, got.ID)
}
