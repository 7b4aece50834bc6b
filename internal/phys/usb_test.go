package phys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUSBHeaderEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	want := USBHeader{Type: USBPacketTypeApplication, PacketID: 51, Size: 100}
	encoded := want.Encode()
	require.Len(t, encoded, USBHeaderSize)

	got, err := DecodeUSBHeader(encoded)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestUSBHeaderEncodeUsesLittleEndianWireOrder(t *testing.T) {
	t.Parallel()

	hdr := USBHeader{Type: USBPacketTypeTransport, PacketID: 0x0102, Size: 0x01020304}
	buf := hdr.Encode()

	assert.Equal(t, uint8(0), buf[0])
	assert.Equal(t, byte(0x02), buf[4])
	assert.Equal(t, byte(0x01), buf[5])
	assert.Equal(t, byte(0x04), buf[8])
	assert.Equal(t, byte(0x03), buf[9])
	assert.Equal(t, byte(0x02), buf[10])
	assert.Equal(t, byte(0x01), buf[11])
}

func TestDecodeUSBHeaderRejectsShortBuffer(t *testing.T) {
	t.Parallel()

	_, err := DecodeUSBHeader(make([]byte, USBHeaderSize-1))
	require.Error(t, err)
}

func TestMockUSBTransportRequiresSessionForWrites(t *testing.T) {
	t.Parallel()

	tr := NewMockUSBTransport()

	err := tr.WritePacket(USBPacket{PacketID: 99})
	require.ErrorIs(t, err, ErrNotStarted)
}

func TestMockUSBTransportStartSessionHandshake(t *testing.T) {
	t.Parallel()

	tr := NewMockUSBTransport()
	require.NoError(t, tr.StartSession())

	require.NoError(t, tr.WritePacket(USBPacket{Type: USBPacketTypeApplication, PacketID: 1}))
	written := tr.Written()
	require.Len(t, written, 1)
	assert.Equal(t, uint16(1), written[0].PacketID)

	require.NoError(t, tr.Close())
	_, err := tr.ReadPacket()
	require.Error(t, err)
}
