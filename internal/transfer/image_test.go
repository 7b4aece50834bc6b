package transfer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basincreek/gogarmin/internal/command"
	"github.com/basincreek/gogarmin/internal/datatype"
	"github.com/basincreek/gogarmin/internal/fsutil"
	"github.com/basincreek/gogarmin/internal/link"
)

func TestPullImageReassemblesOutOfOrderRows(t *testing.T) {
	t.Parallel()

	props := datatype.ImageProperties{Index: 0, Width: 2, Height: 3, Bpp: 8}
	propsPayload, err := datatype.EncodeImageProperties(props)
	require.NoError(t, err)

	l := link.NewMockLink(
		link.Packet{ID: datatype.PidImageProperties, Payload: propsPayload},
		link.Packet{ID: datatype.PidImageData, Payload: datatype.EncodeImageRow(datatype.ImageRow{RowNum: 2, Pixels: []byte{9, 9}})},
		link.Packet{ID: datatype.PidImageData, Payload: datatype.EncodeImageRow(datatype.ImageRow{RowNum: 0, Pixels: []byte{1, 1}})},
		link.Packet{ID: datatype.PidImageData, Payload: datatype.EncodeImageRow(datatype.ImageRow{RowNum: 1, Pixels: []byte{5, 5}})},
		link.Packet{ID: datatype.PidTransferComplete, Payload: command.Encode(command.TransferImage)},
	)

	img, err := PullImage(l, command.TransferImage)
	require.NoError(t, err)
	require.Len(t, img.Rows, 3)
	assert.Equal(t, uint16(0), img.Rows[0].RowNum)
	assert.Equal(t, uint16(1), img.Rows[1].RowNum)
	assert.Equal(t, uint16(2), img.Rows[2].RowNum)
}

func TestSaveImageWritesRowsInOrderAndRejectsEscapingPaths(t *testing.T) {
	t.Parallel()

	fs := fsutil.NewMemoryFileSystem()
	img := datatype.Image{
		Rows: []datatype.ImageRow{
			{RowNum: 0, Pixels: []byte{1, 2}},
			{RowNum: 1, Pixels: []byte{3, 4}},
		},
	}

	require.NoError(t, SaveImage(fs, img, "/out", "snapshot.bin"))
	data, err := fs.ReadFile("/out/snapshot.bin")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, data)

	err = SaveImage(fs, img, "/out", "../escape.bin")
	require.Error(t, err)
}
