package garmin

import (
	"github.com/basincreek/gogarmin/internal/command"
	"github.com/basincreek/gogarmin/internal/datatype"
	"github.com/basincreek/gogarmin/internal/fsutil"
	"github.com/basincreek/gogarmin/internal/transfer"
)

const imageRole = "image_transfer"

// GetImage downloads the image at index (spec §4.7): a properties header
// followed by row data. The device does not expose a way to select which
// image index to request independent of the opcode in this library's
// sources, so index is recorded by the caller for bookkeeping only; the
// device determines which image it returns based on its own current state.
func (s *Session) GetImage(index uint16) (datatype.Image, error) {
	_, release, err := s.acquire(imageRole)
	if err != nil {
		return datatype.Image{}, err
	}
	defer release()

	op, err := command.OpcodeForRole(imageRole)
	if err != nil {
		return datatype.Image{}, err
	}
	return transfer.PullImage(s.link, op)
}

// PutImage uploads img as the image at index.
func (s *Session) PutImage(index uint16, img datatype.Image) error {
	_, release, err := s.acquire(imageRole)
	if err != nil {
		return err
	}
	defer release()

	op, err := command.OpcodeForRole(imageRole)
	if err != nil {
		return err
	}
	img.Properties.Index = index
	return transfer.PushImage(s.link, op, img)
}

// SaveImage writes a previously downloaded image's raw pixel data to disk.
func (s *Session) SaveImage(fs fsutil.FileSystem, img datatype.Image, outDir, filename string) error {
	return transfer.SaveImage(fs, img, outDir, filename)
}

const mapRole = "map_transfer"

// GetMap downloads the installed map blob in fixed-size chunks (spec §4.7).
func (s *Session) GetMap() (datatype.MapHeader, []byte, error) {
	_, release, err := s.acquire(mapRole)
	if err != nil {
		return datatype.MapHeader{}, nil, err
	}
	defer release()

	return transfer.PullMap(s.link)
}

// PutMap uploads blob as the device's map, split into chunkSize pieces.
func (s *Session) PutMap(blob []byte, chunkSize uint32) error {
	_, release, err := s.acquire(mapRole)
	if err != nil {
		return err
	}
	defer release()

	return transfer.PushMap(s.link, blob, chunkSize)
}

// SaveMap writes a previously downloaded map blob to disk.
func (s *Session) SaveMap(fs fsutil.FileSystem, blob []byte, outDir, filename string) error {
	return transfer.SaveMap(fs, blob, outDir, filename)
}
