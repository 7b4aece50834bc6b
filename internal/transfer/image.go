package transfer

import (
	"path/filepath"
	"sort"

	"github.com/basincreek/gogarmin/internal/command"
	"github.com/basincreek/gogarmin/internal/datatype"
	"github.com/basincreek/gogarmin/internal/fsutil"
	"github.com/basincreek/gogarmin/internal/link"
	"github.com/basincreek/gogarmin/internal/protoerr"
	"github.com/basincreek/gogarmin/internal/security"
)

// PullImage downloads one image (spec §4.7): a properties header, then one
// row-data packet per row named in the header, terminated by Transfer
// Complete. Rows may arrive out of order; they are sorted by RowNum before
// being returned, honoring reassembly order regardless of arrival order.
func PullImage(l link.Link, op command.Opcode) (datatype.Image, error) {
	if err := command.Send(l, op); err != nil {
		return datatype.Image{}, err
	}

	header, err := l.Receive()
	if err != nil {
		return datatype.Image{}, err
	}
	if header.ID != datatype.PidImageProperties {
		return datatype.Image{}, &protoerr.ProtocolViolation{PacketID: header.ID, HavePID: true, Diagnostic: "expected image properties"}
	}
	props, err := datatype.DecodeImageProperties(header.Payload)
	if err != nil {
		return datatype.Image{}, err
	}

	img := datatype.Image{Properties: props}
	consecutiveFailures := 0
	for len(img.Rows) < int(props.Height) {
		pkt, err := l.Receive()
		if err != nil {
			return datatype.Image{}, err
		}
		if pkt.ID != datatype.PidImageData {
			return datatype.Image{}, &protoerr.ProtocolViolation{PacketID: pkt.ID, HavePID: true, Diagnostic: "unexpected packet id within image row sequence"}
		}
		row, err := datatype.DecodeImageRow(pkt.Payload)
		if err != nil {
			consecutiveFailures++
			if consecutiveFailures >= maxConsecutiveMalformedRecords {
				return datatype.Image{}, &protoerr.TransferAborted{Category: "image_transfer", Diagnostic: "three consecutive malformed rows"}
			}
			continue
		}
		consecutiveFailures = 0
		img.Rows = append(img.Rows, row)
	}
	sort.Slice(img.Rows, func(i, j int) bool { return img.Rows[i].RowNum < img.Rows[j].RowNum })

	if err := ExpectTransferComplete(l, "image_transfer", op); err != nil {
		return datatype.Image{}, err
	}
	return img, nil
}

// PushImage uploads one image: properties header, then one row packet per
// entry in img.Rows in the order given, then Transfer Complete.
func PushImage(l link.Link, op command.Opcode, img datatype.Image) error {
	if err := command.Send(l, op); err != nil {
		return err
	}
	payload, err := datatype.EncodeImageProperties(img.Properties)
	if err != nil {
		return err
	}
	if err := l.Send(link.Packet{ID: datatype.PidImageProperties, Payload: payload}); err != nil {
		return err
	}
	for _, row := range img.Rows {
		if err := l.Send(link.Packet{ID: datatype.PidImageData, Payload: datatype.EncodeImageRow(row)}); err != nil {
			return err
		}
	}
	return l.Send(link.Packet{ID: datatype.PidTransferComplete, Payload: command.Encode(op)})
}

// SaveImage writes img's reassembled pixel data, row order preserved, as a
// raw binary file under outDir (spec §4.7 supplement: filesystem writes go
// through fsutil and are validated against path traversal before any I/O).
// This library does not perform image-format conversion (that is a
// Non-goal); callers wanting PNG/BMP/etc. are expected to interpret the raw
// bytes using img.Properties.
func SaveImage(fs fsutil.FileSystem, img datatype.Image, outDir, filename string) error {
	outPath := filepath.Join(outDir, filename)
	if err := security.ValidatePathWithinDirectory(outPath, outDir); err != nil {
		return err
	}
	var buf []byte
	for _, row := range img.Rows {
		buf = append(buf, row.Pixels...)
	}
	return fs.WriteFile(outPath, buf, 0o644)
}
