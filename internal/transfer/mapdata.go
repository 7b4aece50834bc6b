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

// chunkCount computes how many fixed-size chunks cover totalSize bytes,
// rounding up for a final short chunk.
func chunkCount(totalSize, chunkSize uint32) int {
	if chunkSize == 0 {
		return 0
	}
	n := totalSize / chunkSize
	if totalSize%chunkSize != 0 {
		n++
	}
	return int(n)
}

// PullMap downloads the map blob in fixed-size chunks (spec §4.7): a header
// announcing total size and chunk size, then one chunk packet per index,
// reassembled in index order regardless of arrival order, then Transfer
// Complete.
func PullMap(l link.Link) (datatype.MapHeader, []byte, error) {
	if err := command.Send(l, command.TransferMap); err != nil {
		return datatype.MapHeader{}, nil, err
	}

	headerPkt, err := l.Receive()
	if err != nil {
		return datatype.MapHeader{}, nil, err
	}
	if headerPkt.ID != datatype.PidMapProduct {
		return datatype.MapHeader{}, nil, &protoerr.ProtocolViolation{PacketID: headerPkt.ID, HavePID: true, Diagnostic: "expected map header"}
	}
	header, err := datatype.DecodeMapHeader(headerPkt.Payload)
	if err != nil {
		return datatype.MapHeader{}, nil, err
	}

	want := chunkCount(header.TotalSize, header.ChunkSize)
	chunks := make([]datatype.MapChunk, 0, want)
	consecutiveFailures := 0
	for len(chunks) < want {
		pkt, err := l.Receive()
		if err != nil {
			return datatype.MapHeader{}, nil, err
		}
		if pkt.ID != datatype.PidMapProduct {
			return datatype.MapHeader{}, nil, &protoerr.ProtocolViolation{PacketID: pkt.ID, HavePID: true, Diagnostic: "unexpected packet id within map chunk sequence"}
		}
		chunk, err := datatype.DecodeMapChunk(pkt.Payload)
		if err != nil {
			consecutiveFailures++
			if consecutiveFailures >= maxConsecutiveMalformedRecords {
				return datatype.MapHeader{}, nil, &protoerr.TransferAborted{Category: "map_transfer", Diagnostic: "three consecutive malformed chunks"}
			}
			continue
		}
		consecutiveFailures = 0
		chunks = append(chunks, chunk)
	}
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Index < chunks[j].Index })

	if err := ExpectTransferComplete(l, "map_transfer", command.TransferMap); err != nil {
		return datatype.MapHeader{}, nil, err
	}

	blob := make([]byte, 0, header.TotalSize)
	for _, c := range chunks {
		blob = append(blob, c.Data...)
	}
	return header, blob, nil
}

// PushMap uploads blob in fixed chunkSize chunks.
func PushMap(l link.Link, blob []byte, chunkSize uint32) error {
	if err := command.Send(l, command.TransferMap); err != nil {
		return err
	}
	header := datatype.MapHeader{TotalSize: uint32(len(blob)), ChunkSize: chunkSize}
	headerPayload, err := datatype.EncodeMapHeader(header)
	if err != nil {
		return err
	}
	if err := l.Send(link.Packet{ID: datatype.PidMapProduct, Payload: headerPayload}); err != nil {
		return err
	}

	for i, off := uint32(0), uint32(0); off < uint32(len(blob)); i, off = i+1, off+chunkSize {
		end := off + chunkSize
		if end > uint32(len(blob)) {
			end = uint32(len(blob))
		}
		chunk := datatype.MapChunk{Index: i, Data: blob[off:end]}
		if err := l.Send(link.Packet{ID: datatype.PidMapProduct, Payload: datatype.EncodeMapChunk(chunk)}); err != nil {
			return err
		}
	}
	return l.Send(link.Packet{ID: datatype.PidTransferComplete, Payload: command.Encode(command.TransferMap)})
}

// SaveMap writes blob to filename under outDir, validated against path
// traversal before any write (spec §4.7 supplement).
func SaveMap(fs fsutil.FileSystem, blob []byte, outDir, filename string) error {
	outPath := filepath.Join(outDir, filename)
	if err := security.ValidatePathWithinDirectory(outPath, outDir); err != nil {
		return err
	}
	return fs.WriteFile(outPath, blob, 0o644)
}
