// Package transfer implements the Axxx bulk transfer state machines (spec
// §4.7): header/records/trailer sequences built on top of internal/command
// opcodes and internal/link packets, plus real-time PVT streaming and the
// image/map blob transfers.
package transfer

import (
	"github.com/basincreek/gogarmin/internal/command"
	"github.com/basincreek/gogarmin/internal/datatype"
	"github.com/basincreek/gogarmin/internal/link"
	"github.com/basincreek/gogarmin/internal/protoerr"
)

// maxConsecutiveMalformedRecords bounds how many records in a row may fail
// to decode before a download category is abandoned (spec §4.7: "three
// consecutive NAKs for the same packet abort the category with
// TransferAborted"). The link layer already retries frame-level corruption
// below the Packet boundary; a record that decodes to a ProtocolViolation at
// this layer is the application-level analog of a malformed record, so the
// same three-strikes budget applies here.
const maxConsecutiveMalformedRecords = 3

// DecodeRecordsCount reads the 2-byte little-endian record count carried by
// a Records announcement packet (packet_id 27).
func DecodeRecordsCount(payload []byte) (int, error) {
	if len(payload) < 2 {
		return 0, &protoerr.ProtocolViolation{PacketID: datatype.PidRecords, HavePID: true, Diagnostic: "records announcement shorter than 2 bytes"}
	}
	return int(payload[0]) | int(payload[1])<<8, nil
}

// EncodeRecordsCount is the inverse of DecodeRecordsCount, used when this
// library acts as the uploading side.
func EncodeRecordsCount(n int) []byte {
	return []byte{byte(n), byte(n >> 8)}
}

// ExpectTransferComplete reads one packet and verifies it is a Transfer
// Complete announcing op.
func ExpectTransferComplete(l link.Link, category string, op command.Opcode) error {
	pkt, err := l.Receive()
	if err != nil {
		return err
	}
	if pkt.ID != datatype.PidTransferComplete {
		return &protoerr.ProtocolViolation{PacketID: pkt.ID, HavePID: true, Diagnostic: "expected transfer complete"}
	}
	got, err := command.Decode(pkt.Payload)
	if err != nil {
		return err
	}
	if got != op {
		return &protoerr.ProtocolViolation{PacketID: pkt.ID, HavePID: true, Diagnostic: "transfer complete names a different opcode than requested"}
	}
	return nil
}

// Pull runs a download category to completion (spec §4.7 steps 1-4): send
// op, read the Records announcement, read count typed data packets via
// decode, then read Transfer Complete. dataPid is the packet_id expected for
// each data record; any other packet_id aborts the category.
func Pull[T any](l link.Link, category string, op command.Opcode, dataPid uint16, decode func([]byte) (T, error)) ([]T, error) {
	if err := command.Send(l, op); err != nil {
		return nil, err
	}

	announce, err := l.Receive()
	if err != nil {
		return nil, err
	}
	if announce.ID != datatype.PidRecords {
		return nil, &protoerr.ProtocolViolation{PacketID: announce.ID, HavePID: true, Diagnostic: "expected records announcement"}
	}
	count, err := DecodeRecordsCount(announce.Payload)
	if err != nil {
		return nil, err
	}

	records := make([]T, 0, count)
	consecutiveFailures := 0
	for len(records) < count {
		pkt, err := l.Receive()
		if err != nil {
			return nil, err
		}
		if pkt.ID != dataPid {
			return nil, &protoerr.ProtocolViolation{PacketID: pkt.ID, HavePID: true, Diagnostic: "unexpected packet id within records sequence"}
		}
		rec, err := decode(pkt.Payload)
		if err != nil {
			consecutiveFailures++
			if consecutiveFailures >= maxConsecutiveMalformedRecords {
				return nil, &protoerr.TransferAborted{Category: category, Diagnostic: "three consecutive malformed records"}
			}
			continue
		}
		consecutiveFailures = 0
		records = append(records, rec)
	}

	if err := ExpectTransferComplete(l, category, op); err != nil {
		return nil, err
	}
	return records, nil
}

// Push runs an upload category to completion: send op, send a Records
// announcement for len(records), send each encoded record on dataPid, then
// send Transfer Complete.
func Push[T any](l link.Link, op command.Opcode, dataPid uint16, records []T, encode func(T) ([]byte, error)) error {
	if err := command.Send(l, op); err != nil {
		return err
	}
	if err := l.Send(link.Packet{ID: datatype.PidRecords, Payload: EncodeRecordsCount(len(records))}); err != nil {
		return err
	}
	for _, rec := range records {
		payload, err := encode(rec)
		if err != nil {
			return err
		}
		if err := l.Send(link.Packet{ID: dataPid, Payload: payload}); err != nil {
			return err
		}
	}
	return l.Send(link.Packet{ID: datatype.PidTransferComplete, Payload: command.Encode(op)})
}

// Abort sends ABORT_TRANSFER and drains incoming packets until Transfer
// Complete arrives or drain returns an error (spec §4.7, §5: "waits up to 2s
// for drain, then returns Cancelled"). The caller supplies drain's timeout
// behavior by having l.Receive() honor the transport's configured read
// timeout; Abort itself does not impose an additional deadline.
func Abort(l link.Link, category string) error {
	if err := command.Send(l, command.AbortTransfer); err != nil {
		return err
	}
	for {
		pkt, err := l.Receive()
		if err != nil {
			return &protoerr.Cancelled{Category: category}
		}
		if pkt.ID == datatype.PidTransferComplete {
			return &protoerr.Cancelled{Category: category}
		}
	}
}
