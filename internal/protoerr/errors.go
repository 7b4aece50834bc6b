// Package protoerr defines the error taxonomy shared across the protocol
// stack (spec §7). Each type carries the fields that fit its failure (a
// packet_id when known, a category, a short diagnostic); TransportError and
// LinkFailure also keep an underlying cause and expose it through Unwrap so
// callers can still errors.Is/errors.As through to it.
package protoerr

import "fmt"

// TransportError reports a Phys-layer failure: port open failure, I/O
// error, or timeout.
type TransportError struct {
	Op         string
	Diagnostic string
	Err        error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s: %s", e.Op, e.Diagnostic)
}

func (e *TransportError) Unwrap() error { return e.Err }

// LinkFailure reports an Lxxx-layer failure that survived the retry budget:
// checksum mismatch, framing resync failure, or an unacknowledged send.
type LinkFailure struct {
	PacketID   uint16
	HavePID    bool
	Diagnostic string
	Err        error
}

func (e *LinkFailure) Error() string {
	if e.HavePID {
		return fmt.Sprintf("link failure on packet %d: %s", e.PacketID, e.Diagnostic)
	}
	return fmt.Sprintf("link failure: %s", e.Diagnostic)
}

func (e *LinkFailure) Unwrap() error { return e.Err }

// ProtocolViolation reports an application-layer sequencing error: an
// unexpected packet_id, a wrong record count, or a missing Transfer
// Complete.
type ProtocolViolation struct {
	PacketID   uint16
	HavePID    bool
	Diagnostic string
}

func (e *ProtocolViolation) Error() string {
	if e.HavePID {
		return fmt.Sprintf("protocol violation on packet %d: %s", e.PacketID, e.Diagnostic)
	}
	return fmt.Sprintf("protocol violation: %s", e.Diagnostic)
}

// UnknownDevice reports a product_id with no catalog entry and no A001
// reply.
type UnknownDevice struct {
	ProductID       uint16
	SoftwareVersion uint16
}

func (e *UnknownDevice) Error() string {
	return fmt.Sprintf("unknown device: product_id=%d software_version=%d", e.ProductID, e.SoftwareVersion)
}

// ProtocolNotSupported reports that the caller invoked a role the
// negotiated ProtocolSet does not resolve.
type ProtocolNotSupported struct {
	Role string
}

func (e *ProtocolNotSupported) Error() string {
	return fmt.Sprintf("protocol not supported for role %q", e.Role)
}

// TransferAborted reports that a category transfer was abandoned mid-flight,
// either by the device (repeated NAKs) or by the host.
type TransferAborted struct {
	Category   string
	Diagnostic string
}

func (e *TransferAborted) Error() string {
	return fmt.Sprintf("transfer aborted (%s): %s", e.Category, e.Diagnostic)
}

// Cancelled reports that the caller requested cancellation of an in-flight
// operation.
type Cancelled struct {
	Category string
}

func (e *Cancelled) Error() string {
	return fmt.Sprintf("cancelled (%s)", e.Category)
}
