// Package garmin implements a host-side client for the Garmin device
// communication protocol family (Pxxx/Lxxx/Axxx/Dxxx): physical transport,
// link framing, capability negotiation, and the bulk transfer categories
// built on top of them.
package garmin

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/basincreek/gogarmin/internal/catalog"
	"github.com/basincreek/gogarmin/internal/config"
	"github.com/basincreek/gogarmin/internal/link"
	"github.com/basincreek/gogarmin/internal/monitoring"
	"github.com/basincreek/gogarmin/internal/negotiate"
	"github.com/basincreek/gogarmin/internal/transfer"
)

// Session owns the transport, link, and negotiated protocol set for one
// attached device (spec §4.8). It is single-threaded: only one bulk transfer
// may be active at a time, enforced by busy below, with real-time PVT
// streaming as the one exception the caller controls by stopping it before
// issuing another command.
type Session struct {
	mu   sync.Mutex
	busy bool

	link   link.Link
	opts   config.SessionOptions
	result negotiate.Result
}

// Open negotiates capabilities over l and returns a ready Session. cat is
// consulted as a fallback when the device offers no Protocol Array (spec
// §4.5).
func Open(l link.Link, cat *catalog.DB, opts config.SessionOptions) (*Session, error) {
	normalized, err := opts.Normalize()
	if err != nil {
		return nil, err
	}
	if sl, ok := l.(*link.SerialLink); ok {
		sl.SetRetryPolicy(normalized.AckTimeout, normalized.MaxRetries)
	}

	result, err := negotiate.Negotiate(l, cat)
	if err != nil {
		return nil, err
	}
	monitoring.Logf("garmin: negotiated product_id=%d software_version=%d link=%s command=%s",
		result.Product.ProductID, result.Product.SoftwareVersion, result.Set.LinkProtocol, result.Set.CommandProtocol)

	return &Session{link: l, opts: normalized, result: result}, nil
}

// Close releases the underlying link.
func (s *Session) Close() error {
	return s.link.Close()
}

// ProductInfo returns the device identity discovered during negotiation.
func (s *Session) ProductInfo() negotiate.ProductInfo {
	return s.result.Product
}

// ProtocolSet returns the resolved protocol set discovered during
// negotiation.
func (s *Session) ProtocolSet() negotiate.ProtocolSet {
	return s.result.Set
}

// GetUnitID returns the device's product id as reported during negotiation.
// The protocol family has no dedicated "unit id" application protocol
// documented anywhere in this library's sources; ProductID is the closest
// available stable identifier and is what this method reports.
func (s *Session) GetUnitID() uint16 {
	return s.result.Product.ProductID
}

// transferID mints a correlation id for one bulk operation (spec §3
// TransferID), logged alongside the category so overlapping session
// diagnostics can be told apart.
func transferID() string {
	return uuid.NewString()
}

// acquire marks the session busy for the duration of one bult operation,
// enforcing the non-reentrant single conversation invariant (spec §5).
// newer callers that invoke a second operation while one is in flight get an
// immediate error rather than blocking, since this conversation is
// inherently serial over one physical link.
func (s *Session) acquire(category string) (string, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return "", nil, fmt.Errorf("garmin: session busy with another transfer, cannot start %s", category)
	}
	s.busy = true
	id := transferID()
	monitoring.Logf("garmin: starting %s transfer_id=%s", category, id)
	release := func() {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
		monitoring.Logf("garmin: finished %s transfer_id=%s", category, id)
	}
	return id, release, nil
}

// Abort cancels the in-progress transfer named by category (spec §4.3,
// §4.8): it sends AbortTransfer and drains replies until Transfer Complete,
// returning protoerr.Cancelled either way. The ACK timeout is narrowed to
// the session's configured AbortDrain for the duration of the drain, so a device that
// never answers doesn't hold the caller for the full retry budget, then
// restored.
func (s *Session) Abort(category string) error {
	sl, ok := s.link.(*link.SerialLink)
	if !ok {
		return transfer.Abort(s.link, category)
	}
	prevAck, prevRetries := sl.RetryPolicy()
	sl.SetRetryPolicy(s.opts.AbortDrain, 0)
	defer sl.SetRetryPolicy(prevAck, prevRetries)
	return transfer.Abort(s.link, category)
}
