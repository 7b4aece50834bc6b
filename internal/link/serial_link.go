package link

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/basincreek/gogarmin/internal/protoerr"
	"github.com/basincreek/gogarmin/internal/timeutil"
)

// Transport is the subset of phys.SerialTransport the serial link needs: a
// byte stream with adjustable I/O timeouts.
type Transport interface {
	io.ReadWriteCloser
	SetTimeouts(read, write time.Duration)
}

// Default ACK-wait timeout and retry budget (spec §4.3).
const (
	DefaultAckTimeout = 2 * time.Second
	DefaultMaxRetries = 5
)

// SerialLink is the L000/L001 link layer over a serial Transport: DLE/ETX
// framing, checksum, and ACK/NAK flow control (spec §4.3).
type SerialLink struct {
	transport  Transport
	ackTimeout time.Duration
	maxRetries int
	clock      timeutil.Clock

	lastRetryCount int
}

// NewSerialLink wraps transport as a SerialLink with the spec's default ACK
// timeout (2s) and retry budget (5).
func NewSerialLink(transport Transport) *SerialLink {
	return &SerialLink{
		transport:  transport,
		ackTimeout: DefaultAckTimeout,
		maxRetries: DefaultMaxRetries,
		clock:      timeutil.RealClock{},
	}
}

// SetClock overrides the clock used for nothing blocking today but kept for
// symmetry with the rest of the stack's testable-clock convention; retained
// for future retry backoff tuning.
func (l *SerialLink) SetClock(c timeutil.Clock) { l.clock = c }

// SetRetryPolicy overrides the ACK timeout and retry budget. Intended for
// tests that need faster-than-2s timeouts.
func (l *SerialLink) SetRetryPolicy(ackTimeout time.Duration, maxRetries int) {
	l.ackTimeout = ackTimeout
	l.maxRetries = maxRetries
}

// RetryCount reports how many retransmissions the most recent Send call
// performed — the test hook spec §8's NAK-retry scenario calls for.
func (l *SerialLink) RetryCount() int { return l.lastRetryCount }

// RetryPolicy reports the ACK timeout and retry budget SetRetryPolicy last
// set, so a caller can save and restore it around a temporary override.
func (l *SerialLink) RetryPolicy() (ackTimeout time.Duration, maxRetries int) {
	return l.ackTimeout, l.maxRetries
}

// Send frames pkt and blocks until the device ACKs it, retrying on NAK,
// checksum failure, or timeout up to the retry budget, then surfacing
// LinkFailure (spec §4.3, §7).
func (l *SerialLink) Send(pkt Packet) error {
	framed, err := Frame(pkt)
	if err != nil {
		return err
	}

	l.lastRetryCount = 0
	for attempt := 0; attempt <= l.maxRetries; attempt++ {
		if attempt > 0 {
			l.lastRetryCount++
		}

		l.transport.SetTimeouts(l.ackTimeout, l.ackTimeout)
		if _, err := l.transport.Write(framed); err != nil {
			return &protoerr.LinkFailure{PacketID: pkt.ID, HavePID: true, Diagnostic: "write failed", Err: err}
		}

		reply, err := Unframe(l.transport)
		if err != nil {
			continue
		}

		switch reply.ID {
		case pidACK:
			if len(reply.Payload) == 1 && reply.Payload[0] == byte(pkt.ID) {
				return nil
			}
		case pidNAK:
			// device asked for retransmission
		}
	}

	return &protoerr.LinkFailure{
		PacketID:   pkt.ID,
		HavePID:    true,
		Diagnostic: fmt.Sprintf("no ACK after %d retries", l.maxRetries),
	}
}

// Receive blocks for the next non-flow-control frame, ACKing it before
// returning. A checksum failure triggers a NAK and waits for the sender's
// retransmit rather than surfacing an error (spec §4.3).
func (l *SerialLink) Receive() (Packet, error) {
	l.transport.SetTimeouts(l.ackTimeout, l.ackTimeout)
	for {
		pkt, err := Unframe(l.transport)
		if err != nil {
			if errors.Is(err, ErrChecksumMismatch) {
				if sendErr := l.sendRaw(Packet{ID: pidNAK, Payload: []byte{0}}); sendErr != nil {
					return Packet{}, sendErr
				}
				continue
			}
			return Packet{}, &protoerr.LinkFailure{Diagnostic: "receive framing failed", Err: err}
		}

		if pkt.ID == pidACK || pkt.ID == pidNAK {
			continue
		}

		if err := l.sendRaw(Packet{ID: pidACK, Payload: []byte{byte(pkt.ID)}}); err != nil {
			return Packet{}, err
		}
		return pkt, nil
	}
}

// Close closes the underlying transport.
func (l *SerialLink) Close() error {
	return l.transport.Close()
}

func (l *SerialLink) sendRaw(pkt Packet) error {
	framed, err := Frame(pkt)
	if err != nil {
		return err
	}
	if _, err := l.transport.Write(framed); err != nil {
		return &protoerr.LinkFailure{Diagnostic: "write ack/nak failed", Err: err}
	}
	return nil
}
