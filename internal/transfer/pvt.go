package transfer

import (
	"context"

	"github.com/basincreek/gogarmin/internal/command"
	"github.com/basincreek/gogarmin/internal/datatype"
	"github.com/basincreek/gogarmin/internal/link"
)

// PVTResult is one item of a streamed PVT sequence: either a decoded fix or
// the error that ended the stream.
type PVTResult struct {
	PVT datatype.PVT
	Err error
}

// StreamPVT starts real-time PVT streaming (spec §4.7 A800): it sends
// START_PVT_DATA, then asynchronously forwards every decoded PVT (id 51)
// packet on the returned channel until ctx is cancelled, at which point it
// sends STOP_PVT_DATA and closes the channel. The channel is unbuffered and
// lazy: a caller that stops reading simply blocks the forwarding goroutine
// until it observes ctx.Done.
func StreamPVT(ctx context.Context, l link.Link) (<-chan PVTResult, error) {
	if err := command.Send(l, command.StartPVTData); err != nil {
		return nil, err
	}

	out := make(chan PVTResult)
	go func() {
		defer close(out)
		defer func() { _ = command.Send(l, command.StopPVTData) }()

		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			pkt, err := l.Receive()
			if err != nil {
				select {
				case out <- PVTResult{Err: err}:
				case <-ctx.Done():
				}
				return
			}
			if pkt.ID != datatype.PidPVT {
				continue
			}
			pvt, err := datatype.DecodeD800(pkt.Payload)
			select {
			case out <- PVTResult{PVT: pvt, Err: err}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}
