package garmin

import (
	"context"
	"fmt"

	"github.com/basincreek/gogarmin/internal/transfer"
)

const pvtRole = "pvt"

// PVT starts real-time position/velocity/time streaming (spec §4.7 A800).
// It is the one exception to the single-conversation rule: a caller that
// wants to issue another command while streaming must cancel ctx first, then
// wait for the returned channel to close before calling anything else on the
// session.
func (s *Session) PVT(ctx context.Context) (<-chan transfer.PVTResult, error) {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return nil, fmt.Errorf("garmin: session busy with another transfer, cannot start pvt streaming")
	}
	s.busy = true
	s.mu.Unlock()

	ch, err := transfer.StreamPVT(ctx, s.link)
	if err != nil {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
		return nil, err
	}

	out := make(chan transfer.PVTResult)
	go func() {
		defer close(out)
		defer func() {
			s.mu.Lock()
			s.busy = false
			s.mu.Unlock()
		}()
		for result := range ch {
			out <- result
		}
	}()
	return out, nil
}
