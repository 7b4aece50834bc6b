package garmin

import (
	"github.com/basincreek/gogarmin/internal/command"
	"github.com/basincreek/gogarmin/internal/datatype"
	"github.com/basincreek/gogarmin/internal/transfer"
)

const (
	lapsRole    = "laps"
	runsRole    = "runs"
	almanacRole = "almanac"
)

// GetLaps downloads the device's lap history (D906).
func (s *Session) GetLaps() ([]datatype.Lap, error) {
	_, release, err := s.acquire(lapsRole)
	if err != nil {
		return nil, err
	}
	defer release()

	op, err := command.OpcodeForRole(lapsRole)
	if err != nil {
		return nil, err
	}
	return transfer.Pull(s.link, lapsRole, op, datatype.PidLap, datatype.DecodeD906)
}

// GetRuns downloads the device's run history (D1000).
func (s *Session) GetRuns() ([]datatype.Run, error) {
	_, release, err := s.acquire(runsRole)
	if err != nil {
		return nil, err
	}
	defer release()

	op, err := command.OpcodeForRole(runsRole)
	if err != nil {
		return nil, err
	}
	return transfer.Pull(s.link, runsRole, op, datatype.PidRun, datatype.DecodeD1000)
}

// GetAlmanac downloads the current satellite almanac (D500).
func (s *Session) GetAlmanac() ([]datatype.AlmanacEntry, error) {
	_, release, err := s.acquire(almanacRole)
	if err != nil {
		return nil, err
	}
	defer release()

	op, err := command.OpcodeForRole(almanacRole)
	if err != nil {
		return nil, err
	}
	return transfer.Pull(s.link, almanacRole, op, datatype.PidAlmanac, datatype.DecodeD500)
}
