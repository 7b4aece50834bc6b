// Package config holds the tunable options for a garmin session, validated
// and defaulted the way internal/phys.PortOptions is.
package config

import (
	"fmt"
	"time"

	"github.com/basincreek/gogarmin/internal/phys"
)

// SessionOptions configures a Session's link-layer timing and retry budget
// (spec §4.3, §4.8).
type SessionOptions struct {
	Port       phys.PortOptions
	AckTimeout time.Duration
	MaxRetries int
	AbortDrain time.Duration
}

// Normalize validates the options and fills in defaults for zero-valued
// fields, mirroring phys.PortOptions.Normalize.
func (o SessionOptions) Normalize() (SessionOptions, error) {
	opts := o

	port, err := opts.Port.Normalize()
	if err != nil {
		return opts, fmt.Errorf("config: port options: %w", err)
	}
	opts.Port = port

	if opts.AckTimeout <= 0 {
		opts.AckTimeout = 2 * time.Second
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 5
	}
	if opts.MaxRetries > 255 {
		return opts, fmt.Errorf("config: max retries %d exceeds 255", opts.MaxRetries)
	}
	if opts.AbortDrain <= 0 {
		opts.AbortDrain = 2 * time.Second
	}

	return opts, nil
}

// Equal reports whether two SessionOptions describe the same configuration
// once normalized.
func (o SessionOptions) Equal(other SessionOptions) bool {
	a, errA := o.Normalize()
	b, errB := other.Normalize()
	if errA != nil || errB != nil {
		return false
	}
	return a.Port.Equal(b.Port) &&
		a.AckTimeout == b.AckTimeout &&
		a.MaxRetries == b.MaxRetries &&
		a.AbortDrain == b.AbortDrain
}

// DefaultSessionOptions returns the zero-value options normalized, i.e. the
// library's stock configuration.
func DefaultSessionOptions() SessionOptions {
	opts, _ := SessionOptions{}.Normalize()
	return opts
}
