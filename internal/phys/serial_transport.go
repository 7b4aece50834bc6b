package phys

import (
	"fmt"
	"time"

	"github.com/basincreek/gogarmin/internal/timeutil"
)

// DefaultIOTimeout is the default serial read/write timeout (spec §4.1).
const DefaultIOTimeout = 5 * time.Second

// BaudChangeQuiesce is the quiescent window the host waits after ACKing a
// baud-change command before reconfiguring the port (spec §4.3).
const BaudChangeQuiesce = 100 * time.Millisecond

// SerialTransport is the serial Phys variant (spec §4.1): an unframed byte
// stream over a SerialPorter, with configurable read/write timeouts and a
// baud-rate reconfiguration handshake.
type SerialTransport struct {
	port    SerialPorter
	factory SerialPortFactory
	path    string
	mode    *SerialPortMode

	readTimeout  time.Duration
	writeTimeout time.Duration

	clock timeutil.Clock
}

// NewSerialTransportFromPort wraps an already-open SerialPorter (real or
// mock) as a SerialTransport. factory and path are retained so SetBaudrate
// can reopen the port at the new rate.
func NewSerialTransportFromPort(port SerialPorter, factory SerialPortFactory, path string, mode *SerialPortMode) *SerialTransport {
	t := &SerialTransport{
		port:         port,
		factory:      factory,
		path:         path,
		mode:         mode,
		readTimeout:  DefaultIOTimeout,
		writeTimeout: DefaultIOTimeout,
		clock:        timeutil.RealClock{},
	}
	t.applyReadTimeout()
	return t
}

// SetClock overrides the clock used for the baud-change quiescent window.
// Intended for tests.
func (t *SerialTransport) SetClock(c timeutil.Clock) {
	t.clock = c
}

func (t *SerialTransport) applyReadTimeout() {
	if tp, ok := t.port.(TimeoutSerialPorter); ok {
		_ = tp.SetReadTimeout(t.readTimeout)
	}
}

// SetTimeouts configures the read and write timeouts (default 5s, spec §4.1).
func (t *SerialTransport) SetTimeouts(read, write time.Duration) {
	t.readTimeout = read
	t.writeTimeout = write
	t.applyReadTimeout()
}

// Read reads raw bytes from the serial port. It satisfies io.Reader so the
// link layer's framing scanner can consume it directly.
func (t *SerialTransport) Read(p []byte) (int, error) {
	return t.port.Read(p)
}

// Write writes raw bytes to the serial port.
func (t *SerialTransport) Write(p []byte) (int, error) {
	return t.port.Write(p)
}

// Close closes the underlying serial port.
func (t *SerialTransport) Close() error {
	return t.port.Close()
}

// Flush is a no-op for transports whose underlying port does not buffer
// beyond the OS driver; present to satisfy the Transport contract (spec §4.1).
func (t *SerialTransport) Flush() error {
	return nil
}

// SetBaudrate follows the baud-change handshake of spec §4.3: the caller has
// already exchanged the baud-change command/ack over the link layer at the
// old rate; SetBaudrate waits the quiescent window, then reopens the serial
// port at the new rate. On failure the caller is expected to retry at 9600.
func (t *SerialTransport) SetBaudrate(baud uint32) error {
	t.clock.Sleep(BaudChangeQuiesce)

	if err := t.port.Close(); err != nil {
		return fmt.Errorf("phys: close before baud change: %w", err)
	}

	newMode := &SerialPortMode{
		BaudRate: int(baud),
		DataBits: t.mode.DataBits,
		Parity:   t.mode.Parity,
		StopBits: t.mode.StopBits,
	}

	port, err := t.factory.Open(t.path, newMode)
	if err != nil {
		return fmt.Errorf("phys: reopen at %d baud: %w", baud, err)
	}

	t.port = port
	t.mode = newMode
	t.applyReadTimeout()
	return nil
}
