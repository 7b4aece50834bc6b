package phys

import (
	"go.bug.st/serial"
)

// realPortFactory opens serial ports via go.bug.st/serial.
type realPortFactory struct{}

// NewRealSerialPortFactory returns a SerialPortFactory backed by the host's
// real serial driver.
func NewRealSerialPortFactory() SerialPortFactory {
	return realPortFactory{}
}

func (realPortFactory) Open(path string, mode *SerialPortMode) (SerialPorter, error) {
	opts := PortOptions{
		BaudRate: mode.BaudRate,
		DataBits: mode.DataBits,
		StopBits: int(mode.StopBits) + 1,
	}
	switch mode.Parity {
	case EvenParity:
		opts.Parity = "E"
	case OddParity:
		opts.Parity = "O"
	default:
		opts.Parity = "N"
	}

	serialMode, err := opts.SerialMode()
	if err != nil {
		return nil, err
	}

	return serial.Open(path, serialMode)
}

// NewSerialTransport opens a real serial port at path with the given mode and
// wraps it as a SerialTransport. Use NewSerialTransportWithFactory to inject a
// mock factory for tests.
func NewSerialTransport(path string, mode *SerialPortMode) (*SerialTransport, error) {
	return NewSerialTransportWithFactory(NewRealSerialPortFactory(), path, mode)
}

// NewSerialTransportWithFactory opens a serial port via factory and wraps it
// as a SerialTransport.
func NewSerialTransportWithFactory(factory SerialPortFactory, path string, mode *SerialPortMode) (*SerialTransport, error) {
	port, err := factory.Open(path, mode)
	if err != nil {
		return nil, err
	}
	return NewSerialTransportFromPort(port, factory, path, mode), nil
}
