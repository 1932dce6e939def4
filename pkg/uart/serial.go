package uart

import (
	"github.com/tarm/serial"
)

// DefaultBaud is the line rate of the device protocol: 115200 8N1, no
// flow control.
const DefaultBaud = 115200

// SerialPort adapts a host serial port to Transport.
type SerialPort struct {
	port *serial.Port
}

// OpenSerial opens a host serial device.
func OpenSerial(device string, baud int) (*SerialPort, error) {
	if baud == 0 {
		baud = DefaultBaud
	}
	port, err := serial.OpenPort(&serial.Config{Name: device, Baud: baud})
	if err != nil {
		return nil, err
	}
	return &SerialPort{port: port}, nil
}

// Read implements io.Reader.
func (p *SerialPort) Read(buf []byte) (int, error) {
	return p.port.Read(buf)
}

// Write implements Transport.
func (p *SerialPort) Write(buf []byte) (int, error) {
	return p.port.Write(buf)
}

// FlushInput implements Transport.
func (p *SerialPort) FlushInput() error {
	return p.port.Flush()
}

// Close closes the port.
func (p *SerialPort) Close() error {
	return p.port.Close()
}
