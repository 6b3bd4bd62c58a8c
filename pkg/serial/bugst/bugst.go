package bugst

import (
	"fmt"
	"time"

	seriallink "github.com/samsamfire/goseriallink"
	sl "github.com/samsamfire/goseriallink/pkg/serial"
	"go.bug.st/serial"
)

// Portable serial port adapter, it uses the implementation
// that can be found here : https://github.com/bugst/go-serial

func init() {
	sl.RegisterInterface("serial", NewPort)
}

type Port struct {
	port serial.Port
}

// NewPort opens the device in raw 8N1 mode with a short read timeout so
// that ReadByte blocks only briefly when the line is idle.
func NewPort(device string, baudRate int) (seriallink.Port, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open %v : %w", device, err)
	}
	if err := port.SetReadTimeout(100 * time.Millisecond); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to set read timeout : %w", err)
	}
	return &Port{port: port}, nil
}

// "ReadByte" implementation of Port interface
func (p *Port) ReadByte() (byte, bool, error) {
	var one [1]byte
	n, err := p.port.Read(one[:])
	if err != nil {
		return 0, false, err
	}
	if n == 0 {
		return 0, false, nil
	}
	return one[0], true, nil
}

// "Write" implementation of Port interface, retries short writes
func (p *Port) Write(buf []byte) (int, error) {
	written := 0
	for written < len(buf) {
		n, err := p.port.Write(buf[written:])
		if err != nil {
			return written, err
		}
		written += n
	}
	return written, nil
}

// "Close" implementation of Port interface
func (p *Port) Close() error {
	return p.port.Close()
}
