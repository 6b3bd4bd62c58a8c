//go:build linux

package termios

import (
	"fmt"
	"time"

	seriallink "github.com/samsamfire/goseriallink"
	sl "github.com/samsamfire/goseriallink/pkg/serial"
	"golang.org/x/sys/unix"
)

// Raw termios adapter. Configures the device exactly like the classical
// non-canonical setup : 8N1, no flow control, VMIN=0 and VTIME=0 so a read
// returns immediately with zero or one octet. The previous terminal
// settings are restored on Close.

func init() {
	sl.RegisterInterface("termios", NewPort)
}

var baudRates = map[int]uint32{
	1200:   unix.B1200,
	2400:   unix.B2400,
	4800:   unix.B4800,
	9600:   unix.B9600,
	19200:  unix.B19200,
	38400:  unix.B38400,
	57600:  unix.B57600,
	115200: unix.B115200,
	230400: unix.B230400,
}

type Port struct {
	fd  int
	old unix.Termios
}

func NewPort(device string, baudRate int) (seriallink.Port, error) {
	speed, ok := baudRates[baudRate]
	if !ok {
		return nil, fmt.Errorf("unsupported baud rate : %v", baudRate)
	}
	fd, err := unix.Open(device, unix.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open %v : %w", device, err)
	}
	old, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("failed to read terminal settings : %w", err)
	}
	tio := unix.Termios{}
	tio.Cflag = speed | unix.CS8 | unix.CLOCAL | unix.CREAD
	tio.Iflag = unix.IGNPAR
	tio.Cc[unix.VMIN] = 0
	tio.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetInt(fd, unix.TCFLSH, unix.TCIOFLUSH); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("failed to flush %v : %w", device, err)
	}
	if err := unix.IoctlSetTermios(fd, unix.TCSETS, &tio); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("failed to configure %v : %w", device, err)
	}
	return &Port{fd: fd, old: *old}, nil
}

// "ReadByte" implementation of Port interface. With VMIN=0/VTIME=0 the
// read returns at once, sleep briefly when idle to avoid spinning.
func (p *Port) ReadByte() (byte, bool, error) {
	var one [1]byte
	n, err := unix.Read(p.fd, one[:])
	if err != nil {
		return 0, false, err
	}
	if n == 0 {
		time.Sleep(time.Millisecond)
		return 0, false, nil
	}
	return one[0], true, nil
}

// "Write" implementation of Port interface, retries short writes
func (p *Port) Write(buf []byte) (int, error) {
	written := 0
	for written < len(buf) {
		n, err := unix.Write(p.fd, buf[written:])
		if err != nil {
			return written, err
		}
		written += n
	}
	return written, nil
}

// "Close" implementation of Port interface, restores the saved settings
func (p *Port) Close() error {
	err := unix.IoctlSetTermios(p.fd, unix.TCSETS, &p.old)
	if closeErr := unix.Close(p.fd); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}
