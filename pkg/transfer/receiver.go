package transfer

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/samsamfire/goseriallink/pkg/link"
)

// A Receiver reassembles files from an open link session
type Receiver struct {
	sess   *link.Session
	logger *slog.Logger
}

func NewReceiver(sess *link.Session, logger *slog.Logger) *Receiver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Receiver{
		sess:   sess,
		logger: logger.With("service", "[RX]"),
	}
}

// ReceiveFile reads packets until END and writes the file to path. The
// size announced by START must match END and the octet count received.
func (r *Receiver) ReceiveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("receive: %w", err)
	}
	receiveErr := r.receive(f)
	if err := f.Close(); err != nil && receiveErr == nil {
		receiveErr = fmt.Errorf("receive: %w", err)
	}
	return receiveErr
}

func (r *Receiver) receive(w io.Writer) error {
	size, err := r.awaitStart()
	if err != nil {
		return err
	}
	r.logger.Info("transfer started", "octets", size)
	var received uint64
	packets := 0
	for {
		p, err := r.sess.Read()
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w : got %v of %v octets", ErrTransferIncomplete, received, size)
		}
		if err != nil {
			return fmt.Errorf("receive: %w", err)
		}
		if len(p) == 0 {
			return fmt.Errorf("receive: %w : empty packet", ErrMalformedPacket)
		}
		switch p[0] {
		case packetData:
			chunk, err := parseData(p)
			if err != nil {
				return fmt.Errorf("receive: %w", err)
			}
			if _, err := w.Write(chunk); err != nil {
				return fmt.Errorf("receive: %w", err)
			}
			received += uint64(len(chunk))
			packets++
			r.logger.Debug("chunk received", "octets", len(chunk), "total", received)
		case packetEnd:
			endSize, err := parseControl(p)
			if err != nil {
				return fmt.Errorf("receive: %w", err)
			}
			if endSize != size || received != size {
				return fmt.Errorf("%w : START %v, END %v, received %v",
					ErrSizeMismatch, size, endSize, received)
			}
			r.logger.Info("file received", "octets", received, "packets", packets)
			return nil
		default:
			return fmt.Errorf("receive: %w : %v", ErrUnexpectedPacket, p[0])
		}
	}
}

func (r *Receiver) awaitStart() (uint64, error) {
	p, err := r.sess.Read()
	if errors.Is(err, io.EOF) {
		return 0, ErrTransferIncomplete
	}
	if err != nil {
		return 0, fmt.Errorf("receive: %w", err)
	}
	if len(p) == 0 || p[0] != packetStart {
		return 0, fmt.Errorf("receive: %w : expected START", ErrUnexpectedPacket)
	}
	size, err := parseControl(p)
	if err != nil {
		return 0, fmt.Errorf("receive: %w", err)
	}
	return size, nil
}
