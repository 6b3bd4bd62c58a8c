package transfer

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/samsamfire/goseriallink/pkg/link"
)

// A Transmitter streams local files over an open link session
type Transmitter struct {
	sess      *link.Session
	logger    *slog.Logger
	chunkSize int
}

func NewTransmitter(sess *link.Session, logger *slog.Logger) *Transmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Transmitter{
		sess:      sess,
		logger:    logger.With("service", "[TX]"),
		chunkSize: MaxChunkSize,
	}
}

// SendFile transmits the file at path, bracketed by START and END packets
// carrying its size
func (t *Transmitter) SendFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("send: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("send: %w", err)
	}
	return t.send(f, uint64(info.Size()))
}

func (t *Transmitter) send(r io.Reader, size uint64) error {
	if _, err := t.sess.Write(controlPacket(packetStart, size)); err != nil {
		return fmt.Errorf("send START: %w", err)
	}
	chunk := make([]byte, t.chunkSize)
	var sent uint64
	packets := 0
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			if _, err := t.sess.Write(dataPacket(chunk[:n])); err != nil {
				return fmt.Errorf("send DATA: %w", err)
			}
			sent += uint64(n)
			packets++
			t.logger.Debug("chunk sent", "octets", n, "total", sent)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("send: %w", err)
		}
	}
	if sent != size {
		return fmt.Errorf("%w : announced %v octets, read %v", ErrSizeMismatch, size, sent)
	}
	if _, err := t.sess.Write(controlPacket(packetEnd, size)); err != nil {
		return fmt.Errorf("send END: %w", err)
	}
	t.logger.Info("file sent", "octets", sent, "packets", packets)
	return nil
}
