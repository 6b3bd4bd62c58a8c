package link

import (
	"fmt"
	"io"

	"github.com/samsamfire/goseriallink/pkg/frame"
)

// Read blocks until the next fresh information frame arrives and returns
// its payload. Duplicates, corrupted or not, are acknowledged again without
// being delivered, corrupted fresh frames are rejected. There is no read
// side timer, the peer's
// retransmission logic is trusted to eventually deliver. A DISC from the
// peer ends the stream with io.EOF, the session can then be closed.
func (s *Session) Read() ([]byte, error) {
	rx := frame.NewReceiver()
	for {
		b, ok, err := s.port.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}
		if !ok {
			continue
		}
		f, done := rx.Feed(b)
		if !done {
			continue
		}
		if f.Ctrl == frame.CtrlDisc {
			s.discReceived = true
			s.logger.Debug("DISC received, end of stream")
			return nil, io.EOF
		}
		fresh := f.Seq == s.expectedSequence
		switch {
		case f.BccOk && fresh:
			s.expectedSequence ^= 1
			if err := s.ack(); err != nil {
				return nil, err
			}
			return f.Payload, nil
		case f.BccOk && !fresh:
			// retransmission of an already delivered frame, only re-ack
			s.logger.Debug("duplicate frame re-acknowledged", "seq", f.Seq)
			if err := s.ack(); err != nil {
				return nil, err
			}
		case !f.BccOk && fresh:
			s.logger.Warn("payload check failed, rejecting", "seq", f.Seq)
			if err := s.reject(); err != nil {
				return nil, err
			}
		default:
			// corrupted duplicate, the previous delivery stands
			if err := s.ack(); err != nil {
				return nil, err
			}
		}
	}
}

// ack sends RR carrying the sequence bit expected next
func (s *Session) ack() error {
	rr := frame.Supervisory(frame.AddrTx, frame.CtrlRr(s.expectedSequence))
	if err := s.sendFrame(rr); err != nil {
		return fmt.Errorf("read: %w", err)
	}
	return nil
}

// reject asks for a retransmission of the expected sequence bit
func (s *Session) reject() error {
	rej := frame.Supervisory(frame.AddrTx, frame.CtrlRej(s.expectedSequence))
	if err := s.sendFrame(rej); err != nil {
		return fmt.Errorf("read: %w", err)
	}
	return nil
}
