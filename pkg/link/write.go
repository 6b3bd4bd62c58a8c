package link

import (
	"fmt"

	"github.com/samsamfire/goseriallink/pkg/frame"
)

// Write sends one payload as an information frame and blocks until the
// peer acknowledges it. A REJ triggers an immediate retransmission with a
// fresh timer, a timeout retransmits until the budget is exhausted.
// Returns the number of payload octets delivered.
func (s *Session) Write(payload []byte) (int, error) {
	if len(payload) > frame.MaxPayloadSize {
		return 0, ErrPayloadTooLarge
	}
	iframe := frame.Information(s.sequence, payload)
	watcher := frame.NewSupervisoryWatcher(frame.AddrTx,
		frame.CtrlRr0, frame.CtrlRr1, frame.CtrlRej0, frame.CtrlRej1)

	if err := s.sendFrame(iframe); err != nil {
		return 0, fmt.Errorf("write: %w", err)
	}
	s.timer.Arm(s.timeout)
	attempts := uint(0)
	for {
		b, ok, err := s.port.ReadByte()
		if err != nil {
			return 0, fmt.Errorf("write: %w", err)
		}
		if ok {
			if done, ctrl := watcher.Feed(b); done {
				watcher.Reset()
				switch ctrl {
				case frame.CtrlRr(s.sequence ^ 1):
					// ready for next, frame was delivered
					s.timer.Cancel()
					s.sequence ^= 1
					return len(payload), nil
				case frame.CtrlRr(s.sequence):
					// duplicate acknowledgement of the previous frame
					s.logger.Debug("duplicate RR ignored", "seq", s.sequence)
				case frame.CtrlRej(s.sequence):
					s.logger.Warn("REJ received, resending", "seq", s.sequence)
					s.stats.Retransmissions++
					if err := s.sendFrame(iframe); err != nil {
						return 0, fmt.Errorf("write: %w", err)
					}
					s.timer.Arm(s.timeout)
				default:
					// stale reject for the other sequence bit
					s.logger.Debug("stale REJ ignored", "ctrl", ctrl)
				}
			}
		}
		if s.timer.Expired() {
			attempts++
			if attempts > s.maxRetransmissions {
				s.stats.Timeouts++
				return 0, fmt.Errorf("write: %w", ErrTimeout)
			}
			s.logger.Warn("no acknowledgement, resending", "seq", s.sequence, "attempt", attempts)
			s.stats.Retransmissions++
			watcher.Reset()
			if err := s.sendFrame(iframe); err != nil {
				return 0, fmt.Errorf("write: %w", err)
			}
			s.timer.Arm(s.timeout)
		}
	}
}
