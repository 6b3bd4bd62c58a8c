package link

import (
	"fmt"

	"github.com/samsamfire/goseriallink/pkg/frame"
)

// Close runs the four way disconnect handshake and releases the port. The
// transmitter sends DISC, awaits the receiver's DISC under the
// retransmission budget and confirms with UA. The receiver awaits DISC
// (unless one already ended a Read), answers with its own DISC and awaits
// the final UA. With showStats the session counters are logged.
func (s *Session) Close(showStats bool) error {
	var err error
	switch s.role {
	case RoleTransmitter:
		err = s.closeTransmitter()
	default:
		err = s.closeReceiver()
	}
	if closeErr := s.port.Close(); closeErr != nil && err == nil {
		err = fmt.Errorf("close: %w", closeErr)
	}
	if showStats {
		s.logger.Info("session closed",
			"framesSent", s.stats.FramesSent,
			"retransmissions", s.stats.Retransmissions,
			"timeouts", s.stats.Timeouts,
		)
	}
	return err
}

func (s *Session) closeTransmitter() error {
	disc := frame.Supervisory(frame.AddrTx, frame.CtrlDisc)
	watcher := frame.NewSupervisoryWatcher(frame.AddrRx, frame.CtrlDisc)
	if _, err := s.awaitResponse(disc, watcher); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	// final confirmation, the peer does not answer
	if err := s.sendFrame(frame.Supervisory(frame.AddrRx, frame.CtrlUa)); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	s.logger.Debug("disconnect handshake complete")
	return nil
}

func (s *Session) closeReceiver() error {
	if !s.discReceived {
		watcher := frame.NewSupervisoryWatcher(frame.AddrTx, frame.CtrlDisc)
		if _, err := s.awaitFrame(watcher); err != nil {
			return fmt.Errorf("close: %w", err)
		}
	}
	disc := frame.Supervisory(frame.AddrRx, frame.CtrlDisc)
	watcher := frame.NewSupervisoryWatcher(frame.AddrRx, frame.CtrlUa)
	if _, err := s.awaitResponse(disc, watcher); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	s.logger.Debug("disconnect handshake complete")
	return nil
}
