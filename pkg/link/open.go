package link

import (
	"fmt"

	"github.com/samsamfire/goseriallink/pkg/frame"
)

// Open performs the connection handshake for the session role. The
// transmitter sends SET and waits for UA under the retransmission budget,
// the receiver waits for SET and confirms with UA.
func (s *Session) Open() error {
	switch s.role {
	case RoleTransmitter:
		return s.openTransmitter()
	default:
		return s.openReceiver()
	}
}

func (s *Session) openTransmitter() error {
	set := frame.Supervisory(frame.AddrTx, frame.CtrlSet)
	watcher := frame.NewSupervisoryWatcher(frame.AddrTx, frame.CtrlUa)
	if _, err := s.awaitResponse(set, watcher); err != nil {
		return fmt.Errorf("open: %w", err)
	}
	s.logger.Info("connection established", "role", s.role.String())
	return nil
}

func (s *Session) openReceiver() error {
	watcher := frame.NewSupervisoryWatcher(frame.AddrTx, frame.CtrlSet)
	if _, err := s.awaitFrame(watcher); err != nil {
		return fmt.Errorf("open: %w", err)
	}
	if err := s.sendFrame(frame.Supervisory(frame.AddrTx, frame.CtrlUa)); err != nil {
		return fmt.Errorf("open: %w", err)
	}
	s.logger.Info("connection established", "role", s.role.String())
	return nil
}
