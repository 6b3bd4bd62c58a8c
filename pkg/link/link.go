// Package link implements the data link layer : connection setup and
// teardown handshakes, stop-and-wait delivery of bounded payloads with
// alternating bit sequence numbers, timed retransmissions and duplicate
// rejection. A session owns its serial port and must be driven from a
// single goroutine, one operation at a time.
package link

import (
	"errors"
	"log/slog"
	"time"

	seriallink "github.com/samsamfire/goseriallink"
	"github.com/samsamfire/goseriallink/pkg/frame"
)

var (
	ErrTimeout         = errors.New("retransmission budget exhausted")
	ErrPayloadTooLarge = errors.New("payload exceeds maximum frame size")
)

// Session role
type Role uint8

const (
	RoleTransmitter Role = iota
	RoleReceiver
)

func (r Role) String() string {
	if r == RoleTransmitter {
		return "transmitter"
	}
	return "receiver"
}

const (
	DefaultTimeout            = 3 * time.Second
	DefaultMaxRetransmissions = 3
)

// Config holds the tunable parameters of a link session
type Config struct {
	Role               Role
	Timeout            time.Duration
	MaxRetransmissions uint
}

// Stats are the session counters reported on close
type Stats struct {
	FramesSent      uint
	Retransmissions uint
	Timeouts        uint
}

// A Session drives the link layer state machines over a serial port.
// Not safe for concurrent use.
type Session struct {
	port               seriallink.Port
	logger             *slog.Logger
	role               Role
	timeout            time.Duration
	maxRetransmissions uint
	timer              timer
	sequence           uint8 // next I-frame bit to send (transmitter)
	expectedSequence   uint8 // next I-frame bit accepted as new data (receiver)
	discReceived       bool
	stats              Stats
}

// NewSession creates a link session over an opened port. Zero values in
// cfg fall back to the defaults.
func NewSession(port seriallink.Port, cfg Config, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetransmissions == 0 {
		cfg.MaxRetransmissions = DefaultMaxRetransmissions
	}
	return &Session{
		port:               port,
		logger:             logger.With("service", "[LINK]"),
		role:               cfg.Role,
		timeout:            cfg.Timeout,
		maxRetransmissions: cfg.MaxRetransmissions,
	}
}

// Stats returns a copy of the session counters
func (s *Session) Stats() Stats {
	return s.stats
}

func (s *Session) sendFrame(buf []byte) error {
	_, err := s.port.Write(buf)
	if err != nil {
		return err
	}
	s.stats.FramesSent++
	return nil
}

// awaitFrame drives the watcher until a frame is recognized, without any
// timeout. Used by the receiver side which relies on the peer to retry.
func (s *Session) awaitFrame(watcher *frame.SupervisoryWatcher) (byte, error) {
	for {
		b, ok, err := s.port.ReadByte()
		if err != nil {
			return 0, err
		}
		if !ok {
			continue
		}
		if done, ctrl := watcher.Feed(b); done {
			return ctrl, nil
		}
	}
}

// awaitResponse sends cmd and drives the watcher until a response frame is
// recognized, resending cmd on every timer expiry within the
// retransmission budget.
func (s *Session) awaitResponse(cmd []byte, watcher *frame.SupervisoryWatcher) (byte, error) {
	if err := s.sendFrame(cmd); err != nil {
		return 0, err
	}
	s.timer.Arm(s.timeout)
	attempts := uint(0)
	for {
		b, ok, err := s.port.ReadByte()
		if err != nil {
			return 0, err
		}
		if ok {
			if done, ctrl := watcher.Feed(b); done {
				s.timer.Cancel()
				return ctrl, nil
			}
		}
		if s.timer.Expired() {
			attempts++
			if attempts > s.maxRetransmissions {
				s.stats.Timeouts++
				return 0, ErrTimeout
			}
			s.logger.Warn("response timeout, resending", "attempt", attempts)
			s.stats.Retransmissions++
			watcher.Reset()
			if err := s.sendFrame(cmd); err != nil {
				return 0, err
			}
			s.timer.Arm(s.timeout)
		}
	}
}
