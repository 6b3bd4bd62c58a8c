package frame

// Supervisory watcher states
type svState uint8

const (
	svStart svState = iota
	svFlagRcv
	svARcv
	svCRcv
	svBccOk
)

// SupervisoryWatcher recognizes one supervisory frame with the expected
// address and one of the accepted control octets, fed one octet at a time.
// Any octet that does not fit the expected frame restarts the watcher, a
// FLAG seen mid frame restarts framing instead.
type SupervisoryWatcher struct {
	state    svState
	addr     byte
	accepted []byte
	ctrl     byte
}

func NewSupervisoryWatcher(addr byte, accepted ...byte) *SupervisoryWatcher {
	return &SupervisoryWatcher{addr: addr, accepted: accepted}
}

func (w *SupervisoryWatcher) Reset() {
	w.state = svStart
}

func (w *SupervisoryWatcher) accepts(b byte) bool {
	for _, c := range w.accepted {
		if b == c {
			return true
		}
	}
	return false
}

// Feed advances the watcher with one received octet. done is true when a
// complete frame was recognized and ctrl holds its control octet.
func (w *SupervisoryWatcher) Feed(b byte) (done bool, ctrl byte) {
	switch w.state {
	case svStart:
		if b == Flag {
			w.state = svFlagRcv
		}
	case svFlagRcv:
		switch {
		case b == Flag:
			// stay, repeated flags are allowed between frames
		case b == w.addr:
			w.state = svARcv
		default:
			w.state = svStart
		}
	case svARcv:
		switch {
		case b == Flag:
			w.state = svFlagRcv
		case w.accepts(b):
			w.ctrl = b
			w.state = svCRcv
		case b == w.addr:
			// repeated address octet
		default:
			w.state = svStart
		}
	case svCRcv:
		switch {
		case b == Flag:
			w.state = svFlagRcv
		case b == w.addr^w.ctrl:
			w.state = svBccOk
		default:
			w.state = svStart
		}
	case svBccOk:
		w.state = svStart
		if b == Flag {
			return true, w.ctrl
		}
	}
	return false, 0
}

// Receiver states, the supervisory states plus payload handling
type rxState uint8

const (
	rxStart rxState = iota
	rxFlagRcv
	rxARcv
	rxCRcv
	rxDiscBcc
	rxReading
	rxEscaped
)

// A Frame as reconstructed by the Receiver
type Frame struct {
	Ctrl    byte
	Seq     uint8
	Payload []byte
	BccOk   bool
}

// Receiver is the payload aware state machine of the read side. It accepts
// information frames and DISC commands with address AddrTx, unstuffing the
// payload on the fly and checking BCC2 over the reconstructed octets.
// Frames failing the header check are dropped silently, frames failing the
// payload check are reported with BccOk false so the caller can reject.
type Receiver struct {
	state   rxState
	ctrl    byte
	payload []byte
}

func NewReceiver() *Receiver {
	return &Receiver{payload: make([]byte, 0, MaxPayloadSize+1)}
}

func (r *Receiver) Reset() {
	r.state = rxStart
	r.payload = r.payload[:0]
}

// restart drops the frame in progress, keeping flag synchronisation
func (r *Receiver) restart(flagSeen bool) {
	r.payload = r.payload[:0]
	if flagSeen {
		r.state = rxFlagRcv
	} else {
		r.state = rxStart
	}
}

// Feed advances the receiver with one octet, returning a completed frame
// when the closing FLAG of a valid header is reached.
func (r *Receiver) Feed(b byte) (*Frame, bool) {
	switch r.state {
	case rxStart:
		if b == Flag {
			r.state = rxFlagRcv
		}
	case rxFlagRcv:
		switch {
		case b == Flag:
		case b == AddrTx:
			r.state = rxARcv
		default:
			r.state = rxStart
		}
	case rxARcv:
		switch {
		case b == Flag:
			r.state = rxFlagRcv
		case b == CtrlI0 || b == CtrlI1 || b == CtrlDisc:
			r.ctrl = b
			r.state = rxCRcv
		case b == AddrTx:
			// repeated address octet
		default:
			r.state = rxStart
		}
	case rxCRcv:
		switch {
		case b == Flag:
			r.state = rxFlagRcv
		case b != AddrTx^r.ctrl:
			// BCC1 mismatch, drop silently
			r.state = rxStart
		case r.ctrl == CtrlDisc:
			r.state = rxDiscBcc
		default:
			r.payload = r.payload[:0]
			r.state = rxReading
		}
	case rxDiscBcc:
		r.state = rxStart
		if b == Flag {
			return &Frame{Ctrl: CtrlDisc, BccOk: true}, true
		}
	case rxReading:
		switch {
		case b == Flag:
			if len(r.payload) == 0 {
				// no BCC2 received, malformed
				r.restart(true)
				return nil, false
			}
			n := len(r.payload) - 1
			bcc2 := r.payload[n]
			payload := make([]byte, n)
			copy(payload, r.payload[:n])
			f := &Frame{
				Ctrl:    r.ctrl,
				Seq:     SeqOfCtrl(r.ctrl),
				Payload: payload,
				BccOk:   Bcc(payload) == bcc2,
			}
			r.restart(false)
			return f, true
		case b == Esc:
			r.state = rxEscaped
		default:
			r.append(b)
		}
	case rxEscaped:
		if b == Flag {
			// escape followed by flag is a framing violation
			r.restart(true)
		} else {
			r.append(b ^ escMask)
			r.state = rxReading
		}
	}
	return nil, false
}

func (r *Receiver) append(b byte) {
	if len(r.payload) > MaxPayloadSize {
		// oversized frame, resynchronize on the next flag
		r.restart(false)
		return
	}
	r.payload = append(r.payload, b)
}
