package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func feedAll(w *SupervisoryWatcher, buf []byte) (bool, byte) {
	for _, b := range buf {
		if done, ctrl := w.Feed(b); done {
			return true, ctrl
		}
	}
	return false, 0
}

func TestWatcherAcceptsFrameWithNoise(t *testing.T) {
	w := NewSupervisoryWatcher(AddrTx, CtrlUa)
	noise := []byte{0x55, 0x03, 0x07, 0xFF}
	done, _ := feedAll(w, noise)
	assert.False(t, done)
	done, ctrl := feedAll(w, Supervisory(AddrTx, CtrlUa))
	assert.True(t, done)
	assert.Equal(t, CtrlUa, ctrl)
}

func TestWatcherRejectsBadBcc(t *testing.T) {
	w := NewSupervisoryWatcher(AddrTx, CtrlUa)
	bad := []byte{0x7E, 0x03, 0x07, 0x05, 0x7E}
	done, _ := feedAll(w, bad)
	assert.False(t, done)
	// a following valid frame is still recognized
	done, ctrl := feedAll(w, Supervisory(AddrTx, CtrlUa))
	assert.True(t, done)
	assert.Equal(t, CtrlUa, ctrl)
}

func TestWatcherFlagRestartsFraming(t *testing.T) {
	w := NewSupervisoryWatcher(AddrTx, CtrlUa)
	// truncated frame, the flag resynchronizes and the full frame follows
	buf := []byte{0x7E, 0x03, 0x07, 0x7E, 0x03, 0x07, 0x04, 0x7E}
	done, ctrl := feedAll(w, buf)
	assert.True(t, done)
	assert.Equal(t, CtrlUa, ctrl)
}

func TestWatcherRepeatedAddress(t *testing.T) {
	// address octet repeated before the control octet, allowed by the DFA
	w := NewSupervisoryWatcher(AddrTx, CtrlUa)
	done, ctrl := feedAll(w, []byte{0x7E, 0x03, 0x03, 0x07, 0x04, 0x7E})
	// 0x03 is not UA so the second 0x03 keeps the watcher in the address
	// state, then C, BCC and FLAG complete the frame
	assert.True(t, done)
	assert.Equal(t, CtrlUa, ctrl)
}

func TestWatcherDistinguishesAcknowledgements(t *testing.T) {
	for _, c := range []byte{CtrlRr0, CtrlRr1, CtrlRej0, CtrlRej1} {
		w := NewSupervisoryWatcher(AddrTx, CtrlRr0, CtrlRr1, CtrlRej0, CtrlRej1)
		done, ctrl := feedAll(w, Supervisory(AddrTx, c))
		assert.True(t, done)
		assert.Equal(t, c, ctrl)
	}
}

func feedReceiver(rx *Receiver, buf []byte) *Frame {
	for _, b := range buf {
		if f, done := rx.Feed(b); done {
			return f
		}
	}
	return nil
}

func TestReceiverDisc(t *testing.T) {
	rx := NewReceiver()
	f := feedReceiver(rx, Supervisory(AddrTx, CtrlDisc))
	assert.NotNil(t, f)
	assert.Equal(t, CtrlDisc, f.Ctrl)
	assert.True(t, f.BccOk)
}

func TestReceiverCorruptedPayload(t *testing.T) {
	rx := NewReceiver()
	buf := Information(0, []byte{0x01, 0x02, 0x03})
	buf[5] ^= 0xFF // flip one payload octet
	f := feedReceiver(rx, buf)
	assert.NotNil(t, f)
	assert.False(t, f.BccOk)
	assert.EqualValues(t, 0, f.Seq)
}

func TestReceiverBcc1MismatchDropsSilently(t *testing.T) {
	rx := NewReceiver()
	bad := Information(0, []byte{0xAA})
	bad[3] ^= 0x01 // corrupt BCC1
	f := feedReceiver(rx, bad)
	assert.Nil(t, f)
	// the receiver resynchronizes on the next frame
	f = feedReceiver(rx, Information(1, []byte{0xBB}))
	assert.NotNil(t, f)
	assert.True(t, f.BccOk)
	assert.EqualValues(t, 1, f.Seq)
	assert.Equal(t, []byte{0xBB}, f.Payload)
}

func TestReceiverIgnoresForeignControls(t *testing.T) {
	rx := NewReceiver()
	// a SET retransmission must not surface as a frame
	f := feedReceiver(rx, Supervisory(AddrTx, CtrlSet))
	assert.Nil(t, f)
	f = feedReceiver(rx, Information(0, []byte{0x10}))
	assert.NotNil(t, f)
	assert.Equal(t, []byte{0x10}, f.Payload)
}
