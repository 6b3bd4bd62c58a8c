// Package frame implements the wire codec of the link layer : supervisory
// and information frame construction, byte stuffing and the byte driven
// state machines used to recognize incoming frames.
package frame

// Frame delimiter and escape octets
const (
	Flag byte = 0x7E
	Esc  byte = 0x7D
	// XOR mask applied to an escaped octet
	escMask byte = 0x20
)

// Address field values. Commands sent by the transmitter and the responses
// confirming them carry AddrTx, commands originated by the receiver and
// their confirmations carry AddrRx.
const (
	AddrTx byte = 0x03
	AddrRx byte = 0x01
)

// Control field values
const (
	CtrlSet  byte = 0x03
	CtrlUa   byte = 0x07
	CtrlDisc byte = 0x0B
	CtrlI0   byte = 0x00
	CtrlI1   byte = 0x40
	CtrlRr0  byte = 0xAA
	CtrlRr1  byte = 0xAB
	CtrlRej0 byte = 0x54
	CtrlRej1 byte = 0x55
)

// MaxPayloadSize is the maximum number of payload octets per information
// frame, before stuffing.
const MaxPayloadSize = 1000

// CtrlI returns the information frame control octet for a sequence bit
func CtrlI(seq uint8) byte {
	if seq == 0 {
		return CtrlI0
	}
	return CtrlI1
}

// CtrlRr returns the receiver ready control octet for a sequence bit
func CtrlRr(seq uint8) byte {
	if seq == 0 {
		return CtrlRr0
	}
	return CtrlRr1
}

// CtrlRej returns the reject control octet for a sequence bit
func CtrlRej(seq uint8) byte {
	if seq == 0 {
		return CtrlRej0
	}
	return CtrlRej1
}

// SeqOfCtrl returns the sequence bit encoded in an I-frame control octet
func SeqOfCtrl(ctrl byte) uint8 {
	if ctrl == CtrlI1 {
		return 1
	}
	return 0
}

// Bcc returns the XOR of all octets in buf
func Bcc(buf []byte) byte {
	var bcc byte
	for _, b := range buf {
		bcc ^= b
	}
	return bcc
}

// Supervisory builds the five octet frame FLAG A C BCC1 FLAG
func Supervisory(addr byte, ctrl byte) []byte {
	return []byte{Flag, addr, ctrl, addr ^ ctrl, Flag}
}

// Information builds a stuffed information frame carrying payload with the
// given sequence bit. The header octets never collide with FLAG or ESC so
// only the payload and BCC2 are stuffed.
func Information(seq uint8, payload []byte) []byte {
	ctrl := CtrlI(seq)
	buf := make([]byte, 0, 2*len(payload)+7)
	buf = append(buf, Flag, AddrTx, ctrl, AddrTx^ctrl)
	buf = Stuff(buf, payload)
	buf = Stuff(buf, []byte{Bcc(payload)})
	buf = append(buf, Flag)
	return buf
}

// Stuff appends src to dst, escaping any FLAG or ESC octet
func Stuff(dst []byte, src []byte) []byte {
	for _, b := range src {
		if b == Flag || b == Esc {
			dst = append(dst, Esc, b^escMask)
		} else {
			dst = append(dst, b)
		}
	}
	return dst
}

// Unstuff decodes an escaped octet sequence
func Unstuff(src []byte) []byte {
	dst := make([]byte, 0, len(src))
	escaped := false
	for _, b := range src {
		switch {
		case escaped:
			dst = append(dst, b^escMask)
			escaped = false
		case b == Esc:
			escaped = true
		default:
			dst = append(dst, b)
		}
	}
	return dst
}
