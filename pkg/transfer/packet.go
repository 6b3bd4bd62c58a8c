// Package transfer implements the application layer : files are fragmented
// into data packets bracketed by START and END control packets carrying the
// file size, and reassembled on the receiving side.
package transfer

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/samsamfire/goseriallink/pkg/frame"
)

// Packet type identifiers
const (
	packetData  byte = 1
	packetStart byte = 2
	packetEnd   byte = 3
)

const (
	// The single parameter carried by control packets : T=0, L=8,
	// file size as a big endian 64 bit value.
	paramFileSize    byte = 0
	paramFileSizeLen byte = 8
	controlPacketLen      = 11
	dataHeaderLen         = 3
	// MaxChunkSize is the file data carried per packet, after the
	// data packet header is accounted for.
	MaxChunkSize = frame.MaxPayloadSize - dataHeaderLen
)

var (
	ErrMalformedPacket    = errors.New("malformed packet")
	ErrUnexpectedPacket   = errors.New("unexpected packet type")
	ErrSizeMismatch       = errors.New("file size mismatch")
	ErrTransferIncomplete = errors.New("link closed before END packet")
)

// controlPacket builds a START or END packet carrying the file size
func controlPacket(kind byte, fileSize uint64) []byte {
	buf := make([]byte, controlPacketLen)
	buf[0] = kind
	buf[1] = paramFileSize
	buf[2] = paramFileSizeLen
	binary.BigEndian.PutUint64(buf[3:], fileSize)
	return buf
}

// dataPacket builds a data packet, the header carries the chunk length
// as two octets, high first
func dataPacket(chunk []byte) []byte {
	buf := make([]byte, dataHeaderLen+len(chunk))
	buf[0] = packetData
	buf[1] = byte(len(chunk) >> 8)
	buf[2] = byte(len(chunk))
	copy(buf[dataHeaderLen:], chunk)
	return buf
}

// parseControl extracts the file size from a START or END packet
func parseControl(p []byte) (uint64, error) {
	if len(p) != controlPacketLen || p[1] != paramFileSize || p[2] != paramFileSizeLen {
		return 0, fmt.Errorf("%w : invalid control packet", ErrMalformedPacket)
	}
	return binary.BigEndian.Uint64(p[3:]), nil
}

// parseData extracts the chunk from a data packet
func parseData(p []byte) ([]byte, error) {
	if len(p) < dataHeaderLen {
		return nil, fmt.Errorf("%w : data packet too short", ErrMalformedPacket)
	}
	length := int(p[1])<<8 | int(p[2])
	if length != len(p)-dataHeaderLen {
		return nil, fmt.Errorf("%w : length field %v does not match %v octets",
			ErrMalformedPacket, length, len(p)-dataHeaderLen)
	}
	return p[dataHeaderLen:], nil
}
