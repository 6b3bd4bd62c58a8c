package transfer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestControlPacketLayout(t *testing.T) {
	p := controlPacket(packetStart, 2500)
	assert.Equal(t, []byte{2, 0, 8, 0, 0, 0, 0, 0, 0, 0x09, 0xC4}, p)
	p = controlPacket(packetEnd, 2500)
	assert.EqualValues(t, packetEnd, p[0])
	size, err := parseControl(p)
	assert.Nil(t, err)
	assert.EqualValues(t, 2500, size)
}

func TestControlPacketMalformed(t *testing.T) {
	_, err := parseControl([]byte{2, 0, 8})
	assert.ErrorIs(t, err, ErrMalformedPacket)
	p := controlPacket(packetStart, 10)
	p[1] = 5 // unknown parameter type
	_, err = parseControl(p)
	assert.ErrorIs(t, err, ErrMalformedPacket)
	p = controlPacket(packetStart, 10)
	p[2] = 4 // wrong parameter length
	_, err = parseControl(p)
	assert.ErrorIs(t, err, ErrMalformedPacket)
}

func TestDataPacketLayout(t *testing.T) {
	p := dataPacket([]byte{0xDE, 0xAD, 0xBE})
	assert.Equal(t, []byte{1, 0, 3, 0xDE, 0xAD, 0xBE}, p)
	chunk, err := parseData(p)
	assert.Nil(t, err)
	assert.Equal(t, []byte{0xDE, 0xAD, 0xBE}, chunk)
}

func TestDataPacketLongChunk(t *testing.T) {
	chunk := make([]byte, 300)
	for i := range chunk {
		chunk[i] = byte(i)
	}
	p := dataPacket(chunk)
	assert.EqualValues(t, 1, p[1])  // 300 >> 8
	assert.EqualValues(t, 44, p[2]) // 300 & 0xFF
	parsed, err := parseData(p)
	assert.Nil(t, err)
	assert.Equal(t, chunk, parsed)
}

func TestDataPacketMalformed(t *testing.T) {
	_, err := parseData([]byte{1, 0})
	assert.ErrorIs(t, err, ErrMalformedPacket)
	p := dataPacket([]byte{1, 2, 3})
	p[2] = 5 // length field does not match
	_, err = parseData(p)
	assert.ErrorIs(t, err, ErrMalformedPacket)
}
