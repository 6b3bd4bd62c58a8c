package virtual

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, p *Port, n int) []byte {
	t.Helper()
	out := make([]byte, 0, n)
	for len(out) < n {
		b, ok, err := p.ReadByte()
		require.NoError(t, err)
		if ok {
			out = append(out, b)
		}
	}
	return out
}

func TestPipeCarriesOctetsBothWays(t *testing.T) {
	a, b := Pipe()
	n, err := a.Write([]byte{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []byte{1, 2, 3}, readAll(t, b, 3))

	n, err = b.Write([]byte{9})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []byte{9}, readAll(t, a, 1))
}

func TestReadByteIdle(t *testing.T) {
	a, _ := Pipe()
	_, ok, err := a.ReadByte()
	assert.False(t, ok)
	assert.NoError(t, err)
}

func TestCloseDrainsInFlightOctets(t *testing.T) {
	a, b := Pipe()
	_, err := a.Write([]byte{5, 6})
	require.NoError(t, err)
	require.NoError(t, a.Close())
	// octets written before the close stay readable
	assert.Equal(t, []byte{5, 6}, readAll(t, b, 2))
	_, _, err = b.ReadByte()
	assert.ErrorIs(t, err, ErrClosed)
	_, err = b.Write([]byte{1})
	assert.ErrorIs(t, err, ErrClosed)
}
