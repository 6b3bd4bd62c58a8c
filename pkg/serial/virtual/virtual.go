package virtual

import (
	"errors"
	"sync"
	"time"

	seriallink "github.com/samsamfire/goseriallink"
	"github.com/samsamfire/goseriallink/internal/fifo"
)

// Virtual serial link primarily used for testing. Pipe returns the two
// connected endpoints of an in-memory full duplex line, what is written
// to one side is read octet by octet on the other.

var ErrClosed = errors.New("virtual port is closed")

const (
	queueSize    = 8192
	pollInterval = time.Millisecond
)

type queue struct {
	mu     sync.Mutex
	fifo   *fifo.Fifo
	closed bool
}

func newQueue() *queue {
	return &queue{fifo: fifo.NewFifo(queueSize)}
}

func (q *queue) push(buf []byte) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	written := 0
	for written < len(buf) {
		if q.closed {
			return written, ErrClosed
		}
		n := q.fifo.Write(buf[written:])
		written += n
		if n == 0 {
			// queue full, wait for the reader to drain
			q.mu.Unlock()
			time.Sleep(pollInterval)
			q.mu.Lock()
		}
	}
	return written, nil
}

func (q *queue) pop() (byte, bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var one [1]byte
	if q.fifo.Read(one[:]) == 1 {
		return one[0], true, nil
	}
	if q.closed {
		return 0, false, ErrClosed
	}
	return 0, false, nil
}

func (q *queue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
}

type Port struct {
	rx *queue
	tx *queue
}

// Pipe creates two connected virtual ports
func Pipe() (*Port, *Port) {
	ab := newQueue()
	ba := newQueue()
	return &Port{rx: ba, tx: ab}, &Port{rx: ab, tx: ba}
}

// "ReadByte" implementation of Port interface
func (p *Port) ReadByte() (byte, bool, error) {
	b, ok, err := p.rx.pop()
	if !ok && err == nil {
		time.Sleep(pollInterval)
	}
	return b, ok, err
}

// "Write" implementation of Port interface
func (p *Port) Write(buf []byte) (int, error) {
	return p.tx.push(buf)
}

// "Close" implementation of Port interface. Octets already in flight stay
// readable by the peer, further operations on either side fail.
func (p *Port) Close() error {
	p.rx.close()
	p.tx.close()
	return nil
}

// interface guard
var _ seriallink.Port = (*Port)(nil)
