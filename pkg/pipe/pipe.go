package pipe

import (
	"errors"
	"io"
)

// Sentinel errors.
var (
	// ErrClosed is returned when a pipe is used after Close.
	ErrClosed = errors.New("pipe: closed")
)

// Pipe is a non-blocking bounded byte FIFO.
//
// Write and Read follow the io.Writer/io.Reader signatures but never
// block: Write stores at most as many bytes as currently fit and returns
// (0, nil) when the pipe is full; Read returns (0, nil) when the pipe is
// empty. A caller that needs to move more data retries with the
// remainder once the other side has made progress.
type Pipe interface {
	// Write stores up to len(p) bytes and returns how many were accepted.
	// (0, nil) means the pipe is currently full.
	Write(p []byte) (n int, err error)

	// Read consumes up to len(p) buffered bytes in FIFO order.
	// (0, nil) means the pipe is currently empty.
	Read(p []byte) (n int, err error)

	// Full reports whether the pipe cannot currently accept any bytes.
	Full() bool

	// Empty reports whether the pipe holds no unread bytes.
	Empty() bool

	// Close releases the backing storage. It is idempotent; operations
	// after Close fail with an error wrapping ErrClosed.
	Close() error
}

// Storage is the addressable store behind a ring-buffered Pipe.
// Positions are absolute byte offsets in [0, capacity); the ring never
// issues an access that crosses the physical end of the store.
type Storage interface {
	io.ReaderAt
	io.WriterAt
	io.Closer
}

// New creates a Pipe of the given capacity over a caller-supplied
// Storage. The pipe takes ownership of the store and closes it when the
// pipe is closed.
func New(store Storage, capacity int64) Pipe {
	return newRing(store, capacity)
}
