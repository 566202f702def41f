package spill

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/google/uuid"
)

// ErrClosed is returned when a Buffered channel is used after Close.
var ErrClosed = errors.New("spill: closed")

// drainChunk is the transfer unit between the spill file and the delegate.
const drainChunk = 32 << 10

// Buffered absorbs writes that the delegate channel cannot currently
// accept, spilling them to a private temp file and delivering them in
// order as the delegate becomes writable.
//
// head and tail are byte offsets into the spill file: tail advances as
// writers append, head advances as the drain delivers. One writer
// goroutine and the multiplexer's callback goroutine may operate on a
// Buffered concurrently; the draining flag keeps at most one drain
// running or registered at any time.
type Buffered struct {
	delegate Channel
	mux      Multiplexer
	log      *slog.Logger

	mu       sync.Mutex
	file     *os.File
	path     string
	head     int64
	tail     int64
	open     bool
	draining bool
}

// New creates a Buffered channel feeding delegate through mux, spilling
// backlog to a fresh temp file in dir (the default temp directory if dir
// is empty). The file is private to the channel and removed once the
// channel has been closed and fully drained.
func New(mux Multiplexer, delegate Channel, dir string) (*Buffered, error) {
	f, err := os.CreateTemp(dir, "spill-*.dat")
	if err != nil {
		return nil, fmt.Errorf("spill: create temp file: %w", err)
	}
	return &Buffered{
		delegate: delegate,
		mux:      mux,
		log:      slog.Default().With("channel", "ch_"+uuid.New().String()[:12]),
		file:     f,
		path:     f.Name(),
		open:     true,
	}, nil
}

// Write appends p to the spill backlog and returns len(p). It never
// blocks on the delegate: if no drain is running or registered, one is
// started inline; otherwise the in-flight drain picks the bytes up.
func (b *Buffered) Write(p []byte) (int, error) {
	b.mu.Lock()
	if !b.open {
		b.mu.Unlock()
		return 0, fmt.Errorf("spill: write to closed channel: %w", ErrClosed)
	}
	if len(p) == 0 {
		b.mu.Unlock()
		return 0, nil
	}
	if _, err := b.file.WriteAt(p, b.tail); err != nil {
		b.mu.Unlock()
		return 0, fmt.Errorf("spill: write spill file: %w", err)
	}
	b.tail += int64(len(p))
	start := !b.draining
	if start {
		b.draining = true
	}
	b.mu.Unlock()

	if start {
		if err := b.drain(); err != nil {
			return len(p), err
		}
	}
	return len(p), nil
}

// ReadFrom appends everything from r to the spill backlog, implementing
// io.ReaderFrom. Delivery to the delegate proceeds as with Write.
func (b *Buffered) ReadFrom(r io.Reader) (int64, error) {
	buf := make([]byte, drainChunk)
	var total int64
	for {
		n, err := r.Read(buf)
		if n > 0 {
			wn, werr := b.Write(buf[:n])
			total += int64(wn)
			if werr != nil {
				return total, werr
			}
		}
		if err != nil {
			if err == io.EOF {
				return total, nil
			}
			return total, fmt.Errorf("spill: read source: %w", err)
		}
	}
}

// Len returns the number of spilled bytes not yet delivered.
func (b *Buffered) Len() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tail - b.head
}

// Close marks the channel closed. If the backlog is already delivered
// and no drain is pending, the spill file is released immediately;
// otherwise the release happens when the pending drain empties the
// backlog. Close is idempotent.
func (b *Buffered) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.open {
		return nil
	}
	b.open = false
	if b.head == b.tail && !b.draining {
		return b.releaseLocked()
	}
	return nil
}

// drain moves backlog from the spill file to the delegate. It runs
// inline from Write or from a multiplexer callback; the draining flag
// guarantees a single instance. On a zero-length delegate write it
// registers a one-shot writability callback and returns with draining
// still set, covering the pending callback.
func (b *Buffered) drain() error {
	buf := make([]byte, drainChunk)
	for {
		b.mu.Lock()
		if b.file == nil {
			b.draining = false
			b.mu.Unlock()
			return nil
		}
		avail := b.tail - b.head
		if avail == 0 {
			b.draining = false
			var err error
			if !b.open {
				err = b.releaseLocked()
			}
			b.mu.Unlock()
			return err
		}
		n := avail
		if n > int64(len(buf)) {
			n = int64(len(buf))
		}
		if _, err := b.file.ReadAt(buf[:n], b.head); err != nil {
			b.draining = false
			b.mu.Unlock()
			return fmt.Errorf("spill: read spill file: %w", err)
		}
		b.mu.Unlock()

		wn, err := b.delegate.Write(buf[:n])

		b.mu.Lock()
		if wn > 0 {
			// Only the delivered prefix is acknowledged; a failed
			// remainder stays at head for the next attempt.
			b.head += int64(wn)
		}
		if err != nil {
			b.draining = false
			b.mu.Unlock()
			return fmt.Errorf("spill: write delegate: %w", err)
		}
		if wn == 0 {
			b.mu.Unlock()
			b.mux.Register(b.delegate, Writable, b.onWritable)
			return nil
		}
		b.mu.Unlock()
	}
}

// onWritable is the multiplexer callback. It has no synchronous caller
// to report to, so failures are logged and the backlog stays intact for
// the next drain.
func (b *Buffered) onWritable() {
	if err := b.drain(); err != nil {
		b.log.Error("spill: drain failed", "err", err)
	}
}

func (b *Buffered) releaseLocked() error {
	if b.file == nil {
		return nil
	}
	f := b.file
	b.file = nil
	err := f.Close()
	if rmErr := os.Remove(b.path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
		b.log.Debug("spill: remove spill file", "path", b.path, "err", rmErr)
	}
	if err != nil {
		return fmt.Errorf("spill: close spill file: %w", err)
	}
	return nil
}
