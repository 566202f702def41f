package pipe

import (
	"fmt"
	"sync"
)

// ring adapts a Storage into the Pipe contract with circular addressing.
//
// head and tail are monotonic byte counters: head is the total number of
// bytes consumed, tail the total produced, and head <= tail <=
// head+capacity holds at all times. The physical position of a counter is
// the counter modulo capacity; a transfer that straddles the physical end
// of the store splits into two storage calls. Counters advance only after
// the storage call succeeded, so a failed call leaves the pipe unchanged.
type ring struct {
	mu       sync.Mutex
	store    Storage
	capacity int64
	head     int64
	tail     int64
	closed   bool
}

func newRing(store Storage, capacity int64) *ring {
	return &ring{store: store, capacity: capacity}
}

func (r *ring) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return 0, fmt.Errorf("pipe: write to closed pipe: %w", ErrClosed)
	}

	n := int64(len(p))
	if avail := r.capacity - (r.tail - r.head); n > avail {
		n = avail
	}
	if n == 0 {
		return 0, nil
	}

	pos := r.tail % r.capacity
	if pos+n <= r.capacity {
		if _, err := r.store.WriteAt(p[:n], pos); err != nil {
			return 0, fmt.Errorf("pipe: storage write: %w", err)
		}
	} else {
		first := r.capacity - pos
		if _, err := r.store.WriteAt(p[:first], pos); err != nil {
			return 0, fmt.Errorf("pipe: storage write: %w", err)
		}
		if _, err := r.store.WriteAt(p[first:n], 0); err != nil {
			return 0, fmt.Errorf("pipe: storage write: %w", err)
		}
	}

	r.tail += n
	return int(n), nil
}

func (r *ring) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return 0, fmt.Errorf("pipe: read from closed pipe: %w", ErrClosed)
	}

	n := int64(len(p))
	if avail := r.tail - r.head; n > avail {
		n = avail
	}
	if n == 0 {
		return 0, nil
	}

	pos := r.head % r.capacity
	if pos+n <= r.capacity {
		if _, err := r.store.ReadAt(p[:n], pos); err != nil {
			return 0, fmt.Errorf("pipe: storage read: %w", err)
		}
	} else {
		first := r.capacity - pos
		if _, err := r.store.ReadAt(p[:first], pos); err != nil {
			return 0, fmt.Errorf("pipe: storage read: %w", err)
		}
		if _, err := r.store.ReadAt(p[first:n], 0); err != nil {
			return 0, fmt.Errorf("pipe: storage read: %w", err)
		}
	}

	r.head += n
	return int(n), nil
}

func (r *ring) Full() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tail-r.head == r.capacity
}

func (r *ring) Empty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.head == r.tail
}

func (r *ring) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	if err := r.store.Close(); err != nil {
		return fmt.Errorf("pipe: close storage: %w", err)
	}
	return nil
}
