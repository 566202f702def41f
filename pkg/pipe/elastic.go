package pipe

import (
	"errors"
	"fmt"
	"sync"
)

// Producer supplies the next delegate pipe for an elastic pipe.
type Producer func() (Pipe, error)

// Default escalation for Elastic. A small memory stage absorbs bursts, a
// mapped temp file takes sustained backlog, and sparse file stages carry
// everything beyond that.
const (
	elasticMemCapacity    = 256 << 10
	elasticMappedCapacity = 4 << 20
	elasticFileCapacity   = 1 << 40
)

// elastic chains delegate pipes to emulate unbounded capacity. The
// newest delegate is the write target and the oldest the read target; a
// drained delegate that is not the only one left is closed and dequeued,
// so at most one delegate per end is ever active.
type elastic struct {
	mu     sync.Mutex
	next   Producer
	queue  []Pipe
	closed bool
}

// ElasticFunc creates an unbounded Pipe whose delegates come from next.
// Write never reports full: when the current delegate stops accepting
// bytes, next is asked for a fresh one and the write continues there.
// Close closes every remaining delegate.
func ElasticFunc(next Producer) Pipe {
	return &elastic{next: next}
}

// Elastic creates an unbounded Pipe with the default escalation: heap
// memory, then a memory-mapped temp file, then sparse random-access temp
// files for as long as data keeps arriving. On platforms without mapping
// support the mapped stage is skipped in favor of a file stage.
func Elastic() Pipe {
	stage := 0
	return ElasticFunc(func() (Pipe, error) {
		s := stage
		stage++
		switch {
		case s == 0:
			return Mem(elasticMemCapacity), nil
		case s == 1 && mappedSupported:
			return Mapped(elasticMappedCapacity)
		default:
			return File(elasticFileCapacity)
		}
	})
}

func (e *elastic) Write(p []byte) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return 0, fmt.Errorf("pipe: write to closed pipe: %w", ErrClosed)
	}

	total := 0
	for len(p) > 0 {
		if len(e.queue) == 0 {
			if err := e.escalateLocked(); err != nil {
				return total, err
			}
		}
		w := e.queue[len(e.queue)-1]
		n, err := w.Write(p)
		if err != nil {
			return total, err
		}
		if n == 0 {
			if err := e.escalateLocked(); err != nil {
				return total, err
			}
			w = e.queue[len(e.queue)-1]
			if n, err = w.Write(p); err != nil {
				return total, err
			}
			if n == 0 {
				return total, errors.New("pipe: fresh delegate accepted no data")
			}
		}
		total += n
		p = p[n:]
	}
	return total, nil
}

func (e *elastic) escalateLocked() error {
	d, err := e.next()
	if err != nil {
		return fmt.Errorf("pipe: create delegate: %w", err)
	}
	e.queue = append(e.queue, d)
	return nil
}

func (e *elastic) Read(p []byte) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return 0, fmt.Errorf("pipe: read from closed pipe: %w", ErrClosed)
	}

	for {
		if len(e.queue) == 0 {
			return 0, nil
		}
		h := e.queue[0]
		n, err := h.Read(p)
		if n > 0 || err != nil {
			return n, err
		}
		if len(e.queue) == 1 {
			// Sole delegate stays as the write target.
			return 0, nil
		}
		e.queue = e.queue[1:]
		if err := h.Close(); err != nil {
			return 0, fmt.Errorf("pipe: close drained delegate: %w", err)
		}
	}
}

// Full always reports false: an elastic pipe escalates instead of
// filling up.
func (e *elastic) Full() bool { return false }

func (e *elastic) Empty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, d := range e.queue {
		if !d.Empty() {
			return false
		}
	}
	return true
}

func (e *elastic) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	var errs []error
	for _, d := range e.queue {
		if err := d.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	e.queue = nil
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("pipe: close delegates: %w", err)
	}
	return nil
}
