package pipe

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

// closeCounter wraps a Pipe and counts Close calls.
type closeCounter struct {
	Pipe
	closes int
}

func (c *closeCounter) Close() error {
	c.closes++
	return c.Pipe.Close()
}

func TestElasticEscalation(t *testing.T) {
	var made []*closeCounter
	p := ElasticFunc(func() (Pipe, error) {
		d := &closeCounter{Pipe: Mem(4)}
		made = append(made, d)
		return d, nil
	})
	defer p.Close()

	n, err := p.Write([]byte{1, 2, 3, 4, 5, 6})
	if n != 6 || err != nil {
		t.Fatalf("write=%d err=%v", n, err)
	}
	if len(made) != 2 {
		t.Fatalf("delegates=%d, want 2", len(made))
	}
	if p.Full() {
		t.Error("elastic pipe reported full")
	}

	var got []byte
	buf := make([]byte, 4)
	for len(got) < 6 {
		rn, err := p.Read(buf)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if rn == 0 {
			t.Fatal("read stalled with data buffered")
		}
		got = append(got, buf[:rn]...)
	}
	if !bytes.Equal(got, []byte{1, 2, 3, 4, 5, 6}) {
		t.Errorf("got=%v", got)
	}

	// One more read dequeues and closes the drained first delegate.
	if rn, err := p.Read(buf); rn != 0 || err != nil {
		t.Fatalf("read=%d err=%v", rn, err)
	}
	if made[0].closes != 1 {
		t.Errorf("first delegate closes=%d, want 1", made[0].closes)
	}
	if made[1].closes != 0 {
		t.Errorf("second delegate closed early")
	}
}

func TestElasticNeverFull(t *testing.T) {
	p := ElasticFunc(func() (Pipe, error) {
		return Mem(1 << 12), nil
	})
	defer p.Close()

	src := make([]byte, 1<<20)
	for i := range src {
		src[i] = byte(i * 7)
	}
	n, err := p.Write(src)
	if n != len(src) || err != nil {
		t.Fatalf("write=%d err=%v", n, err)
	}
	if p.Full() {
		t.Error("elastic pipe reported full")
	}

	got := make([]byte, 0, len(src))
	buf := make([]byte, 8<<10)
	for !p.Empty() {
		rn, err := p.Read(buf)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		got = append(got, buf[:rn]...)
	}
	if !bytes.Equal(got, src) {
		t.Error("bytes differ across delegate boundaries")
	}
}

func TestElasticEmptyRead(t *testing.T) {
	p := ElasticFunc(func() (Pipe, error) { return Mem(4), nil })
	defer p.Close()

	if n, err := p.Read(make([]byte, 4)); n != 0 || err != nil {
		t.Errorf("read on fresh pipe: n=%d err=%v", n, err)
	}
	if !p.Empty() {
		t.Error("fresh pipe not empty")
	}
}

func TestElasticClose(t *testing.T) {
	var made []*closeCounter
	p := ElasticFunc(func() (Pipe, error) {
		d := &closeCounter{Pipe: Mem(4)}
		made = append(made, d)
		return d, nil
	})
	if _, err := p.Write(make([]byte, 10)); err != nil {
		t.Fatal(err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
	for i, d := range made {
		if d.closes != 1 {
			t.Errorf("delegate %d closes=%d, want 1", i, d.closes)
		}
	}
	if _, err := p.Write([]byte{1}); !errors.Is(err, ErrClosed) {
		t.Errorf("write after close: %v", err)
	}
}

func TestElasticCloseContinuesOnFailure(t *testing.T) {
	boom := errors.New("boom")
	var made []*closeCounter
	p := ElasticFunc(func() (Pipe, error) {
		d := &closeCounter{Pipe: failingClosePipe{Mem(4), boom}}
		made = append(made, d)
		return d, nil
	})
	if _, err := p.Write(make([]byte, 10)); err != nil {
		t.Fatal(err)
	}
	err := p.Close()
	if !errors.Is(err, boom) {
		t.Errorf("close error=%v, want wrapped boom", err)
	}
	for i, d := range made {
		if d.closes != 1 {
			t.Errorf("delegate %d skipped by earlier close failure", i)
		}
	}
}

// failingClosePipe fails Close with a fixed error.
type failingClosePipe struct {
	Pipe
	err error
}

func (f failingClosePipe) Close() error {
	f.Pipe.Close()
	return f.err
}

func TestElasticProducerError(t *testing.T) {
	boom := errors.New("no more storage")
	p := ElasticFunc(func() (Pipe, error) { return nil, boom })
	defer p.Close()

	if _, err := p.Write([]byte{1}); !errors.Is(err, boom) {
		t.Errorf("write error=%v, want wrapped producer error", err)
	}
}

func TestElasticDefault(t *testing.T) {
	p := Elastic()
	defer p.Close()

	// Enough to fill the memory stage and escalate.
	src := make([]byte, 600<<10)
	for i := range src {
		src[i] = byte(i % 251)
	}
	n, err := p.Write(src)
	if n != len(src) || err != nil {
		t.Fatalf("write=%d err=%v", n, err)
	}

	got, err := io.ReadAll(nonBlockingReader{p})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, src) {
		t.Error("bytes differ after escalation")
	}
}

// nonBlockingReader adapts the zero-on-empty Read contract to io.Reader
// for io.ReadAll in tests.
type nonBlockingReader struct{ p Pipe }

func (r nonBlockingReader) Read(p []byte) (int, error) {
	n, err := r.p.Read(p)
	if err != nil {
		return n, err
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}
