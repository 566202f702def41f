package pipe

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// Option configures file-backed pipe construction.
type Option func(*fileConfig)

type fileConfig struct {
	dir      string
	file     *os.File
	keepFile bool
}

// WithDir places the backing temp file in dir instead of the default
// temp directory.
func WithDir(dir string) Option {
	return func(c *fileConfig) { c.dir = dir }
}

// WithFile uses f as the backing file instead of creating a temp file.
// The pipe takes ownership of f and closes it on Close.
func WithFile(f *os.File) Option {
	return func(c *fileConfig) { c.file = f }
}

// WithKeepFile leaves the backing file on disk after Close.
func WithKeepFile() Option {
	return func(c *fileConfig) { c.keepFile = true }
}

// fileStorage is a Storage over a random-access file. Close removes the
// file unless keep is set; a failed remove is a debug warning, since the
// data has already been released.
type fileStorage struct {
	f    *os.File
	keep bool
}

func openFileStorage(opts []Option) (*fileStorage, error) {
	var c fileConfig
	for _, o := range opts {
		o(&c)
	}
	f := c.file
	if f == nil {
		var err error
		f, err = os.CreateTemp(c.dir, "flowpipe-*.dat")
		if err != nil {
			return nil, fmt.Errorf("pipe: create temp file: %w", err)
		}
	}
	return &fileStorage{f: f, keep: c.keepFile}, nil
}

func (s *fileStorage) ReadAt(p []byte, off int64) (int, error) {
	return s.f.ReadAt(p, off)
}

func (s *fileStorage) WriteAt(p []byte, off int64) (int, error) {
	return s.f.WriteAt(p, off)
}

func (s *fileStorage) Close() error {
	name := s.f.Name()
	err := s.f.Close()
	if !s.keep {
		if rmErr := os.Remove(name); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			slog.Debug("pipe: remove backing file", "path", name, "err", rmErr)
		}
	}
	if err != nil {
		return fmt.Errorf("pipe: close backing file: %w", err)
	}
	return nil
}

// File creates a Pipe of the given capacity backed by a random-access
// file. By default a fresh temp file is created and removed on Close;
// see WithDir, WithFile and WithKeepFile. The file grows sparsely, so
// very large capacities only consume disk for bytes actually in flight.
func File(capacity int64, opts ...Option) (Pipe, error) {
	store, err := openFileStorage(opts)
	if err != nil {
		return nil, err
	}
	return newRing(store, capacity), nil
}
