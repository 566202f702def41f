//go:build unix

package pipe

import (
	"fmt"
	"log/slog"

	"golang.org/x/sys/unix"
)

const mappedSupported = true

// mmapStorage keeps ring data in a memory-mapped file. Accesses copy
// straight to and from the mapping. Close unmaps before releasing the
// underlying file storage; the unmap must be explicit because nothing
// else ever tears the mapping down.
type mmapStorage struct {
	data []byte
	file *fileStorage
}

func openMappedStorage(capacity int64, opts []Option) (Storage, error) {
	fs, err := openFileStorage(opts)
	if err != nil {
		return nil, err
	}
	if err := fs.f.Truncate(capacity); err != nil {
		fs.Close()
		return nil, fmt.Errorf("pipe: resize mapped file: %w", err)
	}
	data, err := unix.Mmap(int(fs.f.Fd()), 0, int(capacity),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		fs.Close()
		return nil, fmt.Errorf("pipe: mmap %d bytes: %w", capacity, err)
	}
	return &mmapStorage{data: data, file: fs}, nil
}

func (s *mmapStorage) ReadAt(p []byte, off int64) (int, error) {
	return copy(p, s.data[off:]), nil
}

func (s *mmapStorage) WriteAt(p []byte, off int64) (int, error) {
	return copy(s.data[off:], p), nil
}

func (s *mmapStorage) Close() error {
	if s.data != nil {
		if err := unix.Munmap(s.data); err != nil {
			slog.Debug("pipe: munmap failed", "err", err)
		}
		s.data = nil
	}
	return s.file.Close()
}
