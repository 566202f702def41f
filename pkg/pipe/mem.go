package pipe

// memStorage keeps ring data in a heap slice.
type memStorage []byte

func (m memStorage) ReadAt(p []byte, off int64) (int, error) {
	return copy(p, m[off:]), nil
}

func (m memStorage) WriteAt(p []byte, off int64) (int, error) {
	return copy(m[off:], p), nil
}

func (m memStorage) Close() error { return nil }

// Mem creates a Pipe of the given capacity buffered in heap memory.
func Mem(capacity int) Pipe {
	return newRing(memStorage(make([]byte, capacity)), int64(capacity))
}
