package pipe

// Mapped creates a Pipe of the given capacity backed by a memory-mapped
// temp file. It combines the speed of in-memory access with file-backed
// storage, at the cost of address space and a platform mapping. The
// mapping is torn down on Close before the file is released; a failed
// unmap is a debug warning, not a failure.
//
// On platforms without mapping support Mapped returns an error wrapping
// errors.ErrUnsupported.
func Mapped(capacity int, opts ...Option) (Pipe, error) {
	store, err := openMappedStorage(int64(capacity), opts)
	if err != nil {
		return nil, err
	}
	return newRing(store, int64(capacity)), nil
}
