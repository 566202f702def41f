// Package pipe provides non-blocking bounded byte pipes over swappable
// storage backends.
//
// A Pipe is a fixed-capacity FIFO of bytes: writes store data, reads
// consume it in order, and neither ever blocks. A full pipe answers a
// write with a zero count, an empty pipe answers a read with a zero
// count; both are backpressure signals, not errors.
//
// The backing storage is pluggable:
//
//   - Mem: heap memory. Fastest, bounded by available memory.
//   - Mapped: a memory-mapped temp file. Low process memory, disk-backed.
//   - File: a plain random-access temp file. Slowest, bounded only by
//     disk space, and usable with very large sparse capacities.
//
// Elastic composes these into a pipe that never reports full: when the
// current backing store fills up, the next (larger, slower) one is
// created on demand, and drained stores are released as reads catch up.
//
// All pipes are safe for one writer and one reader operating
// concurrently. Close releases the backing resources exactly once;
// using a pipe after Close is a programming error and fails with
// ErrClosed.
//
// Example usage:
//
//	p := pipe.Elastic()
//	defer p.Close()
//
//	p.Write(data)             // never reports full
//
//	buf := make([]byte, 4096)
//	n, err := p.Read(buf)     // n == 0 means nothing buffered right now
package pipe
