// Package spill adapts fast producers to slow, reactor-driven consumer
// channels without ever blocking the producer.
//
// A Buffered channel sits between a writer and a non-blocking delegate
// Channel that is registered with an external Multiplexer (the event
// loop that reports readiness). Writes append to a private disk-backed
// spill file and return immediately. A drain loop feeds the delegate as
// fast as it will accept data; when the delegate reports it cannot
// accept more, draining stops and a one-shot writability callback is
// registered with the multiplexer, which resumes the drain later.
//
// The spill file is append-only within a channel's lifetime: bytes are
// written once at the tail offset and consumed once from the head
// offset. It is removed as soon as the channel has been closed and the
// backlog fully delivered.
package spill
