package spill

// Interest is a readiness interest for Multiplexer registration.
type Interest int

const (
	// Readable requests a callback once the channel can produce data.
	Readable Interest = 1 << iota
	// Writable requests a callback once the channel can accept data.
	Writable
)

// Channel is a non-blocking consumer endpoint. Write stores up to len(p)
// bytes and returns how many were accepted; (0, nil) means the channel
// cannot accept data right now.
type Channel interface {
	Write(p []byte) (n int, err error)
}

// Multiplexer is the external reactor that reports channel readiness.
//
// Register asks for fn to be invoked once ch is ready for the given
// interest. Registrations are one-shot: the multiplexer consumes a
// registration when it fires, and callers keep at most one registration
// per (channel, interest) outstanding.
type Multiplexer interface {
	Register(ch Channel, interest Interest, fn func())
}

// RegisterFunc adapts a function to the Multiplexer interface.
type RegisterFunc func(ch Channel, interest Interest, fn func())

// Register calls f(ch, interest, fn).
func (f RegisterFunc) Register(ch Channel, interest Interest, fn func()) {
	f(ch, interest, fn)
}
