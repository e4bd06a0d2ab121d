package channel

import (
	"errors"

	"github.com/hupe1980/assistantstream/frame"
)

// ErrClosed is returned by Enqueue after the channel has been closed.
var ErrClosed = errors.New("channel: closed")

// ErrCanceled is the default error a pull consumer's cancellation surfaces to
// the producer side.
var ErrCanceled = errors.New("channel: read side canceled")

// Channel is a destination that accepts frames and can be closed. A write
// failure is fatal to the session: callers must not retry or enqueue further
// frames after Enqueue returns an error.
type Channel interface {
	// Enqueue appends one frame to the stream. Frames are delivered in
	// Enqueue order.
	Enqueue(f frame.Frame) error

	// Close signals end-of-stream to the consumer. Calling Close more than
	// once is safe; only the first call has an effect.
	Close() error
}
