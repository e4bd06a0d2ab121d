package channel

import (
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/hupe1980/assistantstream/frame"
)

// PushOptions configure a push channel.
type PushOptions struct {
	// OnClose fires once when the channel closes, after the final flush. Use
	// it to signal end-of-stream on sinks that need an explicit terminator
	// (e.g. closing a downstream writable).
	OnClose func()
}

// Push is the producer-driven backend: encoded frames are written straight
// into the caller's sink as they are enqueued. When the sink implements
// http.Flusher every frame is flushed immediately, so clients observe frames
// incrementally.
type Push struct {
	w       io.Writer
	onClose func()

	mu     sync.Mutex
	closed bool
}

var _ Channel = (*Push)(nil)

// NewPush wraps a byte sink into a push channel.
func NewPush(w io.Writer, optFns ...func(o *PushOptions)) *Push {
	opts := PushOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Push{w: w, onClose: opts.OnClose}
}

// Enqueue encodes one frame and writes it to the sink. A sink write failure
// is returned as-is and is fatal to the session; after Close it returns
// ErrClosed.
func (p *Push) Enqueue(f frame.Frame) error {
	b, err := frame.Encode(f)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}
	if _, err := p.w.Write(b); err != nil {
		return fmt.Errorf("channel: enqueue: %w", err)
	}
	if fl, ok := p.w.(http.Flusher); ok {
		fl.Flush()
	}
	return nil
}

// Close marks the channel closed and fires the OnClose hook. The sink itself
// is owned by the caller and is not closed here. Safe to call more than once.
func (p *Push) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	onClose := p.onClose
	p.mu.Unlock()

	if onClose != nil {
		onClose()
	}
	return nil
}
