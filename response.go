package assistantstream

import (
	"context"
	"io"
	"net/http"

	"github.com/hupe1980/assistantstream/channel"
	"github.com/hupe1980/assistantstream/logging"
)

// Response is the pull-based entry point: the session runs in its own
// goroutine while the consumer drains the frame stream through Read. A
// Response serves exactly one session and is read once.
type Response struct {
	pull   *channel.Pull
	done   chan struct{}
	logger logging.Logger
}

var (
	_ io.ReadCloser = (*Response)(nil)
	_ http.Handler  = (*Response)(nil)
)

// NewResponse opens a session and starts the handler immediately. Reading
// drains frames in emission order until io.EOF after the guaranteed close.
func NewResponse(ctx context.Context, cfg Config, handler Handler, optFns ...func(o *Options)) *Response {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	pull := channel.NewPull()
	resp := &Response{pull: pull, done: make(chan struct{}), logger: opts.Logger}

	go func() {
		defer close(resp.done)
		if err := runSession(ctx, pull, cfg, handler, opts); err != nil {
			opts.Logger.Debug("assistantstream: session ended with channel failure", "error", err)
		}
	}()

	return resp
}

// Read implements io.Reader over the frame stream.
func (r *Response) Read(p []byte) (int, error) {
	return r.pull.Read(p)
}

// Close is the consumer-side cancellation hook: it stops future reads and
// lets the producer observe a failed write on its next enqueue. It does not
// interrupt in-flight handler logic.
func (r *Response) Close() error {
	r.pull.CancelRead(channel.ErrCanceled)
	return nil
}

// Wait blocks until the session has settled and the channel is closed.
// Useful in tests and in servers that must not release per-request resources
// while the handler is still running.
func (r *Response) Wait() {
	<-r.done
}

// ServeHTTP streams the response body, flushing after every read so clients
// observe frames incrementally. The response is consumed; a Response serves
// at most one request.
func (r *Response) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", ContentType)
	defer func() { _ = r.Close() }()

	fl, _ := w.(http.Flusher)
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return
			}
			if fl != nil {
				fl.Flush()
			}
		}
		if err != nil {
			return
		}
	}
}
