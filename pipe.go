package assistantstream

import (
	"context"
	"io"
	"net/http"

	"github.com/hupe1980/assistantstream/channel"
)

// Pipe is the push-based entry point for environments without a pull
// consumer: frames are written into the caller-provided sink as they are
// emitted, flushed when the sink supports it. For identical inputs Pipe and
// NewResponse produce byte-identical frame sequences.
//
// Pipe blocks until the session has settled and the channel is closed. The
// returned error reports channel-level failures only (sink gone mid-stream);
// handler failures surface to the client as an error frame instead.
func Pipe(ctx context.Context, w io.Writer, cfg Config, handler Handler, optFns ...func(o *Options)) error {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	push := channel.NewPush(w)
	return runSession(ctx, push, cfg, handler, opts)
}

// ServeStream runs one session directly onto an HTTP response via the push
// backend, setting the stream content type first. Intended for use inside a
// request handler:
//
//	http.HandleFunc("/stream", func(w http.ResponseWriter, r *http.Request) {
//		_ = assistantstream.ServeStream(w, r, cfg, handler)
//	})
func ServeStream(w http.ResponseWriter, req *http.Request, cfg Config, handler Handler, optFns ...func(o *Options)) error {
	w.Header().Set("Content-Type", ContentType)
	return Pipe(req.Context(), w, cfg, handler, optFns...)
}
