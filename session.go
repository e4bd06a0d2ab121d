package assistantstream

import (
	"context"
	"fmt"

	"github.com/hupe1980/assistantstream/channel"
	"github.com/hupe1980/assistantstream/frame"
	"github.com/hupe1980/assistantstream/logging"
	"github.com/hupe1980/assistantstream/run"
)

// Config identifies the conversation context announced by the control frame.
// Empty fields are filled with generated identifiers.
type Config struct {
	ThreadID  string
	MessageID string
}

// Options holds optional overrides for a session.
type Options struct {
	// Logger receives lifecycle diagnostics (write failures, recovered
	// panics). Defaults to logging.NoOpLogger.
	Logger logging.Logger
}

// Handler is the caller-supplied business logic of one session. It runs once
// and must settle exactly once: returning nil ends the stream normally, a
// non-nil error (or a panic, which is recovered) becomes a single error frame
// before end-of-stream.
type Handler func(ctx context.Context, s *Session) error

// Session exposes the bound operations a Handler may use. The harness owns
// the underlying channel exclusively; handlers never touch it directly, so
// out-of-order or post-close writes from caller code are impossible.
//
// A session is a single logical task: operations are meant to be called
// sequentially. Overlapping ForwardStream or Send calls from multiple
// goroutines within one session are unsupported.
type Session struct {
	threadID  string
	messageID string

	ch     channel.Channel
	logger logging.Logger

	writeErr error
}

// ThreadID returns the thread identifier announced in the control frame.
func (s *Session) ThreadID() string { return s.threadID }

// MessageID returns the message identifier announced in the control frame.
func (s *Session) MessageID() string { return s.messageID }

// SendMessage enqueues a full assistant message frame.
func (s *Session) SendMessage(msg frame.AssistantMessage) error {
	return s.enqueue(frame.NewMessageFrame(msg))
}

// SendDataMessage enqueues an opaque application-defined value as a data
// frame. The value is forwarded verbatim.
func (s *Session) SendDataMessage(v any) error {
	return s.enqueue(frame.NewDataFrame(v))
}

// ForwardStream consumes an upstream run event sequence, emitting frames per
// event, and returns the terminal snapshot if the run reached completed or
// requires-action (nil otherwise). The sequence is always drained fully; the
// caller decides whether to act on the snapshot, e.g. resuming the run with
// tool outputs. May be called zero or more times, sequentially.
func (s *Session) ForwardStream(events <-chan run.Event) (*run.Run, error) {
	if s.writeErr != nil {
		// The channel already failed; drain the source so its producer can
		// exit, but emit nothing further.
		for range events {
		}
		return nil, s.writeErr
	}

	snapshot, err := forward(events, s.ch)
	if err != nil {
		s.writeErr = err
		return nil, err
	}
	return snapshot, nil
}

func (s *Session) enqueue(f frame.Frame) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	if err := s.ch.Enqueue(f); err != nil {
		s.writeErr = err
		return err
	}
	return nil
}

// runSession drives one session over an already-constructed channel: control
// frame first, then the handler, then an error frame if the handler failed,
// and a close that runs exactly once on every exit path. The returned error
// reports channel-level failures only; handler failures are consumed into
// the error frame.
func runSession(ctx context.Context, ch channel.Channel, cfg Config, handler Handler, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NoOpLogger{}
	}

	if cfg.ThreadID == "" {
		cfg.ThreadID = run.NewThreadID()
	}
	if cfg.MessageID == "" {
		cfg.MessageID = run.NewMessageID()
	}

	s := &Session{
		threadID:  cfg.ThreadID,
		messageID: cfg.MessageID,
		ch:        ch,
		logger:    logger,
	}

	defer func() {
		if err := ch.Close(); err != nil {
			logger.Warn("assistantstream: channel close failed", "error", err)
		}
	}()

	control := frame.NewControlFrame(frame.ControlData{
		ThreadID:  cfg.ThreadID,
		MessageID: cfg.MessageID,
	})
	if err := ch.Enqueue(control); err != nil {
		logger.Error("assistantstream: control frame write failed", "error", err)
		return err
	}

	if err := invokeHandler(ctx, s, handler); err != nil {
		if s.writeErr != nil {
			// The channel is already broken; an error frame cannot reach the
			// client anymore.
			logger.Error("assistantstream: session aborted", "error", s.writeErr)
			return s.writeErr
		}
		logger.Debug("assistantstream: handler failed", "error", err)
		if werr := ch.Enqueue(frame.NewErrorFrame(err.Error())); werr != nil {
			logger.Error("assistantstream: error frame write failed", "error", werr)
			return werr
		}
	}

	return nil
}

// invokeHandler runs the handler, converting a panic into a plain error so
// the stream still terminates with an error frame and a clean close.
func invokeHandler(ctx context.Context, s *Session, handler Handler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("assistantstream: handler panicked", "panic", r)
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return handler(ctx, s)
}
