package assistantstream

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/assistantstream/channel"
	"github.com/hupe1980/assistantstream/frame"
	"github.com/hupe1980/assistantstream/run"
)

// captureChannel records frames and close calls. failAfter > 0 makes the
// n-th and later enqueues fail, simulating a dead sink.
type captureChannel struct {
	frames     []frame.Frame
	closeCalls int
	enqueues   int
	failAfter  int
}

var _ channel.Channel = (*captureChannel)(nil)

var errSinkGone = errors.New("sink gone")

func (c *captureChannel) Enqueue(f frame.Frame) error {
	c.enqueues++
	if c.failAfter > 0 && c.enqueues > c.failAfter {
		return errSinkGone
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *captureChannel) Close() error {
	c.closeCalls++
	return nil
}

// events builds a closed run event channel from a fixed sequence.
func events(evs ...run.Event) <-chan run.Event {
	ch := make(chan run.Event, len(evs))
	for _, ev := range evs {
		ch <- ev
	}
	close(ch)
	return ch
}

func TestRunSession_ControlFrameFirst(t *testing.T) {
	ch := &captureChannel{}
	cfg := Config{ThreadID: "thread_1", MessageID: "msg_1"}

	err := runSession(context.Background(), ch, cfg, func(ctx context.Context, s *Session) error {
		require.NoError(t, s.SendDataMessage(map[string]any{"step": 1}))
		return s.SendMessage(frame.NewAssistantMessage("msg_2", "done"))
	}, Options{})
	require.NoError(t, err)

	require.NotEmpty(t, ch.frames)
	assert.Equal(t, frame.KindControl, ch.frames[0].Kind)
	assert.Equal(t, frame.ControlData{ThreadID: "thread_1", MessageID: "msg_1"}, ch.frames[0].Value)
	assert.Equal(t, 1, ch.closeCalls)
}

func TestRunSession_CloseExactlyOncePerOutcome(t *testing.T) {
	outcomes := map[string]Handler{
		"success": func(ctx context.Context, s *Session) error { return nil },
		"failure": func(ctx context.Context, s *Session) error { return errors.New("nope") },
		"panic":   func(ctx context.Context, s *Session) error { panic("kaboom") },
	}

	for name, handler := range outcomes {
		t.Run(name, func(t *testing.T) {
			ch := &captureChannel{}
			err := runSession(context.Background(), ch, Config{}, handler, Options{})
			require.NoError(t, err)
			assert.Equal(t, 1, ch.closeCalls)
		})
	}
}

func TestRunSession_HandlerErrorFrameIsLast(t *testing.T) {
	ch := &captureChannel{}

	err := runSession(context.Background(), ch, Config{ThreadID: "t", MessageID: "m"}, func(ctx context.Context, s *Session) error {
		if err := s.SendDataMessage("progress"); err != nil {
			return err
		}
		return errors.New("business logic failed")
	}, Options{})
	require.NoError(t, err)

	require.Len(t, ch.frames, 3)
	assert.Equal(t, frame.KindControl, ch.frames[0].Kind)
	assert.Equal(t, frame.KindDataMessage, ch.frames[1].Kind)
	assert.Equal(t, frame.KindError, ch.frames[2].Kind)
	assert.Equal(t, "business logic failed", ch.frames[2].Value)
	assert.Equal(t, 1, ch.closeCalls)
}

func TestRunSession_PanicBecomesErrorFrame(t *testing.T) {
	ch := &captureChannel{}

	err := runSession(context.Background(), ch, Config{}, func(ctx context.Context, s *Session) error {
		panic("kaboom")
	}, Options{})
	require.NoError(t, err)

	require.Len(t, ch.frames, 2)
	assert.Equal(t, frame.KindError, ch.frames[1].Kind)
	assert.Contains(t, ch.frames[1].Value, "kaboom")
}

func TestRunSession_GeneratedIdentifiers(t *testing.T) {
	ch := &captureChannel{}
	var threadID, messageID string

	err := runSession(context.Background(), ch, Config{}, func(ctx context.Context, s *Session) error {
		threadID = s.ThreadID()
		messageID = s.MessageID()
		return nil
	}, Options{})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(threadID, "thread_"))
	assert.True(t, strings.HasPrefix(messageID, "msg_"))

	control, ok := ch.frames[0].Value.(frame.ControlData)
	require.True(t, ok)
	assert.Equal(t, threadID, control.ThreadID)
	assert.Equal(t, messageID, control.MessageID)
}

func TestRunSession_WriteFailureIsFatal(t *testing.T) {
	// Control frame succeeds, everything after fails.
	ch := &captureChannel{failAfter: 1}
	var second error

	err := runSession(context.Background(), ch, Config{}, func(ctx context.Context, s *Session) error {
		if err := s.SendDataMessage("x"); err != nil {
			second = s.SendDataMessage("y")
			return err
		}
		return nil
	}, Options{})

	// The broken channel surfaces as a session-level failure, no error frame
	// is attempted, and close still ran exactly once.
	assert.ErrorIs(t, err, errSinkGone)
	assert.ErrorIs(t, second, errSinkGone)
	require.Len(t, ch.frames, 1)
	assert.Equal(t, frame.KindControl, ch.frames[0].Kind)
	assert.Equal(t, 1, ch.closeCalls)
}

func TestRunSession_ControlFrameWriteFailure(t *testing.T) {
	// Pre-count one enqueue so the very first write (the control frame) fails.
	ch := &captureChannel{failAfter: 1, enqueues: 1}

	handlerRan := false
	err := runSession(context.Background(), ch, Config{}, func(ctx context.Context, s *Session) error {
		handlerRan = true
		return nil
	}, Options{})

	assert.ErrorIs(t, err, errSinkGone)
	assert.False(t, handlerRan)
	assert.Equal(t, 1, ch.closeCalls)
}

func TestSession_ForwardStreamAfterFailureDrains(t *testing.T) {
	ch := &captureChannel{failAfter: 1}
	src := events(
		run.NewMessageCreated(run.Message{ID: "m1", Role: "assistant"}),
		run.NewTextDelta("Hel"),
	)

	err := runSession(context.Background(), ch, Config{}, func(ctx context.Context, s *Session) error {
		if err := s.SendDataMessage("x"); err != nil {
			// Channel already broken: the stream must still be drained so
			// its producer can exit.
			snap, ferr := s.ForwardStream(src)
			assert.Nil(t, snap)
			assert.ErrorIs(t, ferr, errSinkGone)
			return err
		}
		return nil
	}, Options{})

	assert.ErrorIs(t, err, errSinkGone)
	_, open := <-src
	assert.False(t, open, "forward must drain the source even after failure")
}
