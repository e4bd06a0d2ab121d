package assistantstream

import (
	"github.com/hupe1980/assistantstream/channel"
	"github.com/hupe1980/assistantstream/frame"
	"github.com/hupe1980/assistantstream/run"
)

// forward drains an upstream run event sequence, emitting frames for the
// kinds it maps and ignoring everything else:
//
//   - message created  → one assistant_message frame with empty text, a
//     placeholder establishing the message id before deltas arrive
//   - message delta    → one text frame per text block with a present value
//   - run completed / requires action → no frame; the event's run becomes
//     the snapshot, last one wins
//
// The source is always drained fully, even after a channel write failure,
// so the producing goroutine can exit; the write failure is then returned
// and the snapshot discarded.
func forward(events <-chan run.Event, ch channel.Channel) (*run.Run, error) {
	var snapshot *run.Run
	var writeErr error

	for ev := range events {
		if writeErr != nil {
			continue
		}
		switch ev.Kind {
		case run.KindMessageCreated:
			if ev.Message == nil {
				continue
			}
			msg := frame.NewAssistantMessage(ev.Message.ID, "")
			writeErr = ch.Enqueue(frame.NewMessageFrame(msg))
		case run.KindMessageDelta:
			if ev.Delta == nil {
				continue
			}
			writeErr = forwardDelta(ev.Delta, ch)
		case run.KindRunCompleted, run.KindRunRequiresAction:
			if ev.Run != nil {
				r := *ev.Run
				snapshot = &r
			}
		}
	}

	if writeErr != nil {
		return nil, writeErr
	}
	return snapshot, nil
}

// forwardDelta emits one text frame per text block carrying a value. Blocks
// of other types or without a value produce nothing; each fragment is its
// own frame, never merged.
func forwardDelta(delta *run.MessageDelta, ch channel.Channel) error {
	for _, block := range delta.Content {
		if block.Type != "text" || block.Text == nil || block.Text.Value == nil {
			continue
		}
		if err := ch.Enqueue(frame.NewTextFrame(*block.Text.Value)); err != nil {
			return err
		}
	}
	return nil
}
