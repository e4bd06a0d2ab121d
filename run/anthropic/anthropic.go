// Package anthropic adapts Anthropic Messages streaming into the run event
// vocabulary consumed by the stream adapter: message_start opens an assistant
// message, text deltas become text deltas, and the stop reason becomes a
// completed or requires-action terminal event (the latter on tool_use).
package anthropic

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/goccy/go-json"

	"github.com/hupe1980/assistantstream/run"
)

// Options configure the Anthropic source (model id, max tokens, API key).
type Options struct {
	Model     anthropic.Model
	MaxTokens int64
	APIKey    string
}

// Source streams Anthropic messages as run events.
type Source struct {
	client *anthropic.Client
	opts   Options
}

// NewSource creates a new Anthropic source using the official client
func NewSource(optFns ...func(o *Options)) *Source {
	opts := Options{
		Model:     anthropic.ModelClaude3_5Sonnet20241022,
		MaxTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}

	client := anthropic.NewClient(clientOpts...)

	return &Source{client: &client, opts: opts}
}

// NewSourceFromClient creates a new Anthropic source from an existing client
func NewSourceFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Source {
	opts := Options{
		Model:     anthropic.ModelClaude3_5Sonnet20241022,
		MaxTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Source{client: client, opts: opts}
}

// Stream starts a streaming message for the given params and emits run events
// in arrival order. The event channel closes when the upstream stream ends; a
// transport failure is delivered on the error channel.
func (s *Source) Stream(ctx context.Context, threadID string, messages []anthropic.MessageParam) (<-chan run.Event, <-chan error) {
	out := make(chan run.Event, 32)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		params := anthropic.MessageNewParams{
			Model:     s.opts.Model,
			Messages:  messages,
			MaxTokens: s.opts.MaxTokens,
		}

		stream := s.client.Messages.NewStreaming(ctx, params)

		// Accumulate the full message alongside the event loop so the stop
		// reason and any tool_use blocks are available for the terminal event.
		var message anthropic.Message
		runID := run.NewRunID()

		for stream.Next() {
			event := stream.Current()
			if err := message.Accumulate(event); err != nil {
				errCh <- fmt.Errorf("anthropic accumulate error: %w", err)
				return
			}

			switch ev := event.AsAny().(type) {
			case anthropic.MessageStartEvent:
				out <- run.NewMessageCreated(run.Message{
					ID:       ev.Message.ID,
					ThreadID: threadID,
					Role:     "assistant",
				})
			case anthropic.ContentBlockDeltaEvent:
				switch delta := ev.Delta.AsAny().(type) {
				case anthropic.TextDelta:
					out <- run.NewTextDelta(delta.Text)
				}
			case anthropic.MessageStopEvent:
				out <- terminalEvent(runID, threadID, message)
			}
		}

		if err := stream.Err(); err != nil {
			errCh <- fmt.Errorf("anthropic streaming error: %w", err)
		}
	}()

	return out, errCh
}

// terminalEvent converts the accumulated message into the matching terminal
// run event. A tool_use stop reason pauses the run as requires-action;
// everything else completes it.
func terminalEvent(runID, threadID string, message anthropic.Message) run.Event {
	if string(message.StopReason) != "tool_use" {
		return run.NewRunCompleted(run.Run{
			ID:       runID,
			ThreadID: threadID,
			Status:   "completed",
		})
	}

	var calls []run.ToolCall
	for _, block := range message.Content {
		if block.Type != "tool_use" {
			continue
		}
		toolBlock := block.AsToolUse()
		args := ""
		if toolBlock.Input != nil {
			if argsBytes, err := json.Marshal(toolBlock.Input); err == nil {
				args = string(argsBytes)
			}
		}
		calls = append(calls, run.ToolCall{
			ID:        toolBlock.ID,
			Name:      toolBlock.Name,
			Arguments: args,
		})
	}

	return run.NewRunRequiresAction(run.Run{
		ID:       runID,
		ThreadID: threadID,
		Status:   "requires_action",
		RequiredAction: &run.RequiredAction{
			Type:      "submit_tool_outputs",
			ToolCalls: calls,
		},
	})
}
