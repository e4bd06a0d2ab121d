// Package openai adapts OpenAI Chat Completions streaming into the run event
// vocabulary consumed by the stream adapter: the first chunk opens an
// assistant message, content deltas become text deltas, and the finish reason
// becomes a completed or requires-action terminal event (the latter when the
// model requested tool calls).
package openai

import (
	"context"
	"fmt"
	"sort"

	"github.com/openai/openai-go"

	"github.com/hupe1980/assistantstream/run"
)

// aggCall aggregates partial tool call streaming deltas (id, name, arguments)
// so complete tool calls can be attached to the terminal snapshot.
type aggCall struct{ id, name, args string }

// Options configure the OpenAI source.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Source streams chat completions as run events.
type Source struct {
	client *openai.Client
	opts   Options
}

// NewSource creates a new OpenAI source using the official client
func NewSource(optFns ...func(o *Options)) *Source {
	client := openai.NewClient()
	return NewSourceFromClient(&client, optFns...)
}

// NewSourceFromClient creates a new OpenAI source from an existing client
func NewSourceFromClient(client *openai.Client, optFns ...func(o *Options)) *Source {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Source{client: client, opts: opts}
}

// Stream starts a streaming completion for the given messages and emits run
// events in arrival order. The event channel closes when the upstream stream
// ends; a transport failure is delivered on the error channel.
func (s *Source) Stream(ctx context.Context, threadID string, messages []openai.ChatCompletionMessageParamUnion) (<-chan run.Event, <-chan error) {
	out := make(chan run.Event, 32)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		params := openai.ChatCompletionNewParams{
			Messages:            messages,
			Model:               s.opts.Model,
			Temperature:         openai.Float(s.opts.Temperature),
			MaxCompletionTokens: openai.Int(s.opts.MaxCompletionTokens),
		}

		stream := s.client.Chat.Completions.NewStreaming(ctx, params)

		started := false
		toolAgg := map[int64]*aggCall{}
		runID := run.NewRunID()

		for stream.Next() {
			ck := stream.Current()
			for _, ch := range ck.Choices {
				if !started {
					out <- run.NewMessageCreated(run.Message{
						ID:       "msg_" + ck.ID,
						ThreadID: threadID,
						Role:     "assistant",
					})
					started = true
				}
				if ch.Delta.Content != "" {
					out <- run.NewTextDelta(ch.Delta.Content)
				}
				for _, tc := range ch.Delta.ToolCalls {
					ac, ok := toolAgg[tc.Index]
					if !ok {
						ac = &aggCall{}
						toolAgg[tc.Index] = ac
					}
					if tc.ID != "" {
						ac.id = tc.ID
					}
					if tc.Function.Name != "" {
						ac.name = tc.Function.Name
					}
					if tc.Function.Arguments != "" {
						ac.args += tc.Function.Arguments
					}
				}
				if ch.FinishReason != "" {
					out <- terminalEvent(runID, threadID, ch.FinishReason, toolAgg)
				}
			}
		}

		if err := stream.Err(); err != nil {
			errCh <- fmt.Errorf("openai streaming error: %w", err)
		}
	}()

	return out, errCh
}

// terminalEvent converts the finish reason into the matching terminal run
// event. Tool call requests pause the run as requires-action; everything else
// completes it.
func terminalEvent(runID, threadID, finishReason string, toolAgg map[int64]*aggCall) run.Event {
	if finishReason == "tool_calls" && len(toolAgg) > 0 {
		indexes := make([]int64, 0, len(toolAgg))
		for i := range toolAgg {
			indexes = append(indexes, i)
		}
		sort.Slice(indexes, func(a, b int) bool { return indexes[a] < indexes[b] })

		calls := make([]run.ToolCall, 0, len(indexes))
		for _, i := range indexes {
			ac := toolAgg[i]
			calls = append(calls, run.ToolCall{ID: ac.id, Name: ac.name, Arguments: ac.args})
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

	return run.NewRunCompleted(run.Run{
		ID:       runID,
		ThreadID: threadID,
		Status:   "completed",
	})
}
