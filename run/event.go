package run

import "github.com/google/uuid"

// Kind discriminates upstream run events. The set below is what the adapter
// maps; unknown kinds flow through and are ignored downstream.
type Kind string

const (
	// KindMessageCreated signals a new assistant message was opened.
	KindMessageCreated Kind = "thread.message.created"
	// KindMessageDelta carries incremental content for the current message.
	KindMessageDelta Kind = "thread.message.delta"
	// KindRunCompleted signals the run finished normally.
	KindRunCompleted Kind = "thread.run.completed"
	// KindRunRequiresAction signals the run is paused waiting for tool
	// outputs to be submitted.
	KindRunRequiresAction Kind = "thread.run.requires_action"
)

// Event is one upstream run event. Exactly the payload field matching Kind is
// set; the others are nil. Events with missing payloads for a handled kind
// are treated downstream as no-ops rather than errors.
type Event struct {
	Kind    Kind          `json:"kind"`
	Message *Message      `json:"message,omitempty"`
	Delta   *MessageDelta `json:"delta,omitempty"`
	Run     *Run          `json:"run,omitempty"`
}

// Message is the payload of a message-created event. Only the id matters to
// the adapter; thread and role travel along for consumers that want them.
type Message struct {
	ID       string `json:"id"`
	ThreadID string `json:"thread_id,omitempty"`
	Role     string `json:"role"`
}

// MessageDelta is the payload of a message-delta event: an ordered list of
// content block deltas.
type MessageDelta struct {
	Content []DeltaBlock `json:"content"`
}

// DeltaBlock is one content block delta. Type selects the block flavor;
// only "text" blocks carry a Text payload the adapter forwards.
type DeltaBlock struct {
	Type string     `json:"type"`
	Text *TextDelta `json:"text,omitempty"`
}

// TextDelta holds an incremental text value. Value is a pointer so an absent
// value can be distinguished from an empty fragment.
type TextDelta struct {
	Value *string `json:"value,omitempty"`
}

// Run is the terminal snapshot of an upstream run, captured when the run
// reaches completed or requires-action. The caller owns the snapshot and
// typically uses RequiredAction to decide whether to resume the run.
type Run struct {
	ID             string          `json:"id"`
	ThreadID       string          `json:"thread_id,omitempty"`
	Status         string          `json:"status"`
	RequiredAction *RequiredAction `json:"required_action,omitempty"`
}

// RequiredAction describes why a run paused. Type is currently always
// "submit_tool_outputs".
type RequiredAction struct {
	Type      string     `json:"type"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// ToolCall is one pending tool invocation, unified across providers so
// resumption logic does not need per-provider branching.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// NewMessageCreated builds a message-created event.
func NewMessageCreated(msg Message) Event {
	return Event{Kind: KindMessageCreated, Message: &msg}
}

// NewTextDelta builds a message-delta event with a single text block.
func NewTextDelta(value string) Event {
	return Event{
		Kind: KindMessageDelta,
		Delta: &MessageDelta{
			Content: []DeltaBlock{{Type: "text", Text: &TextDelta{Value: &value}}},
		},
	}
}

// NewRunCompleted builds a run-completed event carrying the terminal snapshot.
func NewRunCompleted(r Run) Event {
	return Event{Kind: KindRunCompleted, Run: &r}
}

// NewRunRequiresAction builds a requires-action event carrying the snapshot.
func NewRunRequiresAction(r Run) Event {
	return Event{Kind: KindRunRequiresAction, Run: &r}
}

// NewThreadID generates a fresh thread identifier.
func NewThreadID() string { return "thread_" + uuid.NewString() }

// NewMessageID generates a fresh message identifier.
func NewMessageID() string { return "msg_" + uuid.NewString() }

// NewRunID generates a fresh run identifier.
func NewRunID() string { return "run_" + uuid.NewString() }
