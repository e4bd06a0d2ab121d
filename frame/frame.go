package frame

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Kind tags the payload carried by a Frame.
type Kind string

const (
	// KindText carries an incremental text fragment for the current
	// assistant message.
	KindText Kind = "text"
	// KindError carries a string description of a failure.
	KindError Kind = "error"
	// KindAssistantMessage carries a full assistant message.
	KindAssistantMessage Kind = "assistant_message"
	// KindControl carries the thread/message identifiers of the session.
	KindControl Kind = "control"
	// KindDataMessage carries an opaque application-defined value.
	KindDataMessage Kind = "data_message"
)

// codes maps frame kinds to their single-character wire prefixes.
var codes = map[Kind]byte{
	KindText:             '0',
	KindError:            '3',
	KindAssistantMessage: '4',
	KindControl:          '5',
	KindDataMessage:      '6',
}

// Frame is one tagged unit of the outbound stream. Value must match the shape
// expected for Kind; the constructors below guarantee that pairing.
type Frame struct {
	Kind  Kind
	Value any
}

// ControlData identifies the conversation context of a session. It is emitted
// exactly once, always as the first frame.
type ControlData struct {
	ThreadID  string `json:"threadId"`
	MessageID string `json:"messageId"`
}

// Text wraps a text value inside an assistant message content block.
type Text struct {
	Value string `json:"value"`
}

// ContentBlock is one ordered element of an assistant message's content.
// Type is currently always "text".
type ContentBlock struct {
	Type string `json:"type"`
	Text Text   `json:"text"`
}

// AssistantMessage is a full assistant message payload.
type AssistantMessage struct {
	ID      string         `json:"id"`
	Role    string         `json:"role"`
	Content []ContentBlock `json:"content"`
}

// NewAssistantMessage builds an assistant message with a single text content
// block. An empty text is the placeholder form that establishes the message
// id before deltas arrive.
func NewAssistantMessage(id, text string) AssistantMessage {
	return AssistantMessage{
		ID:      id,
		Role:    "assistant",
		Content: []ContentBlock{{Type: "text", Text: Text{Value: text}}},
	}
}

// NewControlFrame wraps thread/message identifiers into a control frame.
func NewControlFrame(data ControlData) Frame {
	return Frame{Kind: KindControl, Value: data}
}

// NewMessageFrame wraps a full assistant message into a frame.
func NewMessageFrame(msg AssistantMessage) Frame {
	return Frame{Kind: KindAssistantMessage, Value: msg}
}

// NewTextFrame wraps an incremental text fragment into a frame.
func NewTextFrame(text string) Frame {
	return Frame{Kind: KindText, Value: text}
}

// NewErrorFrame wraps a failure description into a frame.
func NewErrorFrame(description string) Frame {
	return Frame{Kind: KindError, Value: description}
}

// NewDataFrame wraps an opaque application value into a frame. The value is
// forwarded verbatim; it is not inspected or validated.
func NewDataFrame(v any) Frame {
	return Frame{Kind: KindDataMessage, Value: v}
}

// Encode serializes one frame into its wire form. Writing N encoded frames in
// sequence yields a stream a decoder splits back into the same N frames in
// order. Payloads produced by this module always marshal; an unmarshalable
// value or unknown kind is a caller contract violation surfaced as an error.
func Encode(f Frame) ([]byte, error) {
	code, ok := codes[f.Kind]
	if !ok {
		return nil, fmt.Errorf("frame: unknown kind %q", f.Kind)
	}

	payload, err := json.Marshal(f.Value)
	if err != nil {
		return nil, fmt.Errorf("frame: marshal %s payload: %w", f.Kind, err)
	}

	buf := make([]byte, 0, len(payload)+3)
	buf = append(buf, code, ':')
	buf = append(buf, payload...)
	buf = append(buf, '\n')

	return buf, nil
}
