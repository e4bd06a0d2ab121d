package frame

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// kindFor inverts the code table.
func kindFor(code byte) (Kind, bool) {
	for k, c := range codes {
		if c == code {
			return k, true
		}
	}
	return "", false
}

// Decode splits a concatenation of encoded frames back into the ordered list
// of frames that produced it. String payloads (text, error) decode to string,
// control to ControlData, assistant_message to AssistantMessage and
// data_message to the generic value json yields. It is the inverse of Encode
// up to JSON value typing and exists mainly for consumers and tests that
// verify framing.
func Decode(data []byte) ([]Frame, error) {
	var frames []Frame

	for len(data) > 0 {
		nl := bytes.IndexByte(data, '\n')
		if nl < 0 {
			return nil, fmt.Errorf("frame: truncated frame %q", data)
		}
		line := data[:nl]
		data = data[nl+1:]

		if len(line) < 2 || line[1] != ':' {
			return nil, fmt.Errorf("frame: malformed frame %q", line)
		}
		kind, ok := kindFor(line[0])
		if !ok {
			return nil, fmt.Errorf("frame: unknown code %q", line[0])
		}

		payload := line[2:]
		value, err := decodePayload(kind, payload)
		if err != nil {
			return nil, err
		}
		frames = append(frames, Frame{Kind: kind, Value: value})
	}

	return frames, nil
}

func decodePayload(kind Kind, payload []byte) (any, error) {
	var (
		value any
		err   error
	)
	switch kind {
	case KindText, KindError:
		var s string
		err = json.Unmarshal(payload, &s)
		value = s
	case KindControl:
		var c ControlData
		err = json.Unmarshal(payload, &c)
		value = c
	case KindAssistantMessage:
		var m AssistantMessage
		err = json.Unmarshal(payload, &m)
		value = m
	case KindDataMessage:
		err = json.Unmarshal(payload, &value)
	}
	if err != nil {
		return nil, fmt.Errorf("frame: unmarshal %s payload: %w", kind, err)
	}
	return value, nil
}
