package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_WireForm(t *testing.T) {
	tests := []struct {
		name  string
		frame Frame
		want  string
	}{
		{
			name:  "text fragment",
			frame: NewTextFrame("Hel"),
			want:  "0:\"Hel\"\n",
		},
		{
			name:  "error description",
			frame: NewErrorFrame("boom"),
			want:  "3:\"boom\"\n",
		},
		{
			name:  "control data",
			frame: NewControlFrame(ControlData{ThreadID: "thread_1", MessageID: "msg_1"}),
			want:  "5:{\"threadId\":\"thread_1\",\"messageId\":\"msg_1\"}\n",
		},
		{
			name:  "placeholder assistant message",
			frame: NewMessageFrame(NewAssistantMessage("msg_1", "")),
			want:  "4:{\"id\":\"msg_1\",\"role\":\"assistant\",\"content\":[{\"type\":\"text\",\"text\":{\"value\":\"\"}}]}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.frame)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestEncode_TextWithNewlineStaysSingleLine(t *testing.T) {
	got, err := Encode(NewTextFrame("line one\nline two"))
	require.NoError(t, err)

	// The embedded newline must be escaped so the trailing \n remains the
	// only frame delimiter.
	assert.Equal(t, "0:\"line one\\nline two\"\n", string(got))
}

func TestEncode_UnknownKind(t *testing.T) {
	_, err := Encode(Frame{Kind: "bogus", Value: "x"})
	assert.Error(t, err)
}

func TestDecode_RoundTrip(t *testing.T) {
	in := []Frame{
		NewControlFrame(ControlData{ThreadID: "thread_1", MessageID: "msg_1"}),
		NewMessageFrame(NewAssistantMessage("msg_1", "")),
		NewTextFrame("Hel"),
		NewTextFrame("lo"),
		NewDataFrame(map[string]any{"progress": "indexing"}),
		NewErrorFrame("upstream failed"),
	}

	var stream []byte
	for _, f := range in {
		b, err := Encode(f)
		require.NoError(t, err)
		stream = append(stream, b...)
	}

	out, err := Decode(stream)
	require.NoError(t, err)
	require.Len(t, out, len(in))

	for i, f := range out {
		assert.Equal(t, in[i].Kind, f.Kind, "frame %d kind", i)
	}
	assert.Equal(t, "Hel", out[2].Value)
	assert.Equal(t, "lo", out[3].Value)
	assert.Equal(t, ControlData{ThreadID: "thread_1", MessageID: "msg_1"}, out[0].Value)
	assert.Equal(t, NewAssistantMessage("msg_1", ""), out[1].Value)
	assert.Equal(t, "upstream failed", out[5].Value)

	// Re-encoding the decoded frames reproduces the original bytes for the
	// structured kinds; the data message round-trips by value.
	reencoded, err := Encode(out[0])
	require.NoError(t, err)
	first, err := Encode(in[0])
	require.NoError(t, err)
	assert.Equal(t, first, reencoded)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode([]byte("0:\"truncated\""))
	assert.Error(t, err, "missing trailing newline")

	_, err = Decode([]byte("9:\"nope\"\n"))
	assert.Error(t, err, "unknown code")

	_, err = Decode([]byte("garbage\n"))
	assert.Error(t, err, "missing code separator")
}
