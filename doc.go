// Package assistantstream adapts heterogeneous assistant-run event sources
// into one ordered, framed byte stream consumable by a client-side state
// reducer. Upstream run lifecycle events (message created, text deltas,
// completion, requires-action), caller-pushed full messages and opaque data
// payloads all collapse into a single deterministic stream with well-defined
// framing, ordering and termination.
//
// A session is driven by a caller-supplied Handler that receives bound send
// and forward operations. The harness guarantees the stream always begins
// with exactly one control frame and that the outbound channel is closed
// exactly once on every exit path; a handler failure becomes a single error
// frame followed by a clean end-of-stream, never a transport-level fault.
//
// Two entry points cover both transport styles with byte-identical framing:
//
//	// Pull: the consumer drains an io.ReadCloser.
//	resp := assistantstream.NewResponse(ctx, cfg, handler)
//	io.Copy(dst, resp)
//
//	// Push: frames are written into a caller-provided sink.
//	assistantstream.Pipe(ctx, w, cfg, handler)
//
// Upstream events arrive on a run.Event channel; the run/openai and
// run/anthropic packages adapt the provider streaming APIs into that
// vocabulary.
package assistantstream
