// Package channel abstracts the outbound destination of an assistant stream:
// something that accepts frames in order and is closed exactly once when the
// session ends. Two interchangeable backends exist with identical framing:
//
//   - Pull: an in-memory pipe the consumer drains through io.Reader; writes
//     wait for the consumer's read timing and the consumer can cancel future
//     reads without interrupting the producer's in-flight work.
//   - Push: frames are written straight into a caller-provided io.Writer
//     (typically an http.ResponseWriter) and flushed as they arrive.
//
// Both backends preserve exact frame order and neither drops nor duplicates
// frames. The harness owns Close; Close is idempotent on both backends.
package channel
