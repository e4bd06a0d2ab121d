package channel

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/hupe1980/assistantstream/frame"
)

// Pull is the consumer-driven backend: encoded frames flow through an
// in-memory pipe and Enqueue waits for the consumer's read timing, which is
// the backend's natural flow control. The zero value is not usable; use
// NewPull.
type Pull struct {
	pr *io.PipeReader
	pw *io.PipeWriter

	closeOnce sync.Once
}

// Compile-time assertions.
var (
	_ Channel       = (*Pull)(nil)
	_ io.ReadCloser = (*Pull)(nil)
)

// NewPull creates a pull channel ready for writing and reading.
func NewPull() *Pull {
	pr, pw := io.Pipe()
	return &Pull{pr: pr, pw: pw}
}

// Enqueue encodes one frame and writes it to the pipe. It blocks until the
// consumer has read the bytes, returns ErrCanceled (or the consumer's cancel
// error) once the read side is gone, and ErrClosed after Close.
func (p *Pull) Enqueue(f frame.Frame) error {
	b, err := frame.Encode(f)
	if err != nil {
		return err
	}
	if _, err := p.pw.Write(b); err != nil {
		if errors.Is(err, io.ErrClosedPipe) {
			return ErrClosed
		}
		return fmt.Errorf("channel: enqueue: %w", err)
	}
	return nil
}

// Close ends the stream: pending and future reads drain the remaining bytes
// and then observe io.EOF. Safe to call more than once.
func (p *Pull) Close() error {
	p.closeOnce.Do(func() { _ = p.pw.Close() })
	return nil
}

// Read implements io.Reader for the consumer side.
func (p *Pull) Read(b []byte) (int, error) {
	return p.pr.Read(b)
}

// CancelRead notifies the channel that the consumer stops reading. Future
// reads fail with err (ErrCanceled if nil) and future writes fail, which the
// session treats as fatal. It does not interrupt in-flight producer logic.
func (p *Pull) CancelRead(err error) {
	if err == nil {
		err = ErrCanceled
	}
	_ = p.pr.CloseWithError(err)
}
