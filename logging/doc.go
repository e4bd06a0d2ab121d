// Package logging provides a tiny abstraction over slog so the stream
// adapter can report lifecycle problems (write failures, recovered handler
// panics) without forcing a logging framework on callers. The default is
// NoOpLogger; pass a SlogAdapter (or any Logger implementation) via the
// session options to see diagnostics.
package logging
