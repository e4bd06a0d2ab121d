// Package run defines the vocabulary of upstream assistant-run events the
// stream adapter consumes. An upstream run is an external long-lived process;
// this package models only its observable event sequence: message creation,
// incremental message deltas and the two terminal states the adapter captures
// (completed and requires-action).
//
// Events carry a Kind discriminator so the vocabulary can grow upstream
// without breaking consumers: the adapter maps only the kinds it knows and
// silently ignores everything else. Events arrive on a channel that must
// terminate; producers close it when the run stream ends.
//
// The openai and anthropic subpackages adapt the respective provider
// streaming APIs into this vocabulary.
package run
