// Package srs implements the card scheduling engine: a two-phase
// spaced-repetition policy with a fixed-interval pre-review ladder for new
// material and an FSRS handoff for long-term retention.
//
// Everything in this package is a pure, synchronous transformation: the
// current time is always passed in explicitly, there is no I/O, no logging
// and no hidden randomness. Callers own persistence and must apply results
// as a whole-record replace inside a single per-card transaction.
package srs
