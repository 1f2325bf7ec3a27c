// Package storage persists decks, cards and review history in SQLite.
//
// Card scheduling state lives alongside the card row; a review's
// read-modify-write happens inside a single transaction so concurrent
// reviews of the same card cannot interleave.
package storage
