package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientBaseWords is returned by sampling when no length bucket
	// holds at least two base words that are also dictionary words.
	ErrInsufficientBaseWords = errors.New("no word length has at least 2 usable base words")

	// ErrMalformedInput marks input that cannot be processed at all.
	ErrMalformedInput = errors.New("malformed input")

	// ErrInsufficientWords is returned when a ladder has fewer than 2 words.
	ErrInsufficientWords = fmt.Errorf("%w: puzzle must have at least 2 words", ErrMalformedInput)

	// ErrQuotaUnmet is returned when a batch ran out of attempts before
	// collecting the requested number of puzzles.
	ErrQuotaUnmet = errors.New("puzzle quota not met")

	// ErrNoLadder is returned when the two words are not connected.
	ErrNoLadder = errors.New("no ladder between words")

	// ErrNotFound is returned by storage when no record matches an id.
	ErrNotFound = errors.New("puzzle not found")
)
