package tokenizer

import "errors"

var (
	// ErrInvalidInput is returned for empty text, empty tokens and token ids
	// that do not map to a word or a valid code point.
	ErrInvalidInput = errors.New("invalid input")

	// ErrVocabularyFull is returned when a new word would receive an id that
	// collides with the unknown-word offset range.
	ErrVocabularyFull = errors.New("vocabulary full")
)
