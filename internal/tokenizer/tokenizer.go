// Package tokenizer maps text to integer token ids at word granularity.
//
// Words found in the vocabulary encode to their id. Any other word encodes
// to one id per character, each equal to the character's code point plus
// UnknownOffset. Decoding joins the pieces with single spaces, so an unknown
// word comes back as its characters separated by spaces.
//
// Words are separated by runs of the characters IsSpace accepts: the
// unicode.IsSpace set without U+0085 (NEL) and with U+FEFF (BOM), the same
// set an ECMAScript \s class matches. Ids produced by other implementations
// of this vocabulary therefore line up for every input.
package tokenizer

import (
	"fmt"
	"strings"
	"sync"
	"unicode"
)

// UnknownOffset is added to the code point of every character of an unknown
// word. Vocabulary ids are kept strictly below it.
const UnknownOffset = 1000

// IsSpace reports whether r separates words.
func IsSpace(r rune) bool {
	switch r {
	case '\u0085':
		return false
	case '\ufeff':
		return true
	}
	return unicode.IsSpace(r)
}

// Tokenizer owns a bidirectional word/id vocabulary. It is safe for
// concurrent use.
type Tokenizer struct {
	mu      sync.RWMutex
	forward map[string]int
	reverse []string
}

// New creates a tokenizer holding the seed vocabulary.
func New() *Tokenizer {
	t := &Tokenizer{
		forward: make(map[string]int, len(seedWords)),
		reverse: make([]string, 0, len(seedWords)),
	}
	for _, word := range seedWords {
		t.insert(strings.ToLower(word))
	}
	return t
}

// insert assigns the next id to word. Callers hold the write lock.
func (t *Tokenizer) insert(word string) int {
	id := len(t.reverse)
	t.forward[word] = id
	t.reverse = append(t.reverse, word)
	return id
}

// Encode converts text into token ids.
func (t *Tokenizer) Encode(text string) ([]int, error) {
	tokens, err := t.EncodeTokens(text)
	if err != nil {
		return nil, err
	}
	ids := make([]int, len(tokens))
	for i, tok := range tokens {
		ids[i] = tok.ID()
	}
	return ids, nil
}

// EncodeTokens converts text into tagged tokens.
func (t *Tokenizer) EncodeTokens(text string) ([]Token, error) {
	if text == "" {
		return nil, fmt.Errorf("encode: text must be non-empty: %w", ErrInvalidInput)
	}

	words := strings.FieldsFunc(strings.ToLower(text), IsSpace)

	t.mu.RLock()
	defer t.mu.RUnlock()

	tokens := make([]Token, 0, len(words))
	for _, word := range words {
		if id, ok := t.forward[word]; ok {
			tokens = append(tokens, Word(id))
			continue
		}
		for _, r := range word {
			tokens = append(tokens, Rune(r))
		}
	}
	return tokens, nil
}

// Decode converts token ids back into text. Ids that are neither a
// vocabulary entry nor an offset code point fail with ErrInvalidInput.
func (t *Tokenizer) Decode(ids []int) (string, error) {
	tokens := make([]Token, len(ids))

	t.mu.RLock()
	for i, id := range ids {
		if id >= 0 && id < len(t.reverse) {
			tokens[i] = Word(id)
			continue
		}
		r, ok := runeFromID(id)
		if !ok {
			t.mu.RUnlock()
			return "", fmt.Errorf("decode: token %d at position %d is not a word id or character code: %w", id, i, ErrInvalidInput)
		}
		tokens[i] = Rune(r)
	}
	t.mu.RUnlock()

	return t.DecodeTokens(tokens)
}

// DecodeTokens renders tagged tokens as space-joined text.
func (t *Tokenizer) DecodeTokens(tokens []Token) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	pieces := make([]string, len(tokens))
	for i, tok := range tokens {
		switch tok.Kind {
		case KindWord:
			if tok.Value < 0 || tok.Value >= len(t.reverse) {
				return "", fmt.Errorf("decode: unknown word id %d at position %d: %w", tok.Value, i, ErrInvalidInput)
			}
			pieces[i] = t.reverse[tok.Value]
		case KindRune:
			r, ok := runeFromID(tok.ID())
			if !ok {
				return "", fmt.Errorf("decode: invalid code point %d at position %d: %w", tok.Value, i, ErrInvalidInput)
			}
			pieces[i] = string(r)
		default:
			return "", fmt.Errorf("decode: unsupported token kind %s at position %d: %w", tok.Kind, i, ErrInvalidInput)
		}
	}
	return strings.Join(pieces, " "), nil
}

// AddToken registers a word. Adding a word that is already present is a
// no-op.
func (t *Tokenizer) AddToken(token string) error {
	if token == "" {
		return fmt.Errorf("add token: token must be non-empty: %w", ErrInvalidInput)
	}
	word := strings.ToLower(token)

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.forward[word]; ok {
		return nil
	}
	if len(t.reverse) >= UnknownOffset {
		return fmt.Errorf("add token %q: %d words already registered: %w", word, len(t.reverse), ErrVocabularyFull)
	}
	t.insert(word)
	return nil
}

// VocabularySize returns the number of registered words.
func (t *Tokenizer) VocabularySize() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.forward)
}

// HasToken reports whether token is registered, ignoring case.
func (t *Tokenizer) HasToken(token string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.forward[strings.ToLower(token)]
	return ok
}

// Lookup returns the word registered under id.
func (t *Tokenizer) Lookup(id int) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if id < 0 || id >= len(t.reverse) {
		return "", false
	}
	return t.reverse[id], true
}

// Words returns the vocabulary in id order.
func (t *Tokenizer) Words() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]string(nil), t.reverse...)
}
