package tokenizer

import (
	"fmt"
	"unicode/utf8"
)

// Kind distinguishes vocabulary words from raw characters.
type Kind uint8

const (
	KindWord Kind = iota
	KindRune
)

func (k Kind) String() string {
	switch k {
	case KindWord:
		return "word"
	case KindRune:
		return "rune"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Token is a single encoded unit. For KindWord, Value is a vocabulary id;
// for KindRune, Value is a Unicode code point.
type Token struct {
	Kind  Kind
	Value int
}

// Word returns a token referring to vocabulary id.
func Word(id int) Token { return Token{Kind: KindWord, Value: id} }

// Rune returns a token carrying a raw character.
func Rune(r rune) Token { return Token{Kind: KindRune, Value: int(r)} }

// ID renders the token as its integer wire form.
func (t Token) ID() int {
	if t.Kind == KindRune {
		return t.Value + UnknownOffset
	}
	return t.Value
}

func (t Token) String() string {
	if t.Kind == KindRune {
		return fmt.Sprintf("%s(%q)", t.Kind, rune(t.Value))
	}
	return fmt.Sprintf("%s(%d)", t.Kind, t.Value)
}

// runeFromID interprets a wire id as a raw character.
func runeFromID(id int) (rune, bool) {
	cp := id - UnknownOffset
	if cp < 0 || cp > utf8.MaxRune {
		return 0, false
	}
	r := rune(cp)
	if !utf8.ValidRune(r) {
		return 0, false
	}
	return r, true
}
