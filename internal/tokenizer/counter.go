package tokenizer

import "fmt"

// TokenEncoder converts text into tagged tokens.
type TokenEncoder interface {
	EncodeTokens(text string) ([]Token, error)
}

// Count breaks an encoding down by token kind.
type Count struct {
	Words int
	Runes int
}

// Total returns the number of ids the text encodes to.
func (c Count) Total() int { return c.Words + c.Runes }

// Counter measures how text encodes without materializing the ids.
type Counter struct {
	Encoder TokenEncoder
}

// Count encodes text and tallies the result by kind.
func (c Counter) Count(text string) (Count, error) {
	if c.Encoder == nil {
		return Count{}, fmt.Errorf("count: encoder is nil")
	}
	tokens, err := c.Encoder.EncodeTokens(text)
	if err != nil {
		return Count{}, err
	}

	var n Count
	for _, tok := range tokens {
		if tok.Kind == KindWord {
			n.Words++
		} else {
			n.Runes++
		}
	}
	return n, nil
}
