package tokenizer

// seedWords is the fixed initial vocabulary. Ids are assigned by position,
// so existing entries must never be reordered or removed.
var seedWords = []string{
	// articles
	"a", "an", "the",
	// prepositions
	"in", "on", "at", "to", "for", "of", "with", "by", "from", "up", "down",
	// conjunctions
	"and", "or", "but", "if", "when", "while", "because", "although",
	// verbs
	"is", "are", "was", "were", "be", "been", "have", "has", "had", "do", "does", "did",
	"will", "would", "could", "should", "can", "may", "might", "must",
	// common words
	"hello", "world", "test", "text", "token", "encode", "decode", "this", "that", "these", "those",
	"here", "there", "where", "what", "why", "how", "who", "which", "whose",
}

// SeedSize returns the number of words every Tokenizer starts with.
func SeedSize() int { return len(seedWords) }
