package protocol

// MessageKind defines type of message
type MessageKind string

const (
	MessageKindTokenizer MessageKind = "tokenizer"
	MessageKindSession   MessageKind = "session"
	MessageKindEvent     MessageKind = "event"
)

// Action defines action within a message kind
type Action string

const (
	ActionEncode     Action = "encode"
	ActionDecode     Action = "decode"
	ActionCount      Action = "count"
	ActionAdd        Action = "add"
	ActionSize       Action = "size"
	ActionHas        Action = "has"
	ActionVocabulary Action = "vocabulary"
	ActionList       Action = "list"
	ActionEcho       Action = "echo"
)

// Message represents a protocol message
type Message struct {
	Kind   MessageKind `json:"kind"`
	Action Action      `json:"action,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// EncodeRequest is the payload of a tokenizer/encode message.
type EncodeRequest struct {
	Text string `json:"text"`
}

// EncodeResult is the reply to a tokenizer/encode message.
type EncodeResult struct {
	Tokens []int `json:"tokens"`
}

// CountResult is the reply to a tokenizer/count message, which takes an
// EncodeRequest payload.
type CountResult struct {
	Count int `json:"count"`
	Words int `json:"words"`
	Runes int `json:"runes"`
}

// DecodeRequest is the payload of a tokenizer/decode message.
type DecodeRequest struct {
	Tokens []int `json:"tokens"`
}

// DecodeResult is the reply to a tokenizer/decode message.
type DecodeResult struct {
	Text string `json:"text"`
}

// TokenRequest is the payload of tokenizer/add and tokenizer/has messages.
type TokenRequest struct {
	Token string `json:"token"`
}

// HasResult is the reply to a tokenizer/has message.
type HasResult struct {
	Token   string `json:"token"`
	Present bool   `json:"present"`
}

// SizeResult is the reply to tokenizer/size and tokenizer/add messages.
type SizeResult struct {
	VocabularySize int `json:"vocabulary_size"`
}

// VocabularyResult is the reply to a tokenizer/vocabulary message.
type VocabularyResult struct {
	Words []string `json:"words"`
}

// SessionInfo contains information about a gateway session
type SessionInfo struct {
	ID             string `json:"id"`
	Clients        int    `json:"clients"`
	VocabularySize int    `json:"vocabulary_size"`
}
