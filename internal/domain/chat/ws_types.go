package chat

// inboundEvent is what a connected peer may send: a chat message or a
// typing indicator. Exactly one field is expected per frame.
type inboundEvent struct {
	Message *string `json:"message,omitempty"`
	Typing  *bool   `json:"typing,omitempty"`
}

// MessageEvent is the broadcast payload for a persisted chat message.
type MessageEvent struct {
	Message    string `json:"message"`
	SenderID   int64  `json:"sender_id"`
	SenderName string `json:"sender_name"`
	Timestamp  string `json:"timestamp"`
}

// TypingEvent is the broadcast payload for a typing indicator. It is never
// persisted and carries no delivery guarantee.
type TypingEvent struct {
	Typing TypingPayload `json:"typing"`
}

type TypingPayload struct {
	UserID   int64  `json:"user_id"`
	UserName string `json:"user_name"`
	IsTyping bool   `json:"is_typing"`
}

// ErrorEvent is delivered to a single peer when its own action failed, e.g.
// a message that could not be persisted.
type ErrorEvent struct {
	Error ErrorPayload `json:"error"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
