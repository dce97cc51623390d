// File: internal/services/events/payloads.go
package events

// MessagePayload carries a direct (or chatbot-bound) message.
type MessagePayload struct {
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
	Content  string `json:"content"`
	Image    string `json:"image"`
}

// GroupMessagePayload carries a message addressed to a group.
type GroupMessagePayload struct {
	GroupID uint   `json:"groupId"`
	Sender  string `json:"sender"`
	Content string `json:"content"`
	Image   string `json:"image"`
}

// GroupNotificationPayload is relayed verbatim to the group channel.
type GroupNotificationPayload struct {
	GroupID uint   `json:"groupId"`
	Message string `json:"message"`
}

// EditPayload updates a message's content in place.
type EditPayload struct {
	ID      uint   `json:"_id"`
	Content string `json:"content"`
}

// DeletePayload requests a message deletion. ForEveryone=false is a no-op;
// there are no per-user delete semantics despite the flag's name.
type DeletePayload struct {
	MsgID       uint `json:"msgId"`
	ForEveryone bool `json:"forEveryone"`
}

// TypingPayload signals typing state. Exactly one of Receiver/GroupID is
// meaningful.
type TypingPayload struct {
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
	GroupID  *uint  `json:"groupId"`
}
