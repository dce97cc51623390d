// File: internal/domain/message.go
package domain

import "time"

// DeletedPlaceholder replaces the content of a message deleted for everyone.
const DeletedPlaceholder = "This message was deleted"

// Message is a single chat message. Exactly one of Receiver/GroupID is set:
// Receiver for direct (and chatbot) messages, GroupID for group messages.
// Read, Edited and Deleted are independent flags.
type Message struct {
	ID        uint      `json:"_id" gorm:"primarykey"`
	Sender    string    `json:"sender" gorm:"index;not null"`
	Receiver  string    `json:"receiver" gorm:"index"`
	GroupID   *uint     `json:"groupId" gorm:"index"`
	Content   string    `json:"content"`
	Image     string    `json:"image"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
	Edited    bool      `json:"edited"`
	Deleted   bool      `json:"deleted"`
}

// IsGroup reports whether the message belongs to a group conversation.
func (m *Message) IsGroup() bool {
	return m.GroupID != nil
}

// Tombstone replaces the message content for a delete-for-everyone.
// Idempotent: deleting an already deleted message leaves the same end state.
// Edited and Read are left untouched.
func (m *Message) Tombstone() {
	m.Content = DeletedPlaceholder
	m.Image = ""
	m.Deleted = true
}
