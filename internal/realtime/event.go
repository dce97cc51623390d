// File: internal/realtime/event.go
package realtime

import "encoding/json"

// Inbound event names accepted from clients.
const (
	EventLogin             = "login"
	EventLogout            = "logout"
	EventSendMessage       = "sendMessage"
	EventSendToChatbot     = "sendMessageToChatbot"
	EventSendGroupMessage  = "sendGroupMessage"
	EventGroupNotification = "groupNotification"
	EventEditMessage       = "editMessage"
	EventDeleteMessage     = "deleteMessage"
	EventMarkMessageRead   = "markMessageRead"
	EventTyping            = "typing"
	EventStopTyping        = "stopTyping"
)

// Outbound event names emitted to clients.
const (
	EventUserList             = "userList"
	EventUserDisconnected     = "userDisconnected"
	EventMessage              = "message"
	EventChatbotMessage       = "chatbotMessage"
	EventGroupMessage         = "groupMessage"
	EventPersonalNotification = "personalNotification"
	EventMessageEdited        = "messageEdited"
	EventMessageDeleted       = "messageDeletedForEveryone"
	EventMessageRead          = "messageRead"
)

// Envelope is the wire frame for every event in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// NewEnvelope marshals data into an outbound frame.
func NewEnvelope(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}
