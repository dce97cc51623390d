// File: internal/services/events/router.go
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/HaswanthR-CIT/ECHO/internal/domain"
	"github.com/HaswanthR-CIT/ECHO/internal/realtime"
	"github.com/HaswanthR-CIT/ECHO/internal/repository/message"
	"github.com/HaswanthR-CIT/ECHO/internal/services"
	"github.com/HaswanthR-CIT/ECHO/internal/services/chatbot"
	"github.com/HaswanthR-CIT/ECHO/internal/services/membership"
	"github.com/HaswanthR-CIT/ECHO/internal/services/presence"
)

// connState is the per-connection lifecycle: unauthenticated until a login
// succeeds, bound afterwards. The terminal closed state is represented by
// the connection no longer being tracked at all.
type connState int

const (
	stateUnauthenticated connState = iota
	stateBound
)

// Router receives inbound client events, performs their side effects
// (persist, presence, membership) and decides the outbound fan-out. For any
// event, persistence completes before delivery; a client fetching history
// right after a live event always observes it. Errors are logged and the
// event is dropped, never surfaced to the connection.
type Router struct {
	presence *presence.Registry
	groups   *membership.Index
	messages message.MessageRepository
	mux      *realtime.Mux
	matcher  *chatbot.Matcher
	logger   services.Logger

	// storeTimeout bounds persistence per event; on expiry the event is
	// dropped (at-most-once, no retry).
	storeTimeout time.Duration

	mu     sync.Mutex
	states map[string]connState
}

func NewRouter(
	reg *presence.Registry,
	groups *membership.Index,
	messages message.MessageRepository,
	mux *realtime.Mux,
	matcher *chatbot.Matcher,
	storeTimeout time.Duration,
	logger services.Logger,
) *Router {
	return &Router{
		presence:     reg,
		groups:       groups,
		messages:     messages,
		mux:          mux,
		matcher:      matcher,
		storeTimeout: storeTimeout,
		logger:       logger,
		states:       make(map[string]connState),
	}
}

// HandleConnect registers a fresh, still-unauthenticated connection.
func (r *Router) HandleConnect(sess realtime.Session) {
	r.mux.Register(sess)
	r.setState(sess.ID(), stateUnauthenticated)
}

// HandleDisconnect unbinds whatever user owned the connection and marks it
// terminally closed. Later events for the handle are discarded.
func (r *Router) HandleDisconnect(ctx context.Context, sess realtime.Session) {
	ctx, cancel := r.boundedCtx(ctx)
	defer cancel()

	r.presence.Disconnect(ctx, sess.ID())

	// Terminal: the handle never processes events again, so its state entry
	// can be dropped rather than kept as a tombstone.
	r.mu.Lock()
	delete(r.states, sess.ID())
	r.mu.Unlock()
}

// Dispatch routes one inbound event. Only login is meaningful while the
// connection is unauthenticated; everything else is dropped.
func (r *Router) Dispatch(ctx context.Context, sess realtime.Session, env realtime.Envelope) {
	st, live := r.stateOf(sess.ID())
	if !live {
		// Closed handle; discard.
		return
	}
	if st != stateBound && env.Event != realtime.EventLogin {
		r.logger.Debug("event before login dropped", "event", env.Event, "session_id", sess.ID())
		return
	}

	ctx, cancel := r.boundedCtx(ctx)
	defer cancel()

	switch env.Event {
	case realtime.EventLogin:
		r.handleLogin(ctx, sess, env.Data)
	case realtime.EventLogout:
		r.handleLogout(ctx, sess, env.Data)
	case realtime.EventSendMessage:
		r.handleSendMessage(ctx, env.Data)
	case realtime.EventSendToChatbot:
		r.handleSendToChatbot(ctx, env.Data)
	case realtime.EventSendGroupMessage:
		r.handleSendGroupMessage(ctx, env.Data)
	case realtime.EventGroupNotification:
		r.handleGroupNotification(env.Data)
	case realtime.EventEditMessage:
		r.handleEditMessage(ctx, env.Data)
	case realtime.EventDeleteMessage:
		r.handleDeleteMessage(ctx, env.Data)
	case realtime.EventMarkMessageRead:
		r.handleMarkMessageRead(ctx, env.Data)
	case realtime.EventTyping:
		r.handleTyping(realtime.EventTyping, env.Data)
	case realtime.EventStopTyping:
		r.handleTyping(realtime.EventStopTyping, env.Data)
	default:
		r.logger.Debug("unknown event dropped", "event", env.Event)
	}
}

func (r *Router) handleLogin(ctx context.Context, sess realtime.Session, data json.RawMessage) {
	var username string
	if err := json.Unmarshal(data, &username); err != nil || username == "" {
		r.logger.Warn("login with malformed username dropped", "error", err)
		return
	}

	u, err := r.presence.Bind(ctx, sess, username)
	if err != nil {
		r.logger.Error("login failed", "username", username, "error", err)
		return
	}
	if err := r.groups.SubscribeAll(ctx, sess, u.ID); err != nil {
		r.logger.Error("group subscription on login failed", "username", username, "error", err)
	}
	r.setState(sess.ID(), stateBound)
}

func (r *Router) handleLogout(ctx context.Context, sess realtime.Session, data json.RawMessage) {
	var username string
	if err := json.Unmarshal(data, &username); err != nil || username == "" {
		r.logger.Warn("logout with malformed username dropped", "error", err)
		return
	}

	r.presence.Logout(ctx, username)
	r.setState(sess.ID(), stateUnauthenticated)
}

func (r *Router) handleSendMessage(ctx context.Context, data json.RawMessage) {
	var p MessagePayload
	if err := json.Unmarshal(data, &p); err != nil || p.Sender == "" || p.Receiver == "" {
		r.logger.Warn("malformed direct message dropped", "error", err)
		return
	}

	msg, err := r.messages.Create(ctx, &domain.Message{
		Sender:   p.Sender,
		Receiver: p.Receiver,
		Content:  p.Content,
		Image:    p.Image,
	})
	if err != nil {
		r.logger.Error("direct message persist failed", "sender", p.Sender, "error", err)
		return
	}

	// Sender and receiver each get their own best-effort delivery; either
	// being offline is the expected steady state.
	r.mux.Unicast(msg.Sender, realtime.EventMessage, msg)
	r.mux.Unicast(msg.Receiver, realtime.EventMessage, msg)
}

func (r *Router) handleSendToChatbot(ctx context.Context, data json.RawMessage) {
	var p MessagePayload
	if err := json.Unmarshal(data, &p); err != nil || p.Sender == "" {
		r.logger.Warn("malformed chatbot message dropped", "error", err)
		return
	}
	if p.Receiver == "" {
		p.Receiver = chatbot.BotName
	}

	msg, err := r.messages.Create(ctx, &domain.Message{
		Sender:   p.Sender,
		Receiver: p.Receiver,
		Content:  p.Content,
		Image:    p.Image,
	})
	if err != nil {
		r.logger.Error("chatbot message persist failed", "sender", p.Sender, "error", err)
		return
	}
	r.mux.Unicast(msg.Sender, realtime.EventMessage, msg)

	// No reply is attempted for attachment messages.
	if p.Image != "" {
		return
	}

	reply, err := r.messages.Create(ctx, &domain.Message{
		Sender:   chatbot.BotName,
		Receiver: p.Sender,
		Content:  r.matcher.Match(p.Content),
	})
	if err != nil {
		r.logger.Error("chatbot reply persist failed", "receiver", p.Sender, "error", err)
		return
	}
	r.mux.Unicast(p.Sender, realtime.EventChatbotMessage, reply)
}

func (r *Router) handleSendGroupMessage(ctx context.Context, data json.RawMessage) {
	var p GroupMessagePayload
	if err := json.Unmarshal(data, &p); err != nil || p.Sender == "" || p.GroupID == 0 {
		r.logger.Warn("malformed group message dropped", "error", err)
		return
	}

	members, err := r.groups.MembersOf(ctx, p.GroupID)
	if err != nil {
		r.logger.Error("group lookup failed", "group_id", p.GroupID, "error", err)
		return
	}
	if !isMember(members, p.Sender) {
		r.logger.Warn("group message from non-member dropped", "group_id", p.GroupID, "sender", p.Sender)
		return
	}

	groupID := p.GroupID
	msg, err := r.messages.Create(ctx, &domain.Message{
		Sender:  p.Sender,
		GroupID: &groupID,
		Content: p.Content,
		Image:   p.Image,
	})
	if err != nil {
		r.logger.Error("group message persist failed", "group_id", p.GroupID, "error", err)
		return
	}

	// The sender renders their own message locally; no self-echo.
	r.mux.Multicast(realtime.GroupChannel(groupID), realtime.EventGroupMessage, msg, p.Sender)
}

func (r *Router) handleGroupNotification(data json.RawMessage) {
	var p GroupNotificationPayload
	if err := json.Unmarshal(data, &p); err != nil || p.GroupID == 0 {
		r.logger.Warn("malformed group notification dropped", "error", err)
		return
	}
	r.mux.Multicast(realtime.GroupChannel(p.GroupID), realtime.EventGroupNotification, json.RawMessage(data), "")
}

func (r *Router) handleEditMessage(ctx context.Context, data json.RawMessage) {
	var p EditPayload
	if err := json.Unmarshal(data, &p); err != nil || p.ID == 0 {
		r.logger.Warn("malformed edit dropped", "error", err)
		return
	}

	msg, err := r.messages.FindByID(ctx, p.ID)
	if err != nil {
		r.logger.Error("edit target lookup failed", "message_id", p.ID, "error", err)
		return
	}

	msg.Content = p.Content
	msg.Edited = true
	if err := r.messages.Update(ctx, msg); err != nil {
		r.logger.Error("edit persist failed", "message_id", p.ID, "error", err)
		return
	}

	r.fanOutMessage(realtime.EventMessageEdited, msg)
}

func (r *Router) handleDeleteMessage(ctx context.Context, data json.RawMessage) {
	var p DeletePayload
	if err := json.Unmarshal(data, &p); err != nil || p.MsgID == 0 {
		r.logger.Warn("malformed delete dropped", "error", err)
		return
	}
	if !p.ForEveryone {
		return
	}

	msg, err := r.messages.FindByID(ctx, p.MsgID)
	if err != nil {
		r.logger.Error("delete target lookup failed", "message_id", p.MsgID, "error", err)
		return
	}

	msg.Tombstone()
	if err := r.messages.Update(ctx, msg); err != nil {
		r.logger.Error("delete persist failed", "message_id", p.MsgID, "error", err)
		return
	}

	r.fanOutMessage(realtime.EventMessageDeleted, msg)
}

func (r *Router) handleMarkMessageRead(ctx context.Context, data json.RawMessage) {
	var msgID uint
	if err := json.Unmarshal(data, &msgID); err != nil || msgID == 0 {
		r.logger.Warn("malformed read receipt dropped", "error", err)
		return
	}

	msg, err := r.messages.FindByID(ctx, msgID)
	if err != nil {
		r.logger.Error("read target lookup failed", "message_id", msgID, "error", err)
		return
	}

	msg.Read = true
	if err := r.messages.Update(ctx, msg); err != nil {
		r.logger.Error("read persist failed", "message_id", msgID, "error", err)
		return
	}

	r.fanOutMessage(realtime.EventMessageRead, msg)
}

// handleTyping relays the indicator without persistence, excluding the
// sender so a user never receives their own typing echo.
func (r *Router) handleTyping(event string, data json.RawMessage) {
	var p TypingPayload
	if err := json.Unmarshal(data, &p); err != nil || p.Sender == "" {
		r.logger.Warn("malformed typing signal dropped", "event", event, "error", err)
		return
	}

	if p.GroupID != nil {
		r.mux.Multicast(realtime.GroupChannel(*p.GroupID), event, json.RawMessage(data), p.Sender)
		return
	}
	if p.Receiver != "" && p.Receiver != p.Sender {
		r.mux.Unicast(p.Receiver, event, json.RawMessage(data))
	}
}

// fanOutMessage delivers a message-state event to its audience: the group
// channel for group messages, the two parties for direct ones.
func (r *Router) fanOutMessage(event string, msg *domain.Message) {
	if msg.IsGroup() {
		r.mux.Multicast(realtime.GroupChannel(*msg.GroupID), event, msg, "")
		return
	}
	r.mux.Unicast(msg.Sender, event, msg)
	if msg.Receiver != "" {
		r.mux.Unicast(msg.Receiver, event, msg)
	}
}

func isMember(members []domain.User, username string) bool {
	for _, m := range members {
		if m.Username == username {
			return true
		}
	}
	return false
}

func (r *Router) boundedCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.storeTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.storeTimeout)
}

func (r *Router) stateOf(sessionID string) (connState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.states[sessionID]
	return st, ok
}

func (r *Router) setState(sessionID string, st connState) {
	r.mu.Lock()
	r.states[sessionID] = st
	r.mu.Unlock()
}
