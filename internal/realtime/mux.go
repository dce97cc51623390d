// File: internal/realtime/mux.go
package realtime

import (
	"fmt"
	"sync"
)

// UserChannel names the personal channel every bound connection joins.
func UserChannel(username string) string { return "user:" + username }

// GroupChannel names the fan-out channel for a group conversation.
func GroupChannel(groupID uint) string { return fmt.Sprintf("group:%d", groupID) }

// Mux owns the set of live connections, the binding between usernames and
// connections, and the channel subscriptions used for fan-out. Delivery is
// fire-and-forget: an offline or stale recipient is skipped, never an error.
type Mux struct {
	mu           sync.RWMutex
	sessions     map[string]Session            // session ID -> session
	userSession  map[string]string             // username -> session ID
	sessionUser  map[string]string             // session ID -> username
	channels     map[string]map[string]Session // channel -> session ID -> session
	sessionChans map[string]map[string]struct{}
}

// NewMux constructs an initialized multiplexer.
func NewMux() *Mux {
	return &Mux{
		sessions:     make(map[string]Session),
		userSession:  make(map[string]string),
		sessionUser:  make(map[string]string),
		channels:     make(map[string]map[string]Session),
		sessionChans: make(map[string]map[string]struct{}),
	}
}

// Register tracks a freshly accepted connection. It carries no user identity
// until Bind.
func (m *Mux) Register(sess Session) {
	m.mu.Lock()
	m.sessions[sess.ID()] = sess
	m.sessionChans[sess.ID()] = make(map[string]struct{})
	m.mu.Unlock()
}

// Unregister drops a connection and all of its state. Returns the username
// the connection was bound to, if any.
func (m *Mux) Unregister(sessionID string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[sessionID]; !ok {
		return "", false
	}
	delete(m.sessions, sessionID)

	m.dropSubscriptionsLocked(sessionID)
	delete(m.sessionChans, sessionID)

	username, bound := m.sessionUser[sessionID]
	if bound {
		delete(m.sessionUser, sessionID)
		if current, ok := m.userSession[username]; ok && current == sessionID {
			delete(m.userSession, username)
		}
	}
	return username, bound
}

// Bind associates the session with a username. A later bind for the same
// user supersedes any earlier one (last-writer-wins); the superseded
// connection stays registered but loses its binding. Channel subscriptions
// belong to the binding, not the connection: whenever a session loses its
// binding here, its subscriptions are dropped with it, so a connection that
// logs back in as someone else starts from a clean slate.
func (m *Mux) Bind(sess Session, username string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[sess.ID()]; !ok {
		return
	}

	if prevID, ok := m.userSession[username]; ok && prevID != sess.ID() {
		delete(m.sessionUser, prevID)
		m.dropSubscriptionsLocked(prevID)
	}
	if prevUser, ok := m.sessionUser[sess.ID()]; ok && prevUser != username {
		if current, ok := m.userSession[prevUser]; ok && current == sess.ID() {
			delete(m.userSession, prevUser)
		}
		m.dropSubscriptionsLocked(sess.ID())
	}

	m.userSession[username] = sess.ID()
	m.sessionUser[sess.ID()] = username
}

// Unbind clears the session's user association and its channel
// subscriptions without dropping the connection itself. Unknown sessions
// are a silent no-op.
func (m *Mux) Unbind(sessionID string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	username, ok := m.sessionUser[sessionID]
	if !ok {
		return "", false
	}
	delete(m.sessionUser, sessionID)
	if current, ok := m.userSession[username]; ok && current == sessionID {
		delete(m.userSession, username)
	}
	m.dropSubscriptionsLocked(sessionID)
	return username, true
}

// UserOf returns the username bound to the session, if any.
func (m *Mux) UserOf(sessionID string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	username, ok := m.sessionUser[sessionID]
	return username, ok
}

// Lookup returns the live session currently bound to the user. Absent means
// the user never bound or most recently unbound.
func (m *Mux) Lookup(username string) (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sessionID, ok := m.userSession[username]
	if !ok {
		return nil, false
	}
	sess, ok := m.sessions[sessionID]
	return sess, ok
}

// Subscribe joins the session to a channel.
func (m *Mux) Subscribe(sessionID, channel string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[sessionID]
	if !ok {
		return
	}
	room := m.channels[channel]
	if room == nil {
		room = make(map[string]Session)
		m.channels[channel] = room
	}
	room[sessionID] = sess
	m.sessionChans[sessionID][channel] = struct{}{}
}

// Unsubscribe removes the session from a channel.
func (m *Mux) Unsubscribe(sessionID, channel string) {
	m.mu.Lock()
	m.leaveLocked(channel, sessionID)
	m.mu.Unlock()
}

// UnsubscribeUser removes whichever session is bound to the user from a
// channel. Used when group membership changes while the member is online.
func (m *Mux) UnsubscribeUser(username, channel string) {
	m.mu.Lock()
	if sessionID, ok := m.userSession[username]; ok {
		m.leaveLocked(channel, sessionID)
	}
	m.mu.Unlock()
}

// Unicast delivers one event to the user's current connection. Delivery
// only happens if the user is bound AND the handle is still live; a miss is
// the expected steady state for offline peers and returns false.
func (m *Mux) Unicast(username, event string, data any) bool {
	m.mu.RLock()
	sessionID, ok := m.userSession[username]
	if !ok {
		m.mu.RUnlock()
		return false
	}
	sess, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if !ok || sess == nil {
		return false
	}
	return sess.Send(event, data) == nil
}

// Multicast delivers one event to every connection subscribed to the
// channel, optionally skipping the origin user. Each delivery runs on its
// own goroutine so one slow recipient cannot stall the rest; Multicast
// returns once every attempt has finished.
func (m *Mux) Multicast(channel, event string, data any, excludeUser string) int {
	m.mu.RLock()
	targets := make([]Session, 0, len(m.channels[channel]))
	for sessionID, sess := range m.channels[channel] {
		username, bound := m.sessionUser[sessionID]
		if !bound {
			// Subscribed but logged out; skip until it binds again.
			continue
		}
		if excludeUser != "" && username == excludeUser {
			continue
		}
		targets = append(targets, sess)
	}
	m.mu.RUnlock()

	return m.deliver(targets, event, data)
}

// Broadcast delivers one event to every live connection, bound or not.
// Used for the roster, which all clients display.
func (m *Mux) Broadcast(event string, data any) int {
	m.mu.RLock()
	targets := make([]Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		targets = append(targets, sess)
	}
	m.mu.RUnlock()

	return m.deliver(targets, event, data)
}

func (m *Mux) deliver(targets []Session, event string, data any) int {
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		delivered int
	)
	for _, sess := range targets {
		wg.Add(1)
		go func(s Session) {
			defer wg.Done()
			if s.Send(event, data) == nil {
				mu.Lock()
				delivered++
				mu.Unlock()
			}
		}(sess)
	}
	wg.Wait()
	return delivered
}

// dropSubscriptionsLocked removes the session from every channel it joined.
// Caller holds m.mu.
func (m *Mux) dropSubscriptionsLocked(sessionID string) {
	for ch := range m.sessionChans[sessionID] {
		m.leaveLocked(ch, sessionID)
	}
}

func (m *Mux) leaveLocked(channel, sessionID string) {
	room := m.channels[channel]
	if room == nil {
		return
	}
	delete(room, sessionID)
	if len(room) == 0 {
		delete(m.channels, channel)
	}
	if chans, ok := m.sessionChans[sessionID]; ok {
		delete(chans, channel)
	}
}
