// File: internal/services/events/router_test.go
package events_test

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HaswanthR-CIT/ECHO/internal/domain"
	"github.com/HaswanthR-CIT/ECHO/internal/realtime"
	"github.com/HaswanthR-CIT/ECHO/internal/repository/group"
	"github.com/HaswanthR-CIT/ECHO/internal/repository/message"
	"github.com/HaswanthR-CIT/ECHO/internal/repository/user"
	"github.com/HaswanthR-CIT/ECHO/internal/services"
	"github.com/HaswanthR-CIT/ECHO/internal/services/chatbot"
	"github.com/HaswanthR-CIT/ECHO/internal/services/events"
	"github.com/HaswanthR-CIT/ECHO/internal/services/membership"
	"github.com/HaswanthR-CIT/ECHO/internal/services/presence"
)

// ---- fakes -----------------------------------------------------------------

type fakeSession struct {
	id string

	mu     sync.Mutex
	events []capturedEvent
}

type capturedEvent struct {
	name string
	data any
}

func (f *fakeSession) ID() string { return f.id }

func (f *fakeSession) Send(event string, data any) error {
	f.mu.Lock()
	f.events = append(f.events, capturedEvent{name: event, data: data})
	f.mu.Unlock()
	return nil
}

func (f *fakeSession) count(event string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.events {
		if e.name == event {
			n++
		}
	}
	return n
}

func (f *fakeSession) lastMessage(event string) (*domain.Message, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.events) - 1; i >= 0; i-- {
		if f.events[i].name == event {
			if msg, ok := f.events[i].data.(*domain.Message); ok {
				return msg, true
			}
		}
	}
	return nil, false
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  []*domain.User
}

func (r *fakeUserRepo) byUsername(username string) *domain.User {
	for _, u := range r.users {
		if u.Username == username {
			return u
		}
	}
	return nil
}

func (r *fakeUserRepo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	u.ID = r.nextID
	r.users = append(r.users, u)
	return u, nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u := r.byUsername(username); u != nil {
		cp := *u
		return &cp, nil
	}
	return nil, user.ErrUserNotFound
}

func (r *fakeUserRepo) FindBySocketID(ctx context.Context, socketID string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.SocketID == socketID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *fakeUserRepo) SetPresence(ctx context.Context, username string, online bool, socketID string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.byUsername(username)
	if u == nil {
		if !online {
			return nil, user.ErrUserNotFound
		}
		r.nextID++
		u = &domain.User{ID: r.nextID, Username: username}
		r.users = append(r.users, u)
	}
	now := time.Now()
	u.Online = online
	u.SocketID = socketID
	u.LastLogin = &now
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) ClearPresenceBySocket(ctx context.Context, socketID string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.SocketID == socketID {
			now := time.Now()
			u.Online = false
			u.SocketID = ""
			u.LastLogin = &now
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *fakeUserRepo) FindAll(ctx context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

type fakeGroupRepo struct {
	mu     sync.Mutex
	users  *fakeUserRepo
	nextID uint
	groups map[uint]*domain.Group
}

func newFakeGroupRepo(users *fakeUserRepo) *fakeGroupRepo {
	return &fakeGroupRepo{users: users, groups: make(map[uint]*domain.Group)}
}

func (r *fakeGroupRepo) resolve(members []domain.User) []domain.User {
	resolved := make([]domain.User, 0, len(members))
	for _, m := range members {
		if u, err := r.users.FindByID(context.Background(), m.ID); err == nil {
			resolved = append(resolved, *u)
		}
	}
	return resolved
}

func (r *fakeGroupRepo) Create(ctx context.Context, g *domain.Group) (*domain.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	g.ID = r.nextID
	g.Members = r.resolve(g.Members)
	cp := *g
	r.groups[g.ID] = &cp
	return g, nil
}

func (r *fakeGroupRepo) FindByID(ctx context.Context, id uint) (*domain.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[id]
	if !ok {
		return nil, group.ErrGroupNotFound
	}
	cp := *g
	cp.Members = append([]domain.User(nil), g.Members...)
	return &cp, nil
}

func (r *fakeGroupRepo) FindByMember(ctx context.Context, userID uint) ([]domain.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Group
	for _, g := range r.groups {
		if g.HasMember(userID) {
			cp := *g
			cp.Members = append([]domain.User(nil), g.Members...)
			out = append(out, cp)
		}
	}
	return out, nil
}

func (r *fakeGroupRepo) AddMember(ctx context.Context, groupID, userID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[groupID]
	if !ok {
		return false, group.ErrGroupNotFound
	}
	if g.HasMember(userID) {
		return false, nil
	}
	u, err := r.users.FindByID(ctx, userID)
	if err != nil {
		return false, err
	}
	g.Members = append(g.Members, *u)
	return true, nil
}

func (r *fakeGroupRepo) RemoveMember(ctx context.Context, groupID, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[groupID]
	if !ok {
		return group.ErrGroupNotFound
	}
	kept := g.Members[:0]
	for _, m := range g.Members {
		if m.ID != userID {
			kept = append(kept, m)
		}
	}
	g.Members = kept
	return nil
}

func (r *fakeGroupRepo) Members(ctx context.Context, groupID uint) ([]domain.User, error) {
	g, err := r.FindByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return g.Members, nil
}

type fakeMessageRepo struct {
	mu     sync.Mutex
	nextID uint
	msgs   map[uint]domain.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{msgs: make(map[uint]domain.Message)}
}

func (r *fakeMessageRepo) Create(ctx context.Context, m *domain.Message) (*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	m.ID = r.nextID
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	r.msgs[m.ID] = *m
	return m, nil
}

func (r *fakeMessageRepo) FindByID(ctx context.Context, id uint) (*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.msgs[id]
	if !ok {
		return nil, message.ErrMessageNotFound
	}
	return &m, nil
}

func (r *fakeMessageRepo) Update(ctx context.Context, m *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.msgs[m.ID]; !ok {
		return message.ErrMessageNotFound
	}
	r.msgs[m.ID] = *m
	return nil
}

func (r *fakeMessageRepo) all() []domain.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Message, 0, len(r.msgs))
	for id := uint(1); id <= r.nextID; id++ {
		if m, ok := r.msgs[id]; ok {
			out = append(out, m)
		}
	}
	return out
}

func (r *fakeMessageRepo) FindForUser(ctx context.Context, username string) ([]domain.Message, error) {
	var out []domain.Message
	for _, m := range r.all() {
		if !m.IsGroup() && (m.Sender == username || m.Receiver == username) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) FindBetween(ctx context.Context, a, b string) ([]domain.Message, error) {
	var out []domain.Message
	for _, m := range r.all() {
		if !m.IsGroup() && ((m.Sender == a && m.Receiver == b) || (m.Sender == b && m.Receiver == a)) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) FindForGroup(ctx context.Context, groupID uint) ([]domain.Message, error) {
	var out []domain.Message
	for _, m := range r.all() {
		if m.IsGroup() && *m.GroupID == groupID {
			out = append(out, m)
		}
	}
	return out, nil
}

// ---- harness ---------------------------------------------------------------

type testEnv struct {
	t        *testing.T
	router   *events.Router
	mux      *realtime.Mux
	users    *fakeUserRepo
	groups   *fakeGroupRepo
	messages *fakeMessageRepo
	index    *membership.Index
}

func newTestEnv(t *testing.T) *testEnv {
	users := &fakeUserRepo{}
	groups := newFakeGroupRepo(users)
	messages := newFakeMessageRepo()
	mux := realtime.NewMux()
	logger := &services.NoOpLogger{}

	registry := presence.NewRegistry(users, mux, logger)
	index := membership.NewIndex(groups, users, mux, logger)
	matcher := chatbot.NewMatcher(chatbot.Replies(), chatbot.DefaultReply, rand.New(rand.NewSource(7)))
	router := events.NewRouter(registry, index, messages, mux, matcher, time.Second, logger)

	return &testEnv{t: t, router: router, mux: mux, users: users, groups: groups, messages: messages, index: index}
}

func (e *testEnv) dispatch(sess realtime.Session, event string, data any) {
	raw, err := json.Marshal(data)
	require.NoError(e.t, err)
	e.router.Dispatch(context.Background(), sess, realtime.Envelope{Event: event, Data: raw})
}

func (e *testEnv) connect(id string) *fakeSession {
	sess := &fakeSession{id: id}
	e.router.HandleConnect(sess)
	return sess
}

func (e *testEnv) login(id, username string) *fakeSession {
	sess := e.connect(id)
	e.dispatch(sess, realtime.EventLogin, username)
	return sess
}

func (e *testEnv) userID(username string) uint {
	u, err := e.users.FindByUsername(context.Background(), username)
	require.NoError(e.t, err)
	return u.ID
}

func (e *testEnv) makeGroup(name string, usernames ...string) *domain.Group {
	ids := make([]uint, 0, len(usernames))
	for _, username := range usernames {
		ids = append(ids, e.userID(username))
	}
	g, err := e.index.CreateGroup(context.Background(), name, ids, ids[0])
	require.NoError(e.t, err)
	return g
}

// ---- tests -----------------------------------------------------------------

func TestEventsBeforeLoginAreDropped(t *testing.T) {
	e := newTestEnv(t)
	sess := e.connect("conn-a")

	e.dispatch(sess, realtime.EventSendMessage, events.MessagePayload{
		Sender: "alice", Receiver: "bob", Content: "hi",
	})

	assert.Empty(t, e.messages.all())
	assert.Zero(t, sess.count(realtime.EventMessage))
}

func TestDirectMessageDeliversToBothParties(t *testing.T) {
	e := newTestEnv(t)
	alice := e.login("conn-a", "alice")
	bob := e.login("conn-b", "bob")

	e.dispatch(alice, realtime.EventSendMessage, events.MessagePayload{
		Sender: "alice", Receiver: "bob", Content: "hello bob",
	})

	msgs := e.messages.all()
	require.Len(t, msgs, 1)
	assert.Equal(t, "alice", msgs[0].Sender)
	assert.Equal(t, "bob", msgs[0].Receiver)
	assert.False(t, msgs[0].Deleted)
	assert.False(t, msgs[0].Edited)
	assert.False(t, msgs[0].Read)

	require.Equal(t, 1, alice.count(realtime.EventMessage))
	require.Equal(t, 1, bob.count(realtime.EventMessage))

	got, ok := bob.lastMessage(realtime.EventMessage)
	require.True(t, ok)
	assert.Equal(t, msgs[0].ID, got.ID)
}

func TestDirectMessageToOfflinePeerStillPersists(t *testing.T) {
	e := newTestEnv(t)
	alice := e.login("conn-a", "alice")

	e.dispatch(alice, realtime.EventSendMessage, events.MessagePayload{
		Sender: "alice", Receiver: "bob", Content: "are you there?",
	})

	require.Len(t, e.messages.all(), 1)
	assert.Equal(t, 1, alice.count(realtime.EventMessage))
}

func TestChatbotReplyIsPersistedAndDelivered(t *testing.T) {
	e := newTestEnv(t)
	alice := e.login("conn-a", "alice")

	e.dispatch(alice, realtime.EventSendToChatbot, events.MessagePayload{
		Sender: "alice", Content: "hello",
	})

	msgs := e.messages.all()
	require.Len(t, msgs, 2)
	assert.Equal(t, "alice", msgs[0].Sender)
	assert.Equal(t, chatbot.BotName, msgs[1].Sender)
	assert.Equal(t, "alice", msgs[1].Receiver)
	assert.Contains(t, []string{"Hi there!", "Hello! How’s it going?", "Hey! Nice to chat!"}, msgs[1].Content)

	assert.Equal(t, 1, alice.count(realtime.EventMessage))
	assert.Equal(t, 1, alice.count(realtime.EventChatbotMessage))
}

func TestChatbotSkipsAttachmentMessages(t *testing.T) {
	e := newTestEnv(t)
	alice := e.login("conn-a", "alice")

	e.dispatch(alice, realtime.EventSendToChatbot, events.MessagePayload{
		Sender: "alice", Content: "look at this", Image: "cat.png",
	})

	require.Len(t, e.messages.all(), 1)
	assert.Zero(t, alice.count(realtime.EventChatbotMessage))
}

func TestGroupFanOutSkipsSenderAndOfflineMembers(t *testing.T) {
	e := newTestEnv(t)
	alice := e.login("conn-a", "alice")
	bob := e.login("conn-b", "bob")
	carol := e.login("conn-c", "carol")
	dave := e.login("conn-d", "dave")
	g := e.makeGroup("friends", "alice", "bob", "carol", "dave")

	// dave goes offline before the message.
	e.router.HandleDisconnect(context.Background(), dave)

	e.dispatch(carol, realtime.EventSendGroupMessage, events.GroupMessagePayload{
		GroupID: g.ID, Sender: "carol", Content: "hi all",
	})

	msgs := e.messages.all()
	require.Len(t, msgs, 1)
	require.NotNil(t, msgs[0].GroupID)
	assert.Equal(t, g.ID, *msgs[0].GroupID)

	assert.Equal(t, 1, alice.count(realtime.EventGroupMessage))
	assert.Equal(t, 1, bob.count(realtime.EventGroupMessage))
	assert.Zero(t, carol.count(realtime.EventGroupMessage))
	assert.Zero(t, dave.count(realtime.EventGroupMessage))
}

func TestGroupMessageFromNonMemberIsDropped(t *testing.T) {
	e := newTestEnv(t)
	e.login("conn-a", "alice")
	e.login("conn-b", "bob")
	mallory := e.login("conn-m", "mallory")
	g := e.makeGroup("private", "alice", "bob")

	e.dispatch(mallory, realtime.EventSendGroupMessage, events.GroupMessagePayload{
		GroupID: g.ID, Sender: "mallory", Content: "let me in",
	})

	assert.Empty(t, e.messages.all())
}

func TestEditMessageTwiceKeepsEditedFlag(t *testing.T) {
	e := newTestEnv(t)
	alice := e.login("conn-a", "alice")
	bob := e.login("conn-b", "bob")

	e.dispatch(alice, realtime.EventSendMessage, events.MessagePayload{
		Sender: "alice", Receiver: "bob", Content: "first",
	})
	msgID := e.messages.all()[0].ID

	e.dispatch(alice, realtime.EventEditMessage, events.EditPayload{ID: msgID, Content: "second"})
	stored, err := e.messages.FindByID(context.Background(), msgID)
	require.NoError(t, err)
	assert.True(t, stored.Edited)
	assert.Equal(t, "second", stored.Content)

	e.dispatch(alice, realtime.EventEditMessage, events.EditPayload{ID: msgID, Content: "third"})
	stored, err = e.messages.FindByID(context.Background(), msgID)
	require.NoError(t, err)
	assert.True(t, stored.Edited)
	assert.Equal(t, "third", stored.Content)

	assert.Equal(t, 2, bob.count(realtime.EventMessageEdited))
}

func TestDeleteForEveryoneTombstonesIdempotently(t *testing.T) {
	e := newTestEnv(t)
	alice := e.login("conn-a", "alice")
	bob := e.login("conn-b", "bob")

	e.dispatch(alice, realtime.EventSendMessage, events.MessagePayload{
		Sender: "alice", Receiver: "bob", Content: "hello", Image: "pic.png",
	})
	msgID := e.messages.all()[0].ID
	e.dispatch(bob, realtime.EventMarkMessageRead, msgID)

	e.dispatch(alice, realtime.EventDeleteMessage, events.DeletePayload{MsgID: msgID, ForEveryone: true})

	stored, err := e.messages.FindByID(context.Background(), msgID)
	require.NoError(t, err)
	assert.True(t, stored.Deleted)
	assert.Equal(t, domain.DeletedPlaceholder, stored.Content)
	assert.Empty(t, stored.Image)
	assert.True(t, stored.Read, "read flag is independent of deletion")
	assert.False(t, stored.Edited)

	// Re-deleting reaches the same end state.
	e.dispatch(alice, realtime.EventDeleteMessage, events.DeletePayload{MsgID: msgID, ForEveryone: true})
	again, err := e.messages.FindByID(context.Background(), msgID)
	require.NoError(t, err)
	assert.Equal(t, stored.Content, again.Content)
	assert.True(t, again.Deleted)

	assert.Equal(t, 2, bob.count(realtime.EventMessageDeleted))
}

func TestDeleteForMeOnlyIsANoOp(t *testing.T) {
	e := newTestEnv(t)
	alice := e.login("conn-a", "alice")

	e.dispatch(alice, realtime.EventSendMessage, events.MessagePayload{
		Sender: "alice", Receiver: "bob", Content: "keep me",
	})
	msgID := e.messages.all()[0].ID

	e.dispatch(alice, realtime.EventDeleteMessage, events.DeletePayload{MsgID: msgID, ForEveryone: false})

	stored, err := e.messages.FindByID(context.Background(), msgID)
	require.NoError(t, err)
	assert.False(t, stored.Deleted)
	assert.Equal(t, "keep me", stored.Content)
	assert.Zero(t, alice.count(realtime.EventMessageDeleted))
}

func TestMarkMessageReadNotifiesBothParties(t *testing.T) {
	e := newTestEnv(t)
	alice := e.login("conn-a", "alice")
	bob := e.login("conn-b", "bob")

	e.dispatch(alice, realtime.EventSendMessage, events.MessagePayload{
		Sender: "alice", Receiver: "bob", Content: "read me",
	})
	msgID := e.messages.all()[0].ID

	e.dispatch(bob, realtime.EventMarkMessageRead, msgID)

	stored, err := e.messages.FindByID(context.Background(), msgID)
	require.NoError(t, err)
	assert.True(t, stored.Read)

	assert.Equal(t, 1, alice.count(realtime.EventMessageRead))
	assert.Equal(t, 1, bob.count(realtime.EventMessageRead))
}

func TestTypingExcludesSender(t *testing.T) {
	e := newTestEnv(t)
	alice := e.login("conn-a", "alice")
	bob := e.login("conn-b", "bob")
	carol := e.login("conn-c", "carol")
	g := e.makeGroup("friends", "alice", "bob", "carol")

	e.dispatch(alice, realtime.EventTyping, events.TypingPayload{Sender: "alice", GroupID: &g.ID})

	assert.Zero(t, alice.count(realtime.EventTyping))
	assert.Equal(t, 1, bob.count(realtime.EventTyping))
	assert.Equal(t, 1, carol.count(realtime.EventTyping))
}

func TestDirectTypingReachesOnlyReceiver(t *testing.T) {
	e := newTestEnv(t)
	alice := e.login("conn-a", "alice")
	bob := e.login("conn-b", "bob")

	e.dispatch(alice, realtime.EventStopTyping, events.TypingPayload{Sender: "alice", Receiver: "bob"})

	assert.Zero(t, alice.count(realtime.EventStopTyping))
	assert.Equal(t, 1, bob.count(realtime.EventStopTyping))
}

func TestRemovedMemberStopsReceivingGroupMessages(t *testing.T) {
	e := newTestEnv(t)
	alice := e.login("conn-a", "alice")
	bob := e.login("conn-b", "bob")
	g := e.makeGroup("friends", "alice", "bob")

	_, err := e.index.RemoveMember(context.Background(), g.ID, e.userID("bob"))
	require.NoError(t, err)

	e.dispatch(alice, realtime.EventSendGroupMessage, events.GroupMessagePayload{
		GroupID: g.ID, Sender: "alice", Content: "bob is gone",
	})

	assert.Zero(t, bob.count(realtime.EventGroupMessage))
	// Bob is still bound and reachable directly.
	assert.True(t, e.mux.Unicast("bob", realtime.EventMessage, nil))
}

func TestAddMemberNotifiesAndSubscribes(t *testing.T) {
	e := newTestEnv(t)
	alice := e.login("conn-a", "alice")
	bob := e.login("conn-b", "bob")
	carol := e.login("conn-c", "carol")
	g := e.makeGroup("friends", "alice", "bob")

	_, err := e.index.AddMember(context.Background(), g.ID, e.userID("carol"), e.userID("alice"))
	require.NoError(t, err)

	assert.Equal(t, 1, carol.count(realtime.EventPersonalNotification))
	assert.Equal(t, 1, alice.count(realtime.EventGroupNotification))
	assert.Equal(t, 1, bob.count(realtime.EventGroupNotification))

	// Carol now receives group traffic.
	e.dispatch(alice, realtime.EventSendGroupMessage, events.GroupMessagePayload{
		GroupID: g.ID, Sender: "alice", Content: "welcome carol",
	})
	assert.Equal(t, 1, carol.count(realtime.EventGroupMessage))
}

func TestDuplicateAddIsSilentNoOp(t *testing.T) {
	e := newTestEnv(t)
	e.login("conn-a", "alice")
	bob := e.login("conn-b", "bob")
	g := e.makeGroup("friends", "alice", "bob")
	before := bob.count(realtime.EventPersonalNotification)

	_, err := e.index.AddMember(context.Background(), g.ID, e.userID("bob"), e.userID("alice"))
	require.NoError(t, err)

	assert.Equal(t, before, bob.count(realtime.EventPersonalNotification))
	assert.Zero(t, bob.count(realtime.EventGroupNotification))
}

func TestReloginAsDifferentUserDropsOldGroupChannels(t *testing.T) {
	e := newTestEnv(t)
	conn1 := e.login("conn-1", "alice")
	carol := e.login("conn-c", "carol")
	g := e.makeGroup("friends", "alice", "carol")

	// The same connection logs out and comes back as bob, who is not a
	// member of alice's group.
	e.dispatch(conn1, realtime.EventLogout, "alice")
	e.dispatch(conn1, realtime.EventLogin, "bob")

	e.dispatch(carol, realtime.EventSendGroupMessage, events.GroupMessagePayload{
		GroupID: g.ID, Sender: "carol", Content: "alice only",
	})

	require.Len(t, e.messages.all(), 1)
	assert.Zero(t, conn1.count(realtime.EventGroupMessage))
	// Bob is bound and reachable; he just gets no group traffic.
	assert.True(t, e.mux.Unicast("bob", realtime.EventMessage, nil))
}

func TestLogoutMakesFurtherEventsUnauthenticated(t *testing.T) {
	e := newTestEnv(t)
	alice := e.login("conn-a", "alice")

	e.dispatch(alice, realtime.EventLogout, "alice")
	e.dispatch(alice, realtime.EventSendMessage, events.MessagePayload{
		Sender: "alice", Receiver: "bob", Content: "ghost",
	})

	assert.Empty(t, e.messages.all())
}

func TestGroupNotificationIsRelayedToChannel(t *testing.T) {
	e := newTestEnv(t)
	alice := e.login("conn-a", "alice")
	bob := e.login("conn-b", "bob")
	g := e.makeGroup("friends", "alice", "bob")

	e.dispatch(alice, realtime.EventGroupNotification, events.GroupNotificationPayload{
		GroupID: g.ID, Message: "meeting at noon",
	})

	assert.Equal(t, 1, bob.count(realtime.EventGroupNotification))
	assert.Equal(t, 1, alice.count(realtime.EventGroupNotification))
}
