// File: internal/realtime/mux_test.go
package realtime

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	id   string
	fail bool

	mu     sync.Mutex
	events []string
}

func (f *fakeSession) ID() string { return f.id }

func (f *fakeSession) Send(event string, data any) error {
	if f.fail {
		return errors.New("connection down")
	}
	f.mu.Lock()
	f.events = append(f.events, event)
	f.mu.Unlock()
	return nil
}

func (f *fakeSession) count(event string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.events {
		if e == event {
			n++
		}
	}
	return n
}

func newBound(t *testing.T, m *Mux, id, username string) *fakeSession {
	t.Helper()
	s := &fakeSession{id: id}
	m.Register(s)
	m.Bind(s, username)
	return s
}

func TestBindLastWriterWins(t *testing.T) {
	m := NewMux()
	first := newBound(t, m, "conn-1", "alice")
	second := newBound(t, m, "conn-2", "alice")

	sess, ok := m.Lookup("alice")
	require.True(t, ok)
	assert.Equal(t, second.ID(), sess.ID())

	// The superseded connection lost its binding.
	_, bound := m.UserOf(first.ID())
	assert.False(t, bound)
}

func TestLookupAbsentAfterUnbind(t *testing.T) {
	m := NewMux()
	s := newBound(t, m, "conn-1", "alice")

	username, ok := m.Unbind(s.ID())
	require.True(t, ok)
	assert.Equal(t, "alice", username)

	_, ok = m.Lookup("alice")
	assert.False(t, ok)

	// Unbinding again is a silent no-op.
	_, ok = m.Unbind(s.ID())
	assert.False(t, ok)
}

func TestUnregisterDropsChannels(t *testing.T) {
	m := NewMux()
	s := newBound(t, m, "conn-1", "alice")
	m.Subscribe(s.ID(), GroupChannel(7))

	username, bound := m.Unregister(s.ID())
	require.True(t, bound)
	assert.Equal(t, "alice", username)

	assert.Zero(t, m.Multicast(GroupChannel(7), "groupMessage", nil, ""))
}

func TestUnbindDropsChannelSubscriptions(t *testing.T) {
	m := NewMux()
	s := newBound(t, m, "conn-1", "alice")
	m.Subscribe(s.ID(), GroupChannel(9))

	_, ok := m.Unbind(s.ID())
	require.True(t, ok)

	assert.Zero(t, m.Multicast(GroupChannel(9), "groupMessage", nil, ""))
}

func TestRebindAsDifferentUserStartsWithoutSubscriptions(t *testing.T) {
	m := NewMux()
	s := newBound(t, m, "conn-1", "alice")
	m.Subscribe(s.ID(), GroupChannel(9))

	// Same connection comes back as somebody else; alice's channels must
	// not follow it.
	m.Bind(s, "bob")

	assert.Zero(t, m.Multicast(GroupChannel(9), "groupMessage", nil, ""))
	assert.Zero(t, s.count("groupMessage"))
}

func TestSupersededSessionLosesSubscriptions(t *testing.T) {
	m := NewMux()
	first := newBound(t, m, "conn-1", "alice")
	m.Subscribe(first.ID(), GroupChannel(9))

	// Alice logs in elsewhere; conn-1 keeps running and later binds as bob.
	second := newBound(t, m, "conn-2", "alice")
	m.Bind(first, "bob")

	assert.Zero(t, m.Multicast(GroupChannel(9), "groupMessage", nil, ""))
	assert.Zero(t, first.count("groupMessage"))
	assert.Zero(t, second.count("groupMessage"))
}

func TestUnicastMissesAreNotErrors(t *testing.T) {
	m := NewMux()
	assert.False(t, m.Unicast("nobody", "message", nil))

	s := newBound(t, m, "conn-1", "alice")
	assert.True(t, m.Unicast("alice", "message", nil))
	assert.Equal(t, 1, s.count("message"))
}

func TestMulticastSkipsExcludedAndUnbound(t *testing.T) {
	m := NewMux()
	alice := newBound(t, m, "conn-a", "alice")
	bob := newBound(t, m, "conn-b", "bob")
	carol := &fakeSession{id: "conn-c"} // registered, never logged in
	m.Register(carol)

	for _, id := range []string{"conn-a", "conn-b", "conn-c"} {
		m.Subscribe(id, GroupChannel(1))
	}

	delivered := m.Multicast(GroupChannel(1), "typing", nil, "alice")
	assert.Equal(t, 1, delivered)
	assert.Zero(t, alice.count("typing"))
	assert.Equal(t, 1, bob.count("typing"))
	assert.Zero(t, carol.count("typing"))
}

func TestMulticastIsolatesFailingRecipients(t *testing.T) {
	m := NewMux()
	ok := newBound(t, m, "conn-a", "alice")
	broken := &fakeSession{id: "conn-b", fail: true}
	m.Register(broken)
	m.Bind(broken, "bob")

	m.Subscribe(ok.ID(), GroupChannel(1))
	m.Subscribe(broken.ID(), GroupChannel(1))

	assert.Equal(t, 1, m.Multicast(GroupChannel(1), "groupMessage", nil, ""))
	assert.Equal(t, 1, ok.count("groupMessage"))
}

func TestUnsubscribeUserStopsChannelDelivery(t *testing.T) {
	m := NewMux()
	alice := newBound(t, m, "conn-a", "alice")
	bob := newBound(t, m, "conn-b", "bob")
	m.Subscribe(alice.ID(), GroupChannel(3))
	m.Subscribe(bob.ID(), GroupChannel(3))

	m.UnsubscribeUser("bob", GroupChannel(3))

	assert.Equal(t, 1, m.Multicast(GroupChannel(3), "groupMessage", nil, ""))
	assert.Zero(t, bob.count("groupMessage"))

	// Bob stays online for everything else.
	assert.True(t, m.Unicast("bob", "message", nil))
}

func TestBroadcastReachesEveryConnection(t *testing.T) {
	m := NewMux()
	alice := newBound(t, m, "conn-a", "alice")
	anon := &fakeSession{id: "conn-x"}
	m.Register(anon)

	assert.Equal(t, 2, m.Broadcast("userList", nil))
	assert.Equal(t, 1, alice.count("userList"))
	assert.Equal(t, 1, anon.count("userList"))
}
