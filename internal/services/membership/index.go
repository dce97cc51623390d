// File: internal/services/membership/index.go
package membership

import (
	"context"
	"fmt"
	"sync"

	"github.com/HaswanthR-CIT/ECHO/internal/domain"
	"github.com/HaswanthR-CIT/ECHO/internal/realtime"
	"github.com/HaswanthR-CIT/ECHO/internal/repository/group"
	"github.com/HaswanthR-CIT/ECHO/internal/repository/user"
	"github.com/HaswanthR-CIT/ECHO/internal/services"
)

// Index maps groups to their member users and keeps the multiplexer's
// channel subscriptions in lockstep with membership changes. Mutations to
// one group serialize on a per-group lock; store calls and delivery happen
// outside it.
type Index struct {
	groups group.GroupRepository
	users  user.UserRepository
	mux    *realtime.Mux
	logger services.Logger

	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewIndex(groups group.GroupRepository, users user.UserRepository, mux *realtime.Mux, logger services.Logger) *Index {
	return &Index{
		groups: groups,
		users:  users,
		mux:    mux,
		logger: logger,
		locks:  make(map[uint]*sync.Mutex),
	}
}

// CreateGroup persists the group, then notifies each bound initial member
// personally and joins their connection to the group channel.
func (i *Index) CreateGroup(ctx context.Context, name string, memberIDs []uint, creatorID uint) (*domain.Group, error) {
	members := make([]domain.User, 0, len(memberIDs))
	seen := make(map[uint]struct{}, len(memberIDs))
	for _, id := range memberIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		members = append(members, domain.User{ID: id})
	}

	g, err := i.groups.Create(ctx, &domain.Group{Name: name, CreatedBy: creatorID, Members: members})
	if err != nil {
		return nil, err
	}
	g, err = i.groups.FindByID(ctx, g.ID)
	if err != nil {
		return nil, err
	}

	creatorName := i.usernameOf(ctx, creatorID)
	for _, m := range g.Members {
		i.joinAndNotify(m.Username, g, fmt.Sprintf("You've been added to '%s' by %s", g.Name, creatorName))
	}
	return g, nil
}

// AddMember adds the user to the group with set-union semantics: adding an
// existing member changes nothing and notifies nobody. On a structural
// change the new member gets a personal notification (and their live
// connection joins the channel), and the group's bound members get a
// broadcast announcing the addition.
func (i *Index) AddMember(ctx context.Context, groupID, userID, addedByID uint) (*domain.Group, error) {
	lock := i.lockFor(groupID)
	lock.Lock()
	changed, err := i.groups.AddMember(ctx, groupID, userID)
	lock.Unlock()
	if err != nil {
		return nil, err
	}

	g, err := i.groups.FindByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !changed {
		return g, nil
	}

	newMember := i.usernameOf(ctx, userID)
	addedBy := i.usernameOf(ctx, addedByID)

	i.joinAndNotify(newMember, g, fmt.Sprintf("You've been added to '%s' by %s", g.Name, addedBy))
	i.mux.Multicast(realtime.GroupChannel(g.ID), realtime.EventGroupNotification, map[string]any{
		"groupId": g.ID,
		"message": fmt.Sprintf("%s added %s to the group", addedBy, newMember),
	}, "")
	return g, nil
}

// RemoveMember takes the user out of the group and unsubscribes their live
// connection from the group channel, so later group traffic no longer
// reaches them even while they stay online.
func (i *Index) RemoveMember(ctx context.Context, groupID, userID uint) (*domain.Group, error) {
	lock := i.lockFor(groupID)
	lock.Lock()
	err := i.groups.RemoveMember(ctx, groupID, userID)
	lock.Unlock()
	if err != nil {
		return nil, err
	}

	if username := i.usernameOf(ctx, userID); username != "" {
		i.mux.UnsubscribeUser(username, realtime.GroupChannel(groupID))
	}
	return i.groups.FindByID(ctx, groupID)
}

// MembersOf returns the group's current member set. Reflects the latest
// add/remove synchronously.
func (i *Index) MembersOf(ctx context.Context, groupID uint) ([]domain.User, error) {
	return i.groups.Members(ctx, groupID)
}

// GroupsOf returns every group the user belongs to.
func (i *Index) GroupsOf(ctx context.Context, userID uint) ([]domain.Group, error) {
	return i.groups.FindByMember(ctx, userID)
}

// SubscribeAll joins the session to the channel of every group the user is
// a member of. Called when a user binds.
func (i *Index) SubscribeAll(ctx context.Context, sess realtime.Session, userID uint) error {
	groups, err := i.groups.FindByMember(ctx, userID)
	if err != nil {
		return err
	}
	for _, g := range groups {
		i.mux.Subscribe(sess.ID(), realtime.GroupChannel(g.ID))
	}
	return nil
}

func (i *Index) joinAndNotify(username string, g *domain.Group, notice string) {
	if username == "" {
		return
	}
	if sess, ok := i.mux.Lookup(username); ok {
		i.mux.Subscribe(sess.ID(), realtime.GroupChannel(g.ID))
	}
	i.mux.Unicast(username, realtime.EventPersonalNotification, map[string]any{
		"message": notice,
	})
}

func (i *Index) usernameOf(ctx context.Context, userID uint) string {
	u, err := i.users.FindByID(ctx, userID)
	if err != nil {
		i.logger.Warn("username lookup failed", "user_id", userID, "error", err)
		return ""
	}
	return u.Username
}

func (i *Index) lockFor(groupID uint) *sync.Mutex {
	i.mu.Lock()
	defer i.mu.Unlock()
	lock, ok := i.locks[groupID]
	if !ok {
		lock = &sync.Mutex{}
		i.locks[groupID] = lock
	}
	return lock
}
