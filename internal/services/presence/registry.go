// File: internal/services/presence/registry.go
package presence

import (
	"context"
	"errors"
	"sync"

	"github.com/HaswanthR-CIT/ECHO/internal/domain"
	"github.com/HaswanthR-CIT/ECHO/internal/realtime"
	"github.com/HaswanthR-CIT/ECHO/internal/repository/user"
	"github.com/HaswanthR-CIT/ECHO/internal/services"
)

// Registry tracks which users are online and which connection belongs to
// which user. All mutations take a per-user lock so concurrent login and
// disconnect races resolve last-writer-wins; no lock is held across store
// calls or delivery.
type Registry struct {
	users  user.UserRepository
	mux    *realtime.Mux
	logger services.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewRegistry(users user.UserRepository, mux *realtime.Mux, logger services.Logger) *Registry {
	return &Registry{
		users:  users,
		mux:    mux,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

// Bind marks the user online on the given session and joins its personal
// channel. An unknown username is created on the fly (clients may connect
// before any HTTP signup). Repeated binds overwrite; the latest one wins.
// Broadcasts the refreshed roster to all connections.
func (r *Registry) Bind(ctx context.Context, sess realtime.Session, username string) (*domain.User, error) {
	lock := r.lockFor(username)
	lock.Lock()
	r.mux.Bind(sess, username)
	r.mux.Subscribe(sess.ID(), realtime.UserChannel(username))
	lock.Unlock()

	u, err := r.users.SetPresence(ctx, username, true, sess.ID())
	if err != nil {
		return nil, err
	}

	r.BroadcastRoster(ctx)
	return u, nil
}

// Logout marks the named user offline, leaving the connection itself open
// and unauthenticated. Unknown or already-offline users are a silent no-op.
func (r *Registry) Logout(ctx context.Context, username string) {
	lock := r.lockFor(username)
	lock.Lock()
	sess, ok := r.mux.Lookup(username)
	if ok {
		r.mux.Unbind(sess.ID())
	}
	lock.Unlock()

	u, err := r.users.SetPresence(ctx, username, false, "")
	if err != nil {
		if !errors.Is(err, user.ErrUserNotFound) {
			r.logger.Error("logout presence update failed", "username", username, "error", err)
		}
		return
	}

	r.announceOffline(ctx, u)
}

// Disconnect unbinds whichever user owns the gone connection and drops the
// connection and its channel subscriptions. If no user owns the handle
// (unauthenticated, or already unbound) this is a silent no-op.
func (r *Registry) Disconnect(ctx context.Context, sessionID string) {
	username, ok := r.mux.UserOf(sessionID)
	if !ok {
		r.mux.Unregister(sessionID)
		return
	}

	lock := r.lockFor(username)
	lock.Lock()
	_, bound := r.mux.Unregister(sessionID)
	lock.Unlock()
	if !bound {
		return
	}

	// Clearing by socket rather than by username keeps a concurrent re-login
	// intact: a newer binding owns a different socket ID and is untouched.
	u, err := r.users.ClearPresenceBySocket(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, user.ErrUserNotFound) {
			r.logger.Error("disconnect presence update failed", "session_id", sessionID, "error", err)
		}
		return
	}

	r.announceOffline(ctx, u)
}

// Lookup returns the live session bound to the user, if any.
func (r *Registry) Lookup(username string) (realtime.Session, bool) {
	return r.mux.Lookup(username)
}

// Roster snapshots all known users with their online flags, in registration
// order.
func (r *Registry) Roster(ctx context.Context) ([]domain.User, error) {
	return r.users.FindAll(ctx)
}

// BroadcastRoster pushes the full user list to every connection.
func (r *Registry) BroadcastRoster(ctx context.Context) {
	roster, err := r.Roster(ctx)
	if err != nil {
		r.logger.Error("roster snapshot failed", "error", err)
		return
	}
	r.mux.Broadcast(realtime.EventUserList, roster)
}

func (r *Registry) announceOffline(ctx context.Context, u *domain.User) {
	r.mux.Broadcast(realtime.EventUserDisconnected, map[string]any{
		"username":  u.Username,
		"lastLogin": u.LastLogin,
	})
	r.BroadcastRoster(ctx)
}

func (r *Registry) lockFor(username string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.locks[username]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[username] = lock
	}
	return lock
}
