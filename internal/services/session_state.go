// Package services – SessionState
//
// The original deployment drove its UI from a process-wide auth listener.
// SessionState replaces that implicit singleton with an explicit object: it
// holds the current session (nil when logged out) and offers a
// subscribe/unsubscribe contract where Subscribe returns a disposer. The
// zero of interest is single-admin: "current" tracks the most recent login
// in this process.
package services

import (
	"sync"

	"github.com/https-aaryannn/anonbox/internal/domain"
)

// SessionState is a concurrency-safe holder for the current admin session
// with change notification. Callbacks run synchronously on the goroutine
// that changed the state and must not block.
type SessionState struct {
	mu      sync.Mutex
	current *domain.Session
	nextID  int
	subs    map[int]func(*domain.Session)
}

// NewSessionState returns an empty (logged-out) SessionState.
func NewSessionState() *SessionState {
	return &SessionState{subs: make(map[int]func(*domain.Session))}
}

// Current returns the current session, or nil when no admin is logged in.
func (st *SessionState) Current() *domain.Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.current
}

// Subscribe registers fn to be called with every session change (a session
// on login, nil on logout) and returns a disposer that unregisters it. The
// disposer is idempotent.
func (st *SessionState) Subscribe(fn func(*domain.Session)) func() {
	st.mu.Lock()
	id := st.nextID
	st.nextID++
	st.subs[id] = fn
	st.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			st.mu.Lock()
			delete(st.subs, id)
			st.mu.Unlock()
		})
	}
}

// set makes sess the current session and notifies subscribers.
func (st *SessionState) set(sess *domain.Session) {
	st.mu.Lock()
	st.current = sess
	fns := st.snapshotSubs()
	st.mu.Unlock()

	for _, fn := range fns {
		fn(sess)
	}
}

// clear drops the current session if it matches token and notifies
// subscribers with nil. Clearing a token that is not current is a no-op.
func (st *SessionState) clear(token string) {
	st.mu.Lock()
	if st.current == nil || st.current.Token != token {
		st.mu.Unlock()
		return
	}
	st.current = nil
	fns := st.snapshotSubs()
	st.mu.Unlock()

	for _, fn := range fns {
		fn(nil)
	}
}

// snapshotSubs copies the subscriber list; callers must hold st.mu.
func (st *SessionState) snapshotSubs() []func(*domain.Session) {
	fns := make([]func(*domain.Session), 0, len(st.subs))
	for _, fn := range st.subs {
		fns = append(fns, fn)
	}
	return fns
}
