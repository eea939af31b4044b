// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session decides whether protected commands may run.
//
// A Gate holds the signed-in identity in memory and mirrors it to a
// kvstore.Store under fixed keys. Restore trusts whatever the store holds
// without contacting the service; the stored user name alone marks the
// user as signed in.
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/pdiddy/pdf-utilizer/internal/kvstore"
	"github.com/pdiddy/pdf-utilizer/pkg/types"
)

// Persisted keys.
const (
	KeyToken    = "token"
	KeyUsername = "username"
)

// LoginTarget is where callers without a session are sent.
const LoginTarget = "/login"

// ErrNoSession is wrapped by RedirectError.
var ErrNoSession = errors.New("session: not signed in")

// RedirectError reports that the caller must authenticate at Target before
// the protected action can run.
type RedirectError struct {
	Target string
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("not signed in: continue at %s", e.Target)
}

func (e *RedirectError) Unwrap() error { return ErrNoSession }

// Gate tracks the current session.
type Gate struct {
	store kvstore.Store

	mu      sync.Mutex
	current *types.Session
}

// NewGate returns a gate over store. Call Init before RequireSession.
func NewGate(store kvstore.Store) *Gate {
	return &Gate{store: store}
}

// Init restores any persisted session.
func (g *Gate) Init() (*types.Session, bool, error) {
	return g.Restore()
}

// Restore rebuilds the session from the store. A missing user name means
// no session; the stored token is taken as is.
func (g *Gate) Restore() (*types.Session, bool, error) {
	name, ok, err := g.store.Get(KeyUsername)
	if err != nil {
		return nil, false, fmt.Errorf("restoring session: %w", err)
	}
	if !ok || strings.TrimSpace(name) == "" {
		g.set(nil)
		return nil, false, nil
	}
	token, _, err := g.store.Get(KeyToken)
	if err != nil {
		return nil, false, fmt.Errorf("restoring session: %w", err)
	}
	s := &types.Session{Token: token, DisplayName: name}
	g.set(s)
	return s, true, nil
}

// SignIn persists id and makes it the current session.
func (g *Gate) SignIn(id types.Identity) (*types.Session, error) {
	name := strings.TrimSpace(id.Username)
	if name == "" {
		return nil, errors.New("signing in: empty user name")
	}
	if err := g.store.Set(KeyToken, id.Token); err != nil {
		return nil, fmt.Errorf("signing in: %w", err)
	}
	// The username marks a stored session, so it goes last.
	if err := g.store.Set(KeyUsername, name); err != nil {
		if rmErr := g.store.Remove(KeyToken); rmErr != nil {
			err = errors.Join(err, rmErr)
		}
		return nil, fmt.Errorf("signing in: %w", err)
	}
	s := &types.Session{Token: id.Token, DisplayName: name}
	g.set(s)
	return s, nil
}

// SignOut forgets the session in memory and in the store.
func (g *Gate) SignOut() error {
	g.set(nil)
	var errs []error
	for _, key := range []string{KeyToken, KeyUsername} {
		if err := g.store.Remove(key); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("signing out: %w", err)
	}
	return nil
}

// Current returns the in-memory session.
func (g *Gate) Current() (*types.Session, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current == nil {
		return nil, false
	}
	s := *g.current
	return &s, true
}

// RequireSession returns the current session or a *RedirectError pointing
// at LoginTarget.
func (g *Gate) RequireSession() (*types.Session, error) {
	if s, ok := g.Current(); ok {
		return s, nil
	}
	return nil, &RedirectError{Target: LoginTarget}
}

// Teardown drops the in-memory session. The store is left untouched.
func (g *Gate) Teardown() {
	g.set(nil)
}

func (g *Gate) set(s *types.Session) {
	g.mu.Lock()
	g.current = s
	g.mu.Unlock()
}
