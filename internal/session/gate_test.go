// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdf-utilizer/internal/kvstore"
	"github.com/pdiddy/pdf-utilizer/pkg/types"
)

func TestRestoreFromDisplayNameOnly(t *testing.T) {
	store := kvstore.NewMemory()
	require.NoError(t, store.Set(KeyUsername, "alice"))

	g := NewGate(store)
	s, ok, err := g.Restore()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "alice", s.DisplayName)
	assert.Empty(t, s.Token)

	got, err := g.RequireSession()
	require.NoError(t, err)
	assert.Equal(t, "alice", got.DisplayName)
}

func TestRestoreWithoutEntryRedirects(t *testing.T) {
	store := kvstore.NewMemory()
	require.NoError(t, store.Set(KeyToken, "orphan-token"))

	g := NewGate(store)
	s, ok, err := g.Init()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, s)

	_, err = g.RequireSession()
	var redirect *RedirectError
	require.ErrorAs(t, err, &redirect)
	assert.Equal(t, "/login", redirect.Target)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSignInPersistsAndSignOutClears(t *testing.T) {
	store := kvstore.NewMemory()
	g := NewGate(store)

	s, err := g.SignIn(types.Identity{Username: " bob ", Token: "tok-1"})
	require.NoError(t, err)
	assert.Equal(t, &types.Session{Token: "tok-1", DisplayName: "bob"}, s)

	v, ok, _ := store.Get(KeyToken)
	assert.True(t, ok)
	assert.Equal(t, "tok-1", v)
	v, ok, _ = store.Get(KeyUsername)
	assert.True(t, ok)
	assert.Equal(t, "bob", v)

	require.NoError(t, g.SignOut())
	_, ok = g.Current()
	assert.False(t, ok)
	_, ok, _ = store.Get(KeyToken)
	assert.False(t, ok)
	_, ok, _ = store.Get(KeyUsername)
	assert.False(t, ok)

	require.NoError(t, g.SignOut())
}

func TestSignInRejectsEmptyName(t *testing.T) {
	store := kvstore.NewMemory()
	g := NewGate(store)

	_, err := g.SignIn(types.Identity{Token: "tok"})
	require.Error(t, err)
	_, ok := g.Current()
	assert.False(t, ok)
	_, ok, _ = store.Get(KeyToken)
	assert.False(t, ok)
}

func TestTeardownKeepsStore(t *testing.T) {
	store := kvstore.NewMemory()
	g := NewGate(store)
	_, err := g.SignIn(types.Identity{Username: "carol", Token: "t"})
	require.NoError(t, err)

	g.Teardown()
	_, err = g.RequireSession()
	assert.Error(t, err)

	// A fresh gate over the same store sees the session again.
	s, ok, err := NewGate(store).Restore()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "carol", s.DisplayName)
}

func TestCurrentReturnsCopy(t *testing.T) {
	g := NewGate(kvstore.NewMemory())
	_, err := g.SignIn(types.Identity{Username: "dave", Token: "t"})
	require.NoError(t, err)

	s, _ := g.Current()
	s.DisplayName = "mallory"
	again, _ := g.Current()
	assert.Equal(t, "dave", again.DisplayName)
}

func TestGatesAreIsolated(t *testing.T) {
	a := NewGate(kvstore.NewMemory())
	b := NewGate(kvstore.NewMemory())
	_, err := a.SignIn(types.Identity{Username: "erin"})
	require.NoError(t, err)

	_, ok, err := b.Restore()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGateOverYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	store, err := kvstore.NewYAMLFile(path)
	require.NoError(t, err)
	defer store.Close()

	_, err = NewGate(store).SignIn(types.Identity{Username: "frank", Token: "abc"})
	require.NoError(t, err)

	s, ok, err := NewGate(store).Restore()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, &types.Session{Token: "abc", DisplayName: "frank"}, s)
}

type failingStore struct{ kvstore.Memory }

func (f *failingStore) Get(string) (string, bool, error) { return "", false, errors.New("disk gone") }

func TestRestorePropagatesStoreErrors(t *testing.T) {
	_, _, err := NewGate(&failingStore{}).Restore()
	assert.ErrorContains(t, err, "disk gone")
}

// refusingStore fails writes to one key.
type refusingStore struct {
	*kvstore.Memory
	key string
}

func (r *refusingStore) Set(key, value string) error {
	if key == r.key {
		return errors.New("quota exceeded")
	}
	return r.Memory.Set(key, value)
}

func TestSignInLeavesNoTokenWhenUsernameWriteFails(t *testing.T) {
	store := &refusingStore{Memory: kvstore.NewMemory(), key: KeyUsername}
	g := NewGate(store)

	_, err := g.SignIn(types.Identity{Username: "alice", Token: "tok"})
	assert.ErrorContains(t, err, "quota exceeded")

	_, ok, err := store.Get(KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok = g.Current()
	assert.False(t, ok)
}
