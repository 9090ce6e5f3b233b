// Package session holds the operator's authentication state and the
// persisted credential that lets a restarted client reauthenticate silently.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"backoffice/internal/apiclient"
)

// Vault keys.
const (
	KeyCredential         = "credential"
	KeyRememberedUsername = "remembered_username"
)

// ErrAuth wraps every login rejection.
var ErrAuth = errors.New("session: login rejected")

// Vault is durable client-local storage scoped by profile.
// Get returns ok=false when the key is absent.
type Vault interface {
	Get(ctx context.Context, profile, key string) (value string, ok bool, err error)
	Put(ctx context.Context, profile, key, value string) error
	Delete(ctx context.Context, profile, key string) error
}

// Authenticator is the subset of the API client the session needs.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (apiclient.LoginResult, error)
	Me(ctx context.Context) (apiclient.User, error)
}

// Status is the state machine position.
type Status int

const (
	StatusUnknown Status = iota
	StatusAnonymous
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusAnonymous:
		return "anonymous"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// State is a consistent copy of the session for rendering and routing.
type State struct {
	User            *apiclient.User
	IsAuthenticated bool
	Loading         bool
}

// Store is one operator's session. It implements apiclient.CredentialSource.
type Store struct {
	profile string
	vault   Vault

	mu         sync.RWMutex
	auth       Authenticator
	status     Status
	user       *apiclient.User
	credential string
	// gen advances on every Login, Logout and Expire. A Restore that sees it
	// move while waiting on the API leaves the newer state alone.
	gen uint64
}

// New returns a Store in the Unknown (loading) state.
func New(profile string, vault Vault) *Store {
	return &Store{profile: profile, vault: vault}
}

// Bind sets the authenticator. It is separate from New because the API client
// takes the Store as its credential source.
func (s *Store) Bind(auth Authenticator) {
	s.mu.Lock()
	s.auth = auth
	s.mu.Unlock()
}

// Profile returns the vault scope of this session.
func (s *Store) Profile() string { return s.profile }

// Credential returns the in-memory bearer credential, or "".
func (s *Store) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := State{
		IsAuthenticated: s.status == StatusAuthenticated,
		Loading:         s.status == StatusUnknown,
	}
	if s.user != nil {
		u := *s.user
		st.User = &u
	}
	return st
}

// Status returns the state machine position.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Restore performs the startup transition out of Unknown. It is a no-op once
// the state has resolved.
func (s *Store) Restore(ctx context.Context) error {
	s.mu.RLock()
	gen, status, auth := s.gen, s.status, s.auth
	s.mu.RUnlock()
	if status != StatusUnknown {
		return nil
	}

	token, ok, err := s.vault.Get(ctx, s.profile, KeyCredential)
	if err != nil {
		slog.Warn("session: credential lookup failed", "profile", s.profile, "error", err)
		ok = false
	}
	if !ok || token == "" {
		s.settle(ctx, gen, StatusAnonymous, nil, "", false)
		return nil
	}
	if auth == nil {
		s.settle(ctx, gen, StatusAnonymous, nil, "", false)
		return errors.New("session: no authenticator bound")
	}

	s.mu.Lock()
	if s.gen != gen || s.status != StatusUnknown {
		s.mu.Unlock()
		return nil
	}
	s.credential = token
	s.mu.Unlock()

	user, err := auth.Me(ctx)
	if err != nil {
		if s.settle(ctx, gen, StatusAnonymous, nil, "", true) {
			slog.Info("session: silent reauth failed", "profile", s.profile, "error", err)
		}
		return nil
	}

	if s.settle(ctx, gen, StatusAuthenticated, &user, token, false) {
		slog.Info("session: restored", "profile", s.profile, "username", user.Username)
	}
	return nil
}

// settle finishes a Restore started at generation gen and reports whether it
// applied. After a Login, Logout or Expire it leaves the newer state alone; if
// that call has not resolved yet it only ends the loading state. The stale
// credential is deleted under the lock so a concurrent Login cannot persist
// its own credential in between.
func (s *Store) settle(ctx context.Context, gen uint64, status Status, user *apiclient.User, credential string, clear bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusUnknown {
		return false
	}
	if s.gen != gen {
		s.status, s.user, s.credential = StatusAnonymous, nil, ""
		return false
	}
	if clear {
		if err := s.vault.Delete(ctx, s.profile, KeyCredential); err != nil {
			slog.Warn("session: clear stale credential failed", "profile", s.profile, "error", err)
		}
	}
	s.status = status
	s.user = user
	s.credential = credential
	return true
}

// Login authenticates against the API. Failures leave the state untouched and
// wrap ErrAuth together with the upstream error.
func (s *Store) Login(ctx context.Context, username, password string) error {
	s.mu.RLock()
	auth := s.auth
	s.mu.RUnlock()
	if auth == nil {
		return fmt.Errorf("%w: no authenticator bound", ErrAuth)
	}

	res, err := auth.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAuth, err)
	}
	s.advance()
	if err := s.vault.Put(ctx, s.profile, KeyCredential, res.AccessToken); err != nil {
		return fmt.Errorf("session: persist credential: %w", err)
	}
	user := res.User
	s.resolve(StatusAuthenticated, &user, res.AccessToken)
	slog.Info("session: logged in", "profile", s.profile, "username", user.Username)
	return nil
}

// Logout clears the persisted and in-memory credential. No server call is made.
func (s *Store) Logout(ctx context.Context) error {
	s.advance()
	err := s.vault.Delete(ctx, s.profile, KeyCredential)
	s.resolve(StatusAnonymous, nil, "")
	if err != nil {
		return fmt.Errorf("session: clear credential: %w", err)
	}
	return nil
}

// Expire is a forced logout after the API rejected the credential.
func (s *Store) Expire(ctx context.Context) {
	if s.Status() != StatusAuthenticated {
		return
	}
	if err := s.Logout(ctx); err != nil {
		slog.Warn("session: expire", "profile", s.profile, "error", err)
	}
	slog.Info("session: credential expired", "profile", s.profile)
}

// RememberedUsername returns the username saved by the "remember" option.
func (s *Store) RememberedUsername(ctx context.Context) string {
	v, ok, err := s.vault.Get(ctx, s.profile, KeyRememberedUsername)
	if err != nil || !ok {
		return ""
	}
	return v
}

// Remember stores username when remember is set and clears it otherwise.
func (s *Store) Remember(ctx context.Context, username string, remember bool) error {
	if remember {
		return s.vault.Put(ctx, s.profile, KeyRememberedUsername, username)
	}
	return s.vault.Delete(ctx, s.profile, KeyRememberedUsername)
}

func (s *Store) advance() {
	s.mu.Lock()
	s.gen++
	s.mu.Unlock()
}

func (s *Store) resolve(status Status, user *apiclient.User, credential string) {
	s.mu.Lock()
	s.status = status
	s.user = user
	s.credential = credential
	s.mu.Unlock()
}
