package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/inkpress/inkpress/internal/userservice"
)

// Session holds the caller side of an authenticated session: the persisted
// token, the identity decoded from it, and an HTTP client that attaches the
// token per session instance rather than through process-global state.
type Session struct {
	store     TokenStore
	verifyURL string
	base      http.RoundTripper
	onExpired func()

	mu       sync.RWMutex
	token    string
	identity userservice.Identity
}

func New(store TokenStore, verifyURL string) *Session {
	return &Session{
		store:     store,
		verifyURL: verifyURL,
		base:      http.DefaultTransport,
	}
}

// OnExpired registers a callback fired when background verification rejects
// the session. Must be set before Bootstrap.
func (s *Session) OnExpired(fn func()) {
	s.onExpired = fn
}

// Bootstrap loads the persisted token and optimistically decodes it so the
// caller can render an identity immediately. The token is then verified with
// the server in the background; a rejected token clears the session and fires
// the OnExpired callback. The optimistic identity must never be trusted for
// anything beyond display.
func (s *Session) Bootstrap(ctx context.Context) (userservice.Identity, error) {
	token, err := s.store.Load()
	if err != nil {
		return userservice.AnonymousIdentity, err
	}
	if token == "" {
		return userservice.AnonymousIdentity, nil
	}

	identity, err := userservice.DecodeUnsafe(token)
	if err != nil {
		_ = s.store.Clear()
		return userservice.AnonymousIdentity, nil
	}

	s.mu.Lock()
	s.token = token
	s.identity = *identity
	s.mu.Unlock()

	go s.verify(ctx, token)

	return *identity, nil
}

func (s *Session) verify(ctx context.Context, token string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.verifyURL, nil)
	if err != nil {
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := (&http.Client{Transport: s.base, Timeout: 10 * time.Second}).Do(req)
	if err != nil {
		// transient network failure, keep the optimistic session
		return
	}
	defer res.Body.Close()

	// only an explicit rejection ends the session; a rate limit or a
	// server fault says nothing about the token
	if res.StatusCode == http.StatusUnauthorized {
		s.expire()
	}
}

func (s *Session) expire() {
	_ = s.store.Clear()

	s.mu.Lock()
	s.token = ""
	s.identity = userservice.AnonymousIdentity
	s.mu.Unlock()

	if s.onExpired != nil {
		s.onExpired()
	}
}

// SetToken persists a freshly issued token and updates the in-memory identity
// synchronously, so the next Client() request already carries it.
func (s *Session) SetToken(token string) error {
	identity, err := userservice.DecodeUnsafe(token)
	if err != nil {
		return err
	}

	err = s.store.Save(token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.token = token
	s.identity = *identity
	s.mu.Unlock()

	return nil
}

// Logout clears the persisted token and the in-memory session.
func (s *Session) Logout() error {
	err := s.store.Clear()

	s.mu.Lock()
	s.token = ""
	s.identity = userservice.AnonymousIdentity
	s.mu.Unlock()

	return err
}

func (s *Session) Identity() userservice.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Client returns an HTTP client that attaches the session token as a bearer
// header on every request. The token is read at request time, so SetToken and
// Logout take effect on in-flight clients.
func (s *Session) Client() *http.Client {
	return &http.Client{Transport: &authTransport{session: s, base: s.base}}
}

type authTransport struct {
	session *Session
	base    http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token := t.session.Token()
	if token == "" {
		return t.base.RoundTrip(req)
	}

	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+token)

	return t.base.RoundTrip(clone)
}
