package userservice

import (
	"strings"
	"sync"
)

// Allowlist implements the closed-registration policy for federated sign-in:
// a federated identity is accepted only when its email was already known at
// snapshot time or appears in the explicitly configured list. Federated login
// never provisions accounts.
type Allowlist struct {
	mu         sync.RWMutex
	snapshot   map[string]struct{}
	configured map[string]struct{}
}

// NewAllowlist builds an allowlist from the configured emails. When the
// configured list is non-empty it overrides the snapshot entirely.
func NewAllowlist(configured []string) *Allowlist {
	a := &Allowlist{
		snapshot:   make(map[string]struct{}),
		configured: make(map[string]struct{}),
	}

	for _, email := range configured {
		email = normalizeEmail(email)
		if email != "" {
			a.configured[email] = struct{}{}
		}
	}

	return a
}

// Snapshot records the set of known account emails. Called once at startup so
// accounts created later do not silently become federated logins.
func (a *Allowlist) Snapshot(emails []string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, email := range emails {
		email = normalizeEmail(email)
		if email != "" {
			a.snapshot[email] = struct{}{}
		}
	}
}

func (a *Allowlist) Allowed(email string) bool {
	email = normalizeEmail(email)
	if email == "" {
		return false
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	if len(a.configured) > 0 {
		_, ok := a.configured[email]
		return ok
	}

	_, ok := a.snapshot[email]
	return ok
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
