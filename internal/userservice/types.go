package userservice

import (
	"context"
	"database/sql"
	"time"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleWriter Role = "writer"

	// SessionTokenTime is the lifetime of an issued session token.
	SessionTokenTime time.Duration = 7 * 24 * time.Hour
)

var (
	AnonymousIdentity = Identity{}
)

// Identity is the verified {email, name, role} triple carried by a session
// token. It is produced at login and never mutated mid-session.
type Identity struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// Account is a database-backed login account. Static admin accounts declared
// in configuration share the same shape but have no ID and live outside the
// database.
type Account struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Password  Password  `json:"-"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	Static    bool      `json:"static"`
	CreatedAt time.Time `json:"created_at"`
}

type Password struct {
	Plain string `json:"-"`
	hash  []byte `json:"-"`
}

// ProviderIdentity is the assertion returned by an external identity provider.
type ProviderIdentity struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// IdentityProvider verifies a federated sign-in assertion.
type IdentityProvider interface {
	VerifyAssertion(ctx context.Context, providerToken string) (*ProviderIdentity, error)
}

type UserService struct {
	m         *DBModel
	statics   []Account
	allowlist *Allowlist
	provider  IdentityProvider
}

// StaticAdmin is an admin account declared in configuration. It is immutable
// at runtime and cannot be deleted through the API.
type StaticAdmin struct {
	Email    string
	Password string
	Name     string
}

type DBModel struct {
	db *sql.DB
}
