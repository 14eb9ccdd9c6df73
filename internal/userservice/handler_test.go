package userservice

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/inkpress/inkpress/internal/common"
)

type stubProvider struct {
	identity *ProviderIdentity
	err      error
}

func (p *stubProvider) VerifyAssertion(ctx context.Context, providerToken string) (*ProviderIdentity, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.identity, nil
}

func setupTestService(t *testing.T, provider IdentityProvider) (*UserService, *sql.DB) {
	db := common.TestDB("file://../../migrations", t)

	statics := []StaticAdmin{
		{Email: "root@example.com", Password: "RootPassword1!", Name: "Root Admin"},
	}

	s, err := NewUserService(db, statics, NewAllowlist(nil), provider)
	if err != nil {
		t.Fatalf("could not create user service: %v", err)
	}

	return s, db
}

func TestRegisterAndLoginWriter(t *testing.T) {
	s, db := setupTestService(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	identity, err := s.Register(ctx, "Writer@Example.com", "secret1", "Test Writer", RoleWriter)
	assert.NoError(t, err)
	assert.Equal(t, "writer@example.com", identity.Email)
	assert.Equal(t, RoleWriter, identity.Role)

	identity, err = s.LoginWriter(ctx, "writer@example.com", "secret1")
	assert.NoError(t, err)
	assert.Equal(t, RoleWriter, identity.Role)
	assert.Equal(t, "Test Writer", identity.Name)

	_, err = s.LoginWriter(ctx, "writer@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.LoginWriter(ctx, "unknown@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM accounts").Scan(&count)
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRegisterShortPassword(t *testing.T) {
	s, db := setupTestService(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := s.Register(ctx, "writer@example.com", "five!", "Test Writer", RoleWriter)

	var validationErr common.ValidationError
	assert.True(t, errors.As(err, &validationErr))
	assert.Contains(t, validationErr.Errors, "password")

	// no account was created as a side effect
	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM accounts").Scan(&count)
	assert.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRegisterDuplicateAccount(t *testing.T) {
	s, _ := setupTestService(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := s.Register(ctx, "writer@example.com", "secret1", "First", RoleWriter)
	assert.NoError(t, err)

	_, err = s.Register(ctx, "writer@example.com", "secret2", "Second", RoleWriter)
	assert.ErrorIs(t, err, ErrDuplicateAccount)
}

func TestLoginAdmin(t *testing.T) {
	s, _ := setupTestService(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// static configured account
	identity, err := s.LoginAdmin(ctx, "root@example.com", "RootPassword1!")
	assert.NoError(t, err)
	assert.Equal(t, RoleAdmin, identity.Role)
	assert.Equal(t, "Root Admin", identity.Name)

	// database-backed admin account takes precedence over the static fallback
	_, err = s.Register(ctx, "admin@example.com", "secret1", "DB Admin", RoleAdmin)
	assert.NoError(t, err)

	identity, err = s.LoginAdmin(ctx, "admin@example.com", "secret1")
	assert.NoError(t, err)
	assert.Equal(t, "DB Admin", identity.Name)

	// both failures collapse into the same generic denial
	_, err = s.LoginAdmin(ctx, "root@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.LoginAdmin(ctx, "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginFederated(t *testing.T) {
	provider := &stubProvider{identity: &ProviderIdentity{Email: "writer@example.com", Name: "Fed Writer"}}
	s, db := setupTestService(t, provider)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// not yet known anywhere: closed registration
	assert.NoError(t, s.SnapshotAllowlist(ctx))

	_, err := s.LoginFederated(ctx, "provider-token")
	assert.ErrorIs(t, err, ErrRegistrationClosed)

	// no account is created as a side effect of the denial
	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM accounts WHERE role = 'writer'").Scan(&count)
	assert.NoError(t, err)
	assert.Equal(t, 0, count)

	// once the email is a known account in the snapshot, sign-in succeeds
	_, err = s.Register(ctx, "writer@example.com", "secret1", "Local Name", RoleWriter)
	assert.NoError(t, err)
	assert.NoError(t, s.SnapshotAllowlist(ctx))

	identity, err := s.LoginFederated(ctx, "provider-token")
	assert.NoError(t, err)
	assert.Equal(t, "writer@example.com", identity.Email)
	assert.Equal(t, RoleWriter, identity.Role)
	assert.Equal(t, "Local Name", identity.Name)
}

func TestLoginFederatedBadAssertion(t *testing.T) {
	provider := &stubProvider{err: errors.New("assertion rejected")}
	s, _ := setupTestService(t, provider)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := s.LoginFederated(ctx, "provider-token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestDeleteAdminAccount(t *testing.T) {
	s, _ := setupTestService(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// static accounts are immutable
	err := s.DeleteAdminAccount(ctx, "root@example.com")
	assert.ErrorIs(t, err, ErrStaticAccount)

	_, err = s.Register(ctx, "admin@example.com", "secret1", "DB Admin", RoleAdmin)
	assert.NoError(t, err)

	assert.NoError(t, s.DeleteAdminAccount(ctx, "admin@example.com"))

	err = s.DeleteAdminAccount(ctx, "admin@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}
