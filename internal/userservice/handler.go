package userservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/inkpress/inkpress/internal/common"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRegistrationClosed = errors.New("registration closed")
)

// NewUserService builds the credential store. Static admin passwords are
// hashed up front so every comparison goes through the same bcrypt path.
func NewUserService(db *sql.DB, statics []StaticAdmin, allowlist *Allowlist, provider IdentityProvider) (*UserService, error) {
	accounts := make([]Account, 0, len(statics))
	for _, sa := range statics {
		a := Account{
			Email:  normalizeEmail(sa.Email),
			Name:   sa.Name,
			Role:   RoleAdmin,
			Static: true,
		}
		if err := a.Password.set(sa.Password); err != nil {
			return nil, err
		}
		a.Password.Plain = ""
		accounts = append(accounts, a)
	}

	return &UserService{
		m:         newAccountModel(db),
		statics:   accounts,
		allowlist: allowlist,
		provider:  provider,
	}, nil
}

// SnapshotAllowlist records the emails of every existing account so federated
// sign-in stays closed to accounts created after startup.
func (s *UserService) SnapshotAllowlist(ctx context.Context) error {
	emails, err := s.m.listAccountEmails(ctx)
	if err != nil {
		return err
	}

	for _, sa := range s.statics {
		emails = append(emails, sa.Email)
	}

	s.allowlist.Snapshot(emails)
	return nil
}

// LoginAdmin resolves admin credentials against database-backed admin
// accounts first, then the statically configured ones. Every failure is the
// same generic denial so callers cannot probe which check rejected them.
func (s *UserService) LoginAdmin(ctx context.Context, email, password string) (*Identity, error) {
	v := common.NewValidator()
	validateEmail(v, email)
	validateLoginPassword(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	email = normalizeEmail(email)

	account, err := s.m.getAccountByEmail(ctx, email, RoleAdmin)
	switch {
	case err == nil:
		ok, err := account.Password.compare(password)
		if err != nil {
			return nil, err
		}
		if ok {
			return &Identity{Email: account.Email, Name: account.Name, Role: RoleAdmin}, nil
		}
	case errors.Is(err, ErrNotFound):
		// fall through to the static accounts
	default:
		return nil, err
	}

	for i := range s.statics {
		if s.statics[i].Email != email {
			continue
		}
		ok, err := s.statics[i].Password.compare(password)
		if err != nil {
			return nil, err
		}
		if ok {
			return &Identity{Email: s.statics[i].Email, Name: s.statics[i].Name, Role: RoleAdmin}, nil
		}
	}

	return nil, ErrInvalidCredentials
}

// LoginWriter resolves writer credentials against database-backed accounts.
func (s *UserService) LoginWriter(ctx context.Context, email, password string) (*Identity, error) {
	v := common.NewValidator()
	validateEmail(v, email)
	validateLoginPassword(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	account, err := s.m.getAccountByEmail(ctx, normalizeEmail(email), RoleWriter)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, ErrInvalidCredentials
		default:
			return nil, err
		}
	}

	ok, err := account.Password.compare(password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return &Identity{Email: account.Email, Name: account.Name, Role: RoleWriter}, nil
}

// LoginFederated verifies a third-party assertion and applies the
// closed-registration allowlist. It never creates an account.
func (s *UserService) LoginFederated(ctx context.Context, providerToken string) (*Identity, error) {
	v := common.NewValidator()
	v.Check(providerToken != "", "provider_token", "must be provided")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if s.provider == nil {
		return nil, ErrInvalidCredentials
	}

	assertion, err := s.provider.VerifyAssertion(ctx, providerToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !s.allowlist.Allowed(assertion.Email) {
		return nil, ErrRegistrationClosed
	}

	email := normalizeEmail(assertion.Email)
	name := assertion.Name

	// prefer the locally stored display name when the account exists
	account, err := s.m.getAccountByEmail(ctx, email, RoleWriter)
	if err == nil && account.Name != "" {
		name = account.Name
	}
	if name == "" {
		name = email
	}

	return &Identity{Email: email, Name: name, Role: RoleWriter}, nil
}

// Register creates a database-backed account in the given role pool.
func (s *UserService) Register(ctx context.Context, email, password, name string, role Role) (*Identity, error) {
	v := common.NewValidator()
	validateEmail(v, email)
	validatePassword(v, password)
	validateName(v, name)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	email = normalizeEmail(email)
	if name == "" {
		name = email
	}

	a := Account{
		Email: email,
		Name:  name,
		Role:  role,
	}
	if err := a.Password.set(password); err != nil {
		return nil, err
	}

	if err := s.m.insertAccount(ctx, &a); err != nil {
		return nil, err
	}

	return &Identity{Email: a.Email, Name: a.Name, Role: a.Role}, nil
}

// ListAdminAccounts returns the statically configured admin accounts, flagged
// as such, followed by the database-backed ones.
func (s *UserService) ListAdminAccounts(ctx context.Context) ([]Account, error) {
	stored, err := s.m.listAccountsByRole(ctx, RoleAdmin)
	if err != nil {
		return nil, err
	}

	accounts := make([]Account, 0, len(s.statics)+len(stored))
	for _, sa := range s.statics {
		accounts = append(accounts, Account{Email: sa.Email, Name: sa.Name, Role: RoleAdmin, Static: true})
	}

	return append(accounts, stored...), nil
}

// DeleteAdminAccount removes a database-backed admin account. Statically
// configured accounts are refused with ErrStaticAccount.
func (s *UserService) DeleteAdminAccount(ctx context.Context, email string) error {
	v := common.NewValidator()
	validateEmail(v, email)
	if !v.Valid() {
		return v.ValidationError()
	}

	email = normalizeEmail(email)
	for _, sa := range s.statics {
		if sa.Email == email {
			return ErrStaticAccount
		}
	}

	account, err := s.m.getAccountByEmail(ctx, email, RoleAdmin)
	if err != nil {
		return err
	}

	return s.m.deleteAccount(ctx, account.ID, RoleAdmin)
}

func (s *UserService) ListWriterAccounts(ctx context.Context) ([]Account, error) {
	return s.m.listAccountsByRole(ctx, RoleWriter)
}

func (s *UserService) DeleteWriterAccount(ctx context.Context, id int) error {
	v := common.NewValidator()
	v.Check(id > 0, "id", "must be greater than zero")
	if !v.Valid() {
		return v.ValidationError()
	}

	return s.m.deleteAccount(ctx, id, RoleWriter)
}
