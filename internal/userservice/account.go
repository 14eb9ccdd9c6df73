package userservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

var (
	ErrDuplicateAccount = errors.New("duplicate account")
	ErrNotFound         = errors.New("account not found")
	ErrStaticAccount    = errors.New("static accounts cannot be deleted")
)

func newAccountModel(db *sql.DB) *DBModel {
	return &DBModel{db: db}
}

// duplicateKeyError reports whether the error is a unique constraint
// violation on the named constraint.
func duplicateKeyError(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23505" && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

func (m *DBModel) insertAccount(ctx context.Context, a *Account) error {
	query := `
		INSERT INTO accounts (email, password_hash, name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	args := []any{
		a.Email,
		a.Password.hash,
		a.Name,
		string(a.Role),
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		switch {
		case duplicateKeyError(err, "accounts_email_key"):
			return ErrDuplicateAccount
		default:
			return err
		}
	}

	return nil
}

func (m *DBModel) getAccountByEmail(ctx context.Context, email string, role Role) (*Account, error) {
	query := `
		SELECT id, email, password_hash, name, role, created_at
		FROM accounts
		WHERE email = $1 AND role = $2`

	var a Account

	err := m.db.QueryRowContext(ctx, query, email, string(role)).Scan(&a.ID, &a.Email, &a.Password.hash, &a.Name, &a.Role, &a.CreatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	return &a, nil
}

func (m *DBModel) listAccountsByRole(ctx context.Context, role Role) ([]Account, error) {
	query := `
		SELECT id, email, name, role, created_at
		FROM accounts
		WHERE role = $1
		ORDER BY created_at DESC`

	rows, err := m.db.QueryContext(ctx, query, string(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		var a Account
		err := rows.Scan(&a.ID, &a.Email, &a.Name, &a.Role, &a.CreatedAt)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return accounts, nil
}

// listAccountEmails returns every account email for the federated allowlist
// snapshot taken at startup.
func (m *DBModel) listAccountEmails(ctx context.Context) ([]string, error) {
	query := `
		SELECT email
		FROM accounts`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return emails, nil
}

func (m *DBModel) deleteAccount(ctx context.Context, id int, role Role) error {
	query := `
		DELETE FROM accounts
		WHERE id = $1 AND role = $2`

	res, err := m.db.ExecContext(ctx, query, id, string(role))
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}
