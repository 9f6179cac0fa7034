package userservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

var (
	ErrDuplicateUsername = errors.New("duplicate username")
	ErrDuplicateEmail    = errors.New("duplicate email")
	ErrNotFound          = errors.New("user not found")
)

func newUserModel(db *sql.DB) *UserModel {
	return &UserModel{db: db}
}

// UniqueViolation is a helper function to check if the error is a unique
// constraint error on the named constraint.
func UniqueViolation(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23505" && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

func (m *UserModel) insertUser(ctx context.Context, tx *sql.Tx, u *User) error {
	query := `
		INSERT INTO users (username, email, password)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := tx.QueryRowContext(ctx, query, u.Username, u.Email, u.Password.hash).Scan(&u.ID)
	if err != nil {
		switch {
		case UniqueViolation(err, "users_username_key"):
			return ErrDuplicateUsername
		case UniqueViolation(err, "users_email_key"):
			return ErrDuplicateEmail
		default:
			return err
		}
	}
	return nil
}

func (m *UserModel) insertProfile(ctx context.Context, tx *sql.Tx, userID int) error {
	query := `
		INSERT INTO profiles (user_id)
		VALUES ($1)`

	_, err := tx.ExecContext(ctx, query, userID)
	return err
}

func (m *UserModel) getByUsername(ctx context.Context, username string) (*User, error) {
	query := `
		SELECT id, username, email, password, is_staff, version
		FROM users
		WHERE username = $1`

	var u User
	err := m.db.QueryRowContext(ctx, query, username).Scan(&u.ID, &u.Username, &u.Email, &u.Password.hash, &u.IsStaff, &u.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}

func (m *UserModel) getByID(ctx context.Context, id int) (*User, error) {
	query := `
		SELECT id, username, email, is_staff, created_at, updated_at, version
		FROM users
		WHERE id = $1`

	var u User
	err := m.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Username, &u.Email, &u.IsStaff, &u.CreatedAt, &u.UpdatedAt, &u.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}

func (m *UserModel) getProfileByUsername(ctx context.Context, username string) (*Profile, error) {
	query := `
		SELECT p.id, p.user_id, u.username, p.email, p.bio, p.avatar, p.website
		FROM profiles p
		JOIN users u ON p.user_id = u.id
		WHERE u.username = $1`

	var p Profile
	var email sql.NullString
	err := m.db.QueryRowContext(ctx, query, username).Scan(&p.ID, &p.UserID, &p.Username, &email, &p.Bio, &p.Avatar, &p.Website)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	if email.Valid {
		p.Email = &email.String
	}

	return &p, nil
}

func (m *UserModel) getProfileByUserID(ctx context.Context, userID int) (*Profile, error) {
	query := `
		SELECT p.id, p.user_id, u.username, p.email, p.bio, p.avatar, p.website
		FROM profiles p
		JOIN users u ON p.user_id = u.id
		WHERE p.user_id = $1`

	var p Profile
	var email sql.NullString
	err := m.db.QueryRowContext(ctx, query, userID).Scan(&p.ID, &p.UserID, &p.Username, &email, &p.Bio, &p.Avatar, &p.Website)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	if email.Valid {
		p.Email = &email.String
	}

	return &p, nil
}

func (m *UserModel) updateProfile(ctx context.Context, p *Profile) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	query := `
		UPDATE profiles
		SET email = $1, bio = $2, avatar = $3, website = $4
		WHERE user_id = $5`

	var email any
	if p.Email != nil {
		email = *p.Email
	}

	res, err := tx.ExecContext(ctx, query, email, p.Bio, p.Avatar, p.Website, p.UserID)
	if err != nil {
		_ = tx.Rollback()
		switch {
		case UniqueViolation(err, "profiles_email_key"):
			return ErrDuplicateEmail
		default:
			return err
		}
	}

	rows, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	if rows == 0 {
		_ = tx.Rollback()
		return ErrNotFound
	}

	// a profile contact email also becomes the account email
	if p.Email != nil {
		query = `
			UPDATE users
			SET email = $1, updated_at = now(), version = version + 1
			WHERE id = $2`

		_, err = tx.ExecContext(ctx, query, *p.Email, p.UserID)
		if err != nil {
			_ = tx.Rollback()
			switch {
			case UniqueViolation(err, "users_email_key"):
				return ErrDuplicateEmail
			default:
				return err
			}
		}
	}

	return tx.Commit()
}

// staffEmails returns the current snapshot of staff account emails. The
// result is queried fresh on every call so a recipient set is never stale
// beyond the moment of dispatch.
func (m *UserModel) staffEmails(ctx context.Context) ([]string, error) {
	query := `
		SELECT email
		FROM users
		WHERE is_staff = true`

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
