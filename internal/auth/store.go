// Package auth implements the account system: user storage, password
// hashing, signed verification/reset tokens, session cookies, and the
// signup/login/verify/reset routes.
package auth

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vscarantav/parallelscriptures/internal/db"
)

// User is one registered account.
type User struct {
	ID              string
	Email           string
	PasswordHash    string
	CreatedAt       time.Time
	EmailVerifiedAt *time.Time
}

// Verified reports whether the account's email has been confirmed.
func (u *User) Verified() bool { return u.EmailVerifiedAt != nil }

// Store manages users and sessions in SQLite.
type Store struct {
	db *db.DB
}

// NewStore creates a new auth store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// NormalizeEmail lowercases and trims an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser registers a new account with a bcrypt-hashed password.
func (s *Store) CreateUser(ctx context.Context, email, password string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &User{
		ID:           uuid.New().String(),
		Email:        NormalizeEmail(email),
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, u.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting user: %w", err)
	}
	return u, nil
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	var verified sql.NullTime
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt, &verified)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	if verified.Valid {
		t := verified.Time
		u.EmailVerifiedAt = &t
	}
	return &u, nil
}

// UserByEmail returns the account for an address, or nil when absent.
func (s *Store) UserByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at, email_verified_at FROM users WHERE email = ?`,
		NormalizeEmail(email),
	)
	return scanUser(row)
}

// UserByID returns the account for an id, or nil when absent.
func (s *Store) UserByID(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at, email_verified_at FROM users WHERE id = ?`, id,
	)
	return scanUser(row)
}

// CheckPassword verifies a raw password against the stored hash.
func (s *Store) CheckPassword(u *User, raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(raw)) == nil
}

// MarkVerified records email confirmation. Idempotent.
func (s *Store) MarkVerified(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET email_verified_at = ? WHERE id = ? AND email_verified_at IS NULL`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("marking verified: %w", err)
	}
	return nil
}

// SetPassword replaces the password hash for an account.
func (s *Store) SetPassword(ctx context.Context, id, raw string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `UPDATE users SET password_hash = ? WHERE id = ?`, string(hash), id)
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	return nil
}

// sessionTTL is how long a login lasts.
const sessionTTL = 30 * 24 * time.Hour

// CreateSession opens a session for a user and returns its token.
func (s *Store) CreateSession(ctx context.Context, userID string) (string, error) {
	token := uuid.New().String()
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (token, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		token, userID, now, now.Add(sessionTTL),
	)
	if err != nil {
		return "", fmt.Errorf("inserting session: %w", err)
	}
	return token, nil
}

// UserBySession resolves a session token to its user, or nil for a
// missing or expired session.
func (s *Store) UserBySession(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, nil
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT u.id, u.email, u.password_hash, u.created_at, u.email_verified_at
		 FROM sessions s JOIN users u ON u.id = s.user_id
		 WHERE s.token = ? AND s.expires_at > ?`,
		token, time.Now().UTC(),
	)
	return scanUser(row)
}

// DeleteSession ends a session. Unknown tokens are ignored.
func (s *Store) DeleteSession(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}
