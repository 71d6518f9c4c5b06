package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when a login attempt fails, whether the
// user is unknown or the password does not match. Callers must not reveal
// which case occurred.
var ErrInvalidCredentials = errors.New("invalid credentials")

// User is an account allowed to log in to the API.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Admin        bool
}

// UserQuerier looks up users for authentication.
type UserQuerier interface {
	GetUserByEmail(ctx context.Context, email string) (User, error)
}

// UserStore implements UserQuerier against Postgres.
type UserStore struct {
	db *DB
}

// NewUserStore creates a UserStore.
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

// GetUserByEmail fetches one user by email.
func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	const q = `SELECT id, email, password_hash, admin FROM users WHERE email = $1`

	var u User
	err := s.db.Pool.QueryRow(ctx, q, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Admin)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// Authenticate verifies a password against a user's stored hash. It returns
// ErrInvalidCredentials for any mismatch.
func Authenticate(ctx context.Context, users UserQuerier, email, password string) (User, error) {
	u, err := users.GetUserByEmail(ctx, email)
	if err != nil {
		return User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
