// Package auth is responsible for handling authentication and authorization
// logic: user registration, credential verification, session issuance and
// validation, and the ownership guard used by every protected operation.
// This file, `service.go`, implements the credential store.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	// Library for password hashing using bcrypt.
	"golang.org/x/crypto/bcrypt"

	"github.com/user/feedbackboard-go/apperror"
	"github.com/user/feedbackboard-go/db"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// dummyHash is a valid bcrypt hash of a throwaway string. When a login names an
// unknown username, Authenticate verifies the supplied password against this
// hash and discards the result, so the unknown-username path and the
// wrong-password path cost the same bcrypt work and return the same error.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// Service provides credential-store operations over the users table.
type Service struct {
	db db.Querier
	// Dependencies are injected explicitly via the constructor; the Querier
	// interface lets tests substitute a mock connection for the pgx pool.
}

// NewService creates a new auth Service.
func NewService(querier db.Querier) *Service {
	return &Service{db: querier}
}

// Register creates a new user from an already-validated registration request.
// The raw password is hashed with bcrypt before it touches the database and is
// never stored or returned. A username or email that is already registered
// yields a ConflictError naming the duplicated field.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	// bcrypt is a slow, salted, adaptive hash; DefaultCost keeps verification
	// around tens of milliseconds, which is the brute-force resistance we want.
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		// `fmt.Errorf` with `%w` wraps the original error, allowing `errors.Is`
		// or `errors.As` to inspect the chain.
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		Username: req.Username,
		// Store emails in a consistent case so the unique index means what it says.
		Email:          strings.ToLower(req.Email),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		HashedPassword: string(hashedPassword),
	}

	query := `INSERT INTO users (username, password, email, first_name, last_name)
              VALUES ($1, $2, $3, $4, $5)`
	_, err = s.db.Exec(ctx, query, user.Username, user.HashedPassword, user.Email, user.FirstName, user.LastName)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			// The constraint name tells us which uniqueness rule fired: the
			// users_email_key index or the username primary key.
			if strings.Contains(pgErr.ConstraintName, "email") {
				return nil, apperror.NewConflictError("email is already registered", nil)
			}
			return nil, apperror.NewConflictError("username is already taken", nil)
		}
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}

	return user, nil
}

// Authenticate looks up the user by username and verifies the password against
// the stored bcrypt hash. Both failure modes (unknown username and wrong
// password) return the identical AuthError, so a caller cannot tell which
// accounts exist. See dummyHash for how the timing of the two paths is kept
// uniform as well.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := s.getUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Burn an equivalent bcrypt comparison before failing.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, apperror.NewAuthError("invalid username or password", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}

	// `bcrypt.CompareHashAndPassword` performs the constant-time comparison.
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, apperror.NewAuthError("invalid username or password", nil)
	}

	return user, nil
}

// GetUserByUsername retrieves a user by their username, returning a
// NotFoundError when no such user exists.
func (s *Service) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	user, err := s.getUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("user '%s' not found", username), nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user by username", err)
	}
	return user, nil
}

// getUserByUsername is the raw lookup shared by Authenticate and
// GetUserByUsername; it surfaces pgx.ErrNoRows unchanged so callers can decide
// how much to reveal about the miss.
func (s *Service) getUserByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	query := `SELECT username, password, email, first_name, last_name FROM users WHERE username = $1`
	err := s.db.QueryRow(ctx, query, username).Scan(
		&user.Username,
		&user.HashedPassword,
		&user.Email,
		&user.FirstName,
		&user.LastName,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
