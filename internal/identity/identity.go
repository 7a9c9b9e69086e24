// Copyright (c) 2026 Aroti. All rights reserved.
// Author: platform@aroti.app

/*
Package identity implements accounts, sessions, and the birth profile that
seeds the daily content generator.

# Architecture

  - Accounts: email + password (bcrypt), RS256 JWT access tokens, rotated
    refresh-token sessions in Postgres.
  - Profile: optional birth data (date, time, place) plus a user-chosen
    zodiac sign fallback for users who keep their birth date private.
  - Seeding: [Service.Seed] projects the account and profile into the
    deterministic generator's identity seed. The user ID is the stable
    component: changing it would re-deal the user's entire daily history.
*/
package identity

import (
	"context"
	"time"

	"github.com/arotihq/aroti-server/internal/insight"
	"github.com/arotihq/aroti-server/internal/platform/sec"
	"github.com/arotihq/aroti-server/pkg/civildate"
)

// # Domain Entities

// User represents a registered member.
type User struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Explicitly omitted from JSON for security.
	DisplayName  string       `json:"display_name"`
	Role         sec.UserRole `json:"role"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Profile holds the user's birth data for content personalization.
//
// Every field is optional: the generator works with nothing but a user ID.
type Profile struct {
	UserID string `json:"user_id"`

	// BirthDate drives the zodiac sign and the numerology life path.
	BirthDate *civildate.Date `json:"birth_date,omitempty"`

	// BirthTime is an "HH:MM" wall-clock time, kept for future chart features.
	BirthTime *string `json:"birth_time,omitempty"`

	BirthPlace *string `json:"birth_place,omitempty"`

	// DefaultSign is the user-chosen sign used when BirthDate is absent.
	DefaultSign insight.ZodiacSign `json:"default_sign,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Session represents an active refresh-token session.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"-"` // Hashed value of the refresh token. Omitted for security.
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	ExpiresAt time.Time `json:"expires_at"`
	IsRevoked bool      `json:"is_revoked"`
	CreatedAt time.Time `json:"created_at"`
}

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {
	/*
		FindByID returns the account with the given ID.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a brand-new user account.

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		UpdatePassword replaces only the user's password hash.

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, userID, newHash string) error
}

// # Profile Data Access

// ProfileRepository defines the data access contract for birth profiles.
type ProfileRepository interface {
	/*
		FindByUserID returns the profile for a user.

		Returns:
		  - *Profile: Hydrated entity
		  - error: apperr.NotFound when the user never saved a profile
	*/
	FindByUserID(context context.Context, userID string) (*Profile, error)

	/*
		Upsert saves the profile, creating the row on first save.

		Returns:
		  - error: Persistence failures
	*/
	Upsert(context context.Context, profile *Profile) error
}

// # Session Data Access

// SessionRepository defines the data access contract for refresh-token sessions.
type SessionRepository interface {
	/*
		Create persists a new tracking session for an authenticated login.

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, session *Session) error

	/*
		FindByTokenHash returns the active session matching the token hash.

		Description: Revoked and expired sessions are never returned.

		Returns:
		  - *Session: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByTokenHash(context context.Context, tokenHash string) (*Session, error)

	/*
		Revoke marks a specific session as permanently invalidated.

		Returns:
		  - error: Persistence failures
	*/
	Revoke(context context.Context, sessionID string) error

	/*
		RevokeAll revokes every active session belonging to the userID.

		Returns:
		  - error: Persistence failures
	*/
	RevokeAll(context context.Context, userID string) error
}

// # Volatile Data Access

// ResetTokenRepository defines the contract for volatile password reset tokens.
type ResetTokenRepository interface {
	/*
		Set stores a reset token associated with a userID for a limited duration.

		Returns:
		  - error: Persistence failures
	*/
	Set(context context.Context, token string, userID string, ttl time.Duration) error

	/*
		Get retrieves the userID associated with a given reset token.

		Returns:
		  - string: UserID
		  - error: apperr.NotFound for absent or expired tokens
	*/
	Get(context context.Context, token string) (string, error)

	/*
		Delete removes a reset token after successful use.

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, token string) error
}
