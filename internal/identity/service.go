// Copyright (c) 2026 Aroti. All rights reserved.
// Author: platform@aroti.app

package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/arotihq/aroti-server/internal/insight"
	"github.com/arotihq/aroti-server/internal/platform/apperr"
	"github.com/arotihq/aroti-server/internal/platform/sec"
	"github.com/arotihq/aroti-server/pkg/uuidv7"
)

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	GenerateAccessToken(userID, username, role string, timeToLive time.Duration) (string, error)
}

// Service implements account, session, and profile use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing,
// registration, or login logic must be reviewed before merge.
type Service struct {
	userRepository       UserRepository
	profileRepository    ProfileRepository
	sessionRepository    SessionRepository
	resetTokenRepository ResetTokenRepository
	tokenProvider        TokenProvider
}

// NewService constructs a new [Service] with its dependencies.
func NewService(
	userRepo UserRepository,
	profileRepo ProfileRepository,
	sessionRepo SessionRepository,
	resetRepo ResetTokenRepository,
	tokenProv TokenProvider,
) *Service {
	return &Service{
		userRepository:       userRepo,
		profileRepository:    profileRepo,
		sessionRepository:    sessionRepo,
		resetTokenRepository: resetRepo,
		tokenProvider:        tokenProv,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

/*
Register validates, hashes, and persists a brand new user account.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - error: Conflict (if the email is taken) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// Verify email uniqueness. Return a client-safe Conflict error.
	_, err := service.userRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Prevent storing plain-text passwords. Default cost balances security
	// and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("identity_service_hash_failed: %w", err)
	}

	// Time-sortable ID to prevent PG index fragmentation. Also the stable
	// half of the daily content key, so it is immutable for the account's
	// lifetime.
	user := &User{
		ID:           uuidv7.New(),
		Email:        input.Email,
		PasswordHash: hashedPassword,
		DisplayName:  input.DisplayName,
		Role:         sec.RoleMember,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		return nil, fmt.Errorf("identity_service_register_failed: %w", err)
	}

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email     string
	Password  string
	UserAgent string
	IPAddress string
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *User
}

/*
Login validates user credentials and issues security tokens.

Description: Verifies identity with a constant-time password comparison and
initializes a new session with rotated security tokens.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready session identifiers
  - error: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	user, err := service.userRepository.FindByEmail(context, input.Email)

	// Generic message to prevent account enumeration.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Email, string(user.Role), AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("identity_service_token_generation_failed: %w", err)
	}

	refreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("identity_service_refresh_token_failed: %w", err)
	}

	expiresAt := time.Now().Add(RefreshTokenTTL)
	session := &Session{
		ID:        uuidv7.New(),
		UserID:    user.ID,
		TokenHash: sec.HashToken(refreshToken),
		UserAgent: input.UserAgent,
		IPAddress: input.IPAddress,
		ExpiresAt: expiresAt,
	}

	if err := service.sessionRepository.Create(context, session); err != nil {
		return nil, fmt.Errorf("identity_service_session_creation_failed: %w", err)
	}

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: expiresAt,
		User:                  user,
	}, nil
}

/*
Logout permanently revokes the user's active session.

Description: Idempotent; an already-gone session is a successful logout.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - error: Revocation failures
*/
func (service *Service) Logout(context context.Context, refreshToken string) error {
	session, err := service.sessionRepository.FindByTokenHash(context, sec.HashToken(refreshToken))
	if err != nil {
		return nil
	}

	if err := service.sessionRepository.Revoke(context, session.ID); err != nil {
		return fmt.Errorf("identity_service_logout_failed: %w", err)
	}

	return nil
}

// # Session Management

/*
RefreshSession implements the refresh token rotation mechanism.

Description: Verifies the existing refresh token, revokes it to prevent
reuse (replay attack mitigation), and issues a fresh pair of tokens.

Parameters:
  - context: context.Context
  - refreshToken: string
  - userAgent: string
  - ipAddress: string

Returns:
  - *LoginSession: New session credentials
  - error: Unauthorized or storage failures
*/
func (service *Service) RefreshSession(context context.Context, refreshToken, userAgent, ipAddress string) (*LoginSession, error) {
	session, err := service.sessionRepository.FindByTokenHash(context, sec.HashToken(refreshToken))
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	// Rotation: revoke the old session to prevent replay attacks.
	if err := service.sessionRepository.Revoke(context, session.ID); err != nil {
		return nil, fmt.Errorf("identity_service_refresh_revoke_failed: %w", err)
	}

	user, err := service.userRepository.FindByID(context, session.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("User not found or suspended")
	}

	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Email, string(user.Role), AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("identity_service_refresh_access_token_failed: %w", err)
	}

	newRefreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("identity_service_refresh_secure_token_failed: %w", err)
	}

	expiresAt := time.Now().Add(RefreshTokenTTL)
	newSession := &Session{
		ID:        uuidv7.New(),
		UserID:    user.ID,
		TokenHash: sec.HashToken(newRefreshToken),
		UserAgent: userAgent,
		IPAddress: ipAddress,
		ExpiresAt: expiresAt,
	}

	if err := service.sessionRepository.Create(context, newSession); err != nil {
		return nil, fmt.Errorf("identity_service_refresh_session_creation_failed: %w", err)
	}

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          newRefreshToken,
		RefreshTokenExpiresAt: expiresAt,
		User:                  user,
	}, nil
}

// # Password Recovery

/*
RequestPasswordReset initiates the forgot-password flow.

Description: Generates a secure token and saves it to Redis.
NOTE: Unknown emails succeed silently to prevent user enumeration.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - string: Reset token (empty for unknown emails)
  - error: Generation errors
*/
func (service *Service) RequestPasswordReset(context context.Context, email string) (string, error) {
	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		return "", nil
	}

	token, err := sec.GenerateSecureToken(ResetTokenLength)
	if err != nil {
		return "", fmt.Errorf("identity_service_generate_reset_token_failed: %w", err)
	}

	if err := service.resetTokenRepository.Set(context, token, user.ID, ResetTokenTTL); err != nil {
		return "", fmt.Errorf("identity_service_save_reset_token_failed: %w", err)
	}

	return token, nil
}

/*
ResetPassword completes the forgot-password flow.

Description: Verifies the token, hashes the new password, updates the DB,
and revokes all active sessions for security cleanup.

Parameters:
  - context: context.Context
  - token: string
  - newPassword: string

Returns:
  - error: Validation or update failures
*/
func (service *Service) ResetPassword(context context.Context, token, newPassword string) error {
	userID, err := service.resetTokenRepository.Get(context, token)
	if err != nil {
		return err
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("identity_service_reset_password_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("identity_service_reset_password_update_failed: %w", err)
	}

	// Security cleanup: revoke every active session for this user.
	_ = service.sessionRepository.RevokeAll(context, userID)
	_ = service.resetTokenRepository.Delete(context, token)

	return nil
}

// # Profile & Seeding

/*
GetProfile returns the user's birth profile.

Description: A user who never saved a profile gets the empty profile, not
an error; the client renders it as an unfilled form.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *Profile: Hydrated or empty profile
  - error: Storage failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*Profile, error) {
	profile, err := service.profileRepository.FindByUserID(context, userID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return &Profile{UserID: userID}, nil
		}
		return nil, fmt.Errorf("identity_service_profile_load_failed: %w", err)
	}
	return profile, nil
}

/*
UpdateProfile saves the user's birth profile.

Parameters:
  - context: context.Context
  - profile: *Profile (UserID must be set by the caller from auth claims)

Returns:
  - *Profile: The saved profile
  - error: Validation or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, profile *Profile) (*Profile, error) {
	if profile.BirthTime != nil {
		if _, err := time.Parse(BirthTimeLayout, *profile.BirthTime); err != nil {
			return nil, apperr.ValidationError("Invalid birth time",
				apperr.FieldError{Field: FieldBirthTime, Message: "must be in HH:MM format"})
		}
	}

	if profile.DefaultSign != "" && !profile.DefaultSign.IsValid() {
		return nil, apperr.ValidationError("Invalid zodiac sign",
			apperr.FieldError{Field: FieldDefaultSign, Message: "is not a zodiac sign"})
	}

	if err := service.profileRepository.Upsert(context, profile); err != nil {
		return nil, fmt.Errorf("identity_service_profile_save_failed: %w", err)
	}

	return profile, nil
}

/*
Seed projects the account and profile into the content generator's seed.

Description: Implements the reveal coordinator's SeedProvider contract.
Missing profile data degrades gracefully: no birth date means the horoscope
uses the default sign and numerology falls back to the daily stream.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - insight.Seed: Identity seed for deterministic generation
  - insight.ZodiacSign: Default sign (Pisces when the user chose none)
  - error: apperr.NotFound for unknown users, storage failures
*/
func (service *Service) Seed(context context.Context, userID string) (insight.Seed, insight.ZodiacSign, error) {
	if _, err := service.userRepository.FindByID(context, userID); err != nil {
		return insight.Seed{}, "", err
	}

	seed := insight.Seed{UserID: userID}
	defaultSign := insight.Pisces

	profile, err := service.profileRepository.FindByUserID(context, userID)
	if err != nil {
		if !apperr.IsNotFound(err) {
			return insight.Seed{}, "", fmt.Errorf("identity_service_seed_profile_failed: %w", err)
		}
		return seed, defaultSign, nil
	}

	seed.BirthDate = profile.BirthDate

	if profile.BirthTime != nil {
		if parsed, err := time.Parse(BirthTimeLayout, *profile.BirthTime); err == nil {
			seed.BirthTime = &parsed
		}
	}

	if profile.DefaultSign.IsValid() {
		defaultSign = profile.DefaultSign
	}

	return seed, defaultSign, nil
}
