// Copyright (c) 2026 Aroti. All rights reserved.
// Author: platform@aroti.app

package identity_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arotihq/aroti-server/internal/identity"
	"github.com/arotihq/aroti-server/internal/insight"
	"github.com/arotihq/aroti-server/internal/platform/apperr"
	"github.com/arotihq/aroti-server/pkg/civildate"
	"github.com/arotihq/aroti-server/pkg/pointer"
)

// # In-Memory Fakes

type memoryUserRepository struct {
	users map[string]identity.User // keyed by ID
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{users: map[string]identity.User{}}
}

func (repository *memoryUserRepository) FindByID(_ context.Context, id string) (*identity.User, error) {
	user, ok := repository.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return &user, nil
}

func (repository *memoryUserRepository) FindByEmail(_ context.Context, email string) (*identity.User, error) {
	for _, user := range repository.users {
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, apperr.NotFound("User not found with this email")
}

func (repository *memoryUserRepository) Create(_ context.Context, user *identity.User) error {
	repository.users[user.ID] = *user
	return nil
}

func (repository *memoryUserRepository) UpdatePassword(_ context.Context, userID, newHash string) error {
	user, ok := repository.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.PasswordHash = newHash
	repository.users[userID] = user
	return nil
}

type memoryProfileRepository struct {
	profiles map[string]identity.Profile
}

func newMemoryProfileRepository() *memoryProfileRepository {
	return &memoryProfileRepository{profiles: map[string]identity.Profile{}}
}

func (repository *memoryProfileRepository) FindByUserID(_ context.Context, userID string) (*identity.Profile, error) {
	profile, ok := repository.profiles[userID]
	if !ok {
		return nil, apperr.NotFound("Profile")
	}
	return &profile, nil
}

func (repository *memoryProfileRepository) Upsert(_ context.Context, profile *identity.Profile) error {
	repository.profiles[profile.UserID] = *profile
	return nil
}

type memorySessionRepository struct {
	sessions map[string]identity.Session // keyed by token hash
}

func newMemorySessionRepository() *memorySessionRepository {
	return &memorySessionRepository{sessions: map[string]identity.Session{}}
}

func (repository *memorySessionRepository) Create(_ context.Context, session *identity.Session) error {
	repository.sessions[session.TokenHash] = *session
	return nil
}

func (repository *memorySessionRepository) FindByTokenHash(_ context.Context, tokenHash string) (*identity.Session, error) {
	session, ok := repository.sessions[tokenHash]
	if !ok || session.IsRevoked || session.ExpiresAt.Before(time.Now()) {
		return nil, apperr.NotFound("Session")
	}
	return &session, nil
}

func (repository *memorySessionRepository) Revoke(_ context.Context, sessionID string) error {
	for hash, session := range repository.sessions {
		if session.ID == sessionID {
			session.IsRevoked = true
			repository.sessions[hash] = session
		}
	}
	return nil
}

func (repository *memorySessionRepository) RevokeAll(_ context.Context, userID string) error {
	for hash, session := range repository.sessions {
		if session.UserID == userID {
			session.IsRevoked = true
			repository.sessions[hash] = session
		}
	}
	return nil
}

type memoryResetTokenRepository struct {
	tokens map[string]string
}

func newMemoryResetTokenRepository() *memoryResetTokenRepository {
	return &memoryResetTokenRepository{tokens: map[string]string{}}
}

func (repository *memoryResetTokenRepository) Set(_ context.Context, token, userID string, _ time.Duration) error {
	repository.tokens[token] = userID
	return nil
}

func (repository *memoryResetTokenRepository) Get(_ context.Context, token string) (string, error) {
	userID, ok := repository.tokens[token]
	if !ok {
		return "", apperr.NotFound("Reset token is invalid or expired")
	}
	return userID, nil
}

func (repository *memoryResetTokenRepository) Delete(_ context.Context, token string) error {
	delete(repository.tokens, token)
	return nil
}

type staticTokenProvider struct{}

func (staticTokenProvider) GenerateAccessToken(userID, _, _ string, _ time.Duration) (string, error) {
	return "jwt-for-" + userID, nil
}

// # Fixture

type fixture struct {
	service  *identity.Service
	users    *memoryUserRepository
	profiles *memoryProfileRepository
	sessions *memorySessionRepository
}

func newFixture() *fixture {
	users := newMemoryUserRepository()
	profiles := newMemoryProfileRepository()
	sessions := newMemorySessionRepository()

	service := identity.NewService(users, profiles, sessions, newMemoryResetTokenRepository(), staticTokenProvider{})

	return &fixture{service: service, users: users, profiles: profiles, sessions: sessions}
}

// # Tests

/*
TestRegister_DuplicateEmail verifies a second registration with the same
email is rejected with a conflict.
*/
func TestRegister_DuplicateEmail(t *testing.T) {
	fix := newFixture()
	ctx := context.Background()

	input := identity.RegisterInput{Email: "luna@aroti.app", Password: "orbit-secret", DisplayName: "Luna"}

	user, err := fix.service.Register(ctx, input)
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "orbit-secret", user.PasswordHash, "password must be stored hashed")

	_, err = fix.service.Register(ctx, input)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "CONFLICT"))
}

/*
TestLogin_RoundTrip registers, logs in, and verifies a wrong password is
rejected with the same generic message as an unknown email.
*/
func TestLogin_RoundTrip(t *testing.T) {
	fix := newFixture()
	ctx := context.Background()

	_, err := fix.service.Register(ctx, identity.RegisterInput{
		Email: "luna@aroti.app", Password: "orbit-secret", DisplayName: "Luna",
	})
	require.NoError(t, err)

	session, err := fix.service.Login(ctx, identity.LoginInput{Email: "luna@aroti.app", Password: "orbit-secret"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)

	_, err = fix.service.Login(ctx, identity.LoginInput{Email: "luna@aroti.app", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "UNAUTHORIZED"))

	_, unknownErr := fix.service.Login(ctx, identity.LoginInput{Email: "nobody@aroti.app", Password: "orbit-secret"})
	require.Error(t, unknownErr)
	assert.Equal(t, err.Error(), unknownErr.Error(), "wrong password and unknown email must be indistinguishable")
}

/*
TestRefreshSession_Rotation verifies the old refresh token is unusable
after a rotation.
*/
func TestRefreshSession_Rotation(t *testing.T) {
	fix := newFixture()
	ctx := context.Background()

	_, err := fix.service.Register(ctx, identity.RegisterInput{
		Email: "luna@aroti.app", Password: "orbit-secret", DisplayName: "Luna",
	})
	require.NoError(t, err)

	session, err := fix.service.Login(ctx, identity.LoginInput{Email: "luna@aroti.app", Password: "orbit-secret"})
	require.NoError(t, err)

	rotated, err := fix.service.RefreshSession(ctx, session.RefreshToken, "", "")
	require.NoError(t, err)
	assert.NotEqual(t, session.RefreshToken, rotated.RefreshToken)

	_, err = fix.service.RefreshSession(ctx, session.RefreshToken, "", "")
	require.Error(t, err, "a rotated-out refresh token must be rejected")
	assert.True(t, apperr.IsCode(err, "UNAUTHORIZED"))
}

/*
TestSeed_FromProfile verifies the seed projection: birth date carried
through, birth time parsed, and the default sign honored.
*/
func TestSeed_FromProfile(t *testing.T) {
	fix := newFixture()
	ctx := context.Background()

	user, err := fix.service.Register(ctx, identity.RegisterInput{
		Email: "luna@aroti.app", Password: "orbit-secret", DisplayName: "Luna",
	})
	require.NoError(t, err)

	_, err = fix.service.UpdateProfile(ctx, &identity.Profile{
		UserID:      user.ID,
		BirthDate:   pointer.To(civildate.New(1990, time.May, 15)),
		BirthTime:   pointer.To("07:30"),
		DefaultSign: insight.Leo,
	})
	require.NoError(t, err)

	seed, defaultSign, err := fix.service.Seed(ctx, user.ID)
	require.NoError(t, err)

	assert.Equal(t, user.ID, seed.UserID)
	require.NotNil(t, seed.BirthDate)
	assert.True(t, seed.BirthDate.Equal(civildate.New(1990, time.May, 15)))
	require.NotNil(t, seed.BirthTime)
	assert.Equal(t, 7, seed.BirthTime.Hour())
	assert.Equal(t, 30, seed.BirthTime.Minute())
	assert.Equal(t, insight.Leo, defaultSign)
}

/*
TestSeed_NoProfile verifies a user without a saved profile still gets a
usable seed with the Pisces fallback sign.
*/
func TestSeed_NoProfile(t *testing.T) {
	fix := newFixture()
	ctx := context.Background()

	user, err := fix.service.Register(ctx, identity.RegisterInput{
		Email: "luna@aroti.app", Password: "orbit-secret", DisplayName: "Luna",
	})
	require.NoError(t, err)

	seed, defaultSign, err := fix.service.Seed(ctx, user.ID)
	require.NoError(t, err)

	assert.Equal(t, user.ID, seed.UserID)
	assert.Nil(t, seed.BirthDate)
	assert.Equal(t, insight.Pisces, defaultSign)
}

/*
TestUpdateProfile_Validation verifies malformed birth times and unknown
signs are rejected.
*/
func TestUpdateProfile_Validation(t *testing.T) {
	fix := newFixture()
	ctx := context.Background()

	_, err := fix.service.UpdateProfile(ctx, &identity.Profile{
		UserID:    "user-1",
		BirthTime: pointer.To("25:99"),
	})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))

	_, err = fix.service.UpdateProfile(ctx, &identity.Profile{
		UserID:      "user-1",
		DefaultSign: insight.ZodiacSign("Ophiuchus"),
	})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
}
