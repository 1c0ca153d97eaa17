package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kutluay/electivehub/internal/app/models"
	"github.com/kutluay/electivehub/internal/app/models/dto"
	"github.com/kutluay/electivehub/internal/pkg/apperrors"
	"github.com/kutluay/electivehub/internal/pkg/auth"
)

type fakeUserStore struct {
	users map[int64]*models.User
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrResourceNotFound
}

func (f *fakeUserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	cp := *u
	return &cp, nil
}

type fakeTokenStore struct {
	mu     sync.Mutex
	tokens map[string]*models.RefreshToken
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: map[string]*models.RefreshToken{}}
}

func (f *fakeTokenStore) Create(ctx context.Context, token *models.RefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *token
	f.tokens[token.Token] = &cp
	return nil
}

func (f *fakeTokenStore) GetByToken(ctx context.Context, tokenValue string) (*models.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tokens[tokenValue]
	if !ok {
		return nil, apperrors.ErrTokenNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTokenStore) Revoke(ctx context.Context, tokenValue string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tokens[tokenValue]
	if !ok {
		return apperrors.ErrTokenNotFound
	}
	t.Revoked = true
	return nil
}

func (f *fakeTokenStore) DeleteExpired(ctx context.Context, cutoff time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for value, t := range f.tokens {
		if t.ExpiresAt.Before(cutoff) {
			delete(f.tokens, value)
		}
	}
	return nil
}

func newAuthFixture(t *testing.T) (AuthService, *fakeTokenStore, *auth.JWTService) {
	t.Helper()

	hash, err := auth.HashPassword("changeme123")
	require.NoError(t, err)

	users := &fakeUserStore{users: map[int64]*models.User{
		1: {
			ID:            1,
			InstitutionID: testInstitution,
			Email:         "student1@demo.edu",
			Password:      hash,
			FirstName:     "Ada",
			LastName:      "Yilmaz",
			RoleType:      models.RoleStudent,
		},
	}}
	tokens := newFakeTokenStore()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "electivehub-test",
	})
	return NewAuthService(users, tokens, jwtService), tokens, jwtService
}

func TestLoginIssuesValidTokenPair(t *testing.T) {
	svc, tokens, jwtService := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "student1@demo.edu",
		Password: "changeme123",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.Token.TokenType)
	assert.Equal(t, int64(1), resp.User.ID)
	assert.Equal(t, string(models.RoleStudent), resp.User.Role)

	claims, err := jwtService.ValidateToken(resp.Token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)
	assert.Equal(t, testInstitution, claims.InstitutionID)

	// The refresh token landed in the store.
	_, err = tokens.GetByToken(context.Background(), resp.Token.RefreshToken)
	assert.NoError(t, err)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, &dto.LoginRequest{Email: "student1@demo.edu", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	// An unknown email reads the same as a wrong password.
	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "nobody@demo.edu", Password: "changeme123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestRefreshTokenRotates(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	login, err := svc.Login(ctx, &dto.LoginRequest{Email: "student1@demo.edu", Password: "changeme123"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: login.Token.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.Token.RefreshToken, refreshed.RefreshToken)

	// The presented token was revoked by the rotation.
	_, err = svc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: login.Token.RefreshToken})
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
}

func TestRefreshTokenRejectsUnknownAndExpired(t *testing.T) {
	svc, tokens, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: "no-such-token"})
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	require.NoError(t, tokens.Create(ctx, &models.RefreshToken{
		UserID:    1,
		Token:     "stale-token",
		ExpiresAt: time.Now().Add(-time.Hour),
	}))
	_, err = svc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: "stale-token"})
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}
