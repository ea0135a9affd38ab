package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/shoplist-server/internal/apierrors"
	"github.com/dtroode/shoplist-server/internal/auth"
	"github.com/dtroode/shoplist-server/internal/logger"
	"github.com/dtroode/shoplist-server/internal/model"
	"github.com/dtroode/shoplist-server/internal/token"
)

// Auth handles registration, login and refresh token rotation.
type Auth struct {
	userStore    model.UserStore
	tokenStore   model.RefreshTokenStore
	tokenManager model.TokenManager
	logger       *logger.Logger
}

func NewAuth(
	userStore model.UserStore,
	tokenStore model.RefreshTokenStore,
	tokenManager model.TokenManager,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:    userStore,
		tokenStore:   tokenStore,
		tokenManager: tokenManager,
		logger:       logger,
	}
}

// TokenPair is an access/refresh token pair issued on login or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Register creates an account with a hashed password.
func (s *Auth) Register(ctx context.Context, username, email, password string) (model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" {
		return model.User{}, apierrors.Validation("username is required")
	}
	if email == "" {
		return model.User{}, apierrors.Validation("email is required")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return model.User{}, apierrors.Validation(err.Error())
	}

	user := model.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}

	saved, err := s.userStore.Create(ctx, user)
	if errors.Is(err, model.ErrDuplicate) {
		return model.User{}, apierrors.Conflict("username or email is already taken")
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return saved, nil
}

// Login verifies credentials and issues a token pair.
func (s *Auth) Login(ctx context.Context, usernameOrEmail, password string) (TokenPair, error) {
	user, err := s.userStore.GetByUsernameOrEmail(ctx, usernameOrEmail)
	if errors.Is(err, model.ErrNotFound) {
		return TokenPair{}, apierrors.Unauthorized("invalid credentials")
	}
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to get user: %w", err)
	}

	if !auth.VerifyPassword(user.PasswordHash, password) {
		return TokenPair{}, apierrors.Unauthorized("invalid credentials")
	}

	return s.issue(ctx, user.ID)
}

// Refresh rotates a refresh token: the presented one is revoked and a new
// pair is issued.
func (s *Auth) Refresh(ctx context.Context, presentedRefresh string) (TokenPair, error) {
	userID, jti, err := s.tokenManager.ParseRefreshToken(presentedRefresh)
	if err != nil {
		return TokenPair{}, apierrors.Unauthorized("invalid refresh token")
	}

	rt, err := s.tokenStore.GetByJTI(ctx, jti)
	if errors.Is(err, model.ErrNotFound) {
		return TokenPair{}, apierrors.Unauthorized("unknown refresh token")
	}
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to get refresh token: %w", err)
	}

	if err := validateRefreshToken(rt, hashRefresh(presentedRefresh), time.Now()); err != nil {
		return TokenPair{}, apierrors.Unauthorized(err.Error())
	}

	if err := s.tokenStore.RevokeByJTI(ctx, jti); err != nil {
		return TokenPair{}, fmt.Errorf("failed to revoke old refresh token: %w", err)
	}

	return s.issue(ctx, userID)
}

// Logout revokes the presented refresh token. Tokens unknown to the store are
// treated as already logged out.
func (s *Auth) Logout(ctx context.Context, presentedRefresh string) error {
	_, jti, err := s.tokenManager.ParseRefreshToken(presentedRefresh)
	if err != nil {
		return apierrors.Unauthorized("invalid refresh token")
	}

	if err := s.tokenStore.RevokeByJTI(ctx, jti); err != nil && !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	return nil
}

// GetUserID resolves the user ID from a bearer access token. Used by the
// authentication middleware.
func (s *Auth) GetUserID(ctx context.Context, accessToken string) (uuid.UUID, error) {
	return s.tokenManager.ParseAccessToken(accessToken)
}

func (s *Auth) issue(ctx context.Context, userID uuid.UUID) (TokenPair, error) {
	access, err := s.tokenManager.GenerateAccessToken(userID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to issue access token: %w", err)
	}

	refresh, jti, err := s.tokenManager.GenerateRefreshToken(userID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	now := time.Now()
	rt := model.RefreshToken{
		ID:        uuid.New(),
		JTI:       jti,
		UserID:    userID,
		TokenHash: hashRefresh(refresh),
		IssuedAt:  now,
		ExpiresAt: now.Add(token.RefreshTTL),
	}

	if err := s.tokenStore.Create(ctx, rt); err != nil {
		return TokenPair{}, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func hashRefresh(token string) []byte {
	h := sha256.Sum256([]byte(token))
	return h[:]
}

func validateRefreshToken(rt model.RefreshToken, presentedHash []byte, now time.Time) error {
	if rt.RevokedAt != nil {
		return model.ErrTokenRevoked
	}
	if now.After(rt.ExpiresAt) {
		return model.ErrTokenExpired
	}
	if subtle.ConstantTimeCompare(rt.TokenHash, presentedHash) != 1 {
		return model.ErrTokenMismatch
	}
	return nil
}
