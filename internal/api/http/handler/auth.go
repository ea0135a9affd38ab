package handler

import (
	"context"
	"net/http"

	"github.com/dtroode/shoplist-server/internal/api/http/response"
	"github.com/dtroode/shoplist-server/internal/logger"
	"github.com/dtroode/shoplist-server/internal/model"
	"github.com/dtroode/shoplist-server/internal/service"
)

// AuthService defines registration, login and token lifecycle operations.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (model.User, error)
	Login(ctx context.Context, usernameOrEmail, password string) (service.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (service.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
}

// Auth handles the authentication endpoints.
type Auth struct {
	service AuthService
	logger  *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(service AuthService, logger *logger.Logger) *Auth {
	return &Auth{service: service, logger: logger}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new account.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, h.logger)
		return
	}

	user, err := h.service.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.logger.Debug("registration failed", "username", req.Username, "error", err)
		response.HandleError(w, err, h.logger)
		return
	}

	h.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	response.Created(w, toUserResponse(user), h.logger)
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Login verifies credentials and returns a token pair. Login accepts either
// the username or the email.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, h.logger)
		return
	}

	pair, err := h.service.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		h.logger.Debug("login failed", "login", req.Login, "error", err)
		response.HandleError(w, err, h.logger)
		return
	}

	response.Success(w, tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, h.logger)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh rotates a refresh token and returns a fresh pair.
func (h *Auth) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, h.logger)
		return
	}

	pair, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.logger.Debug("token refresh failed", "error", err)
		response.HandleError(w, err, h.logger)
		return
	}

	response.Success(w, tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, h.logger)
}

// Logout revokes the presented refresh token.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, h.logger)
		return
	}

	if err := h.service.Logout(r.Context(), req.RefreshToken); err != nil {
		response.HandleError(w, err, h.logger)
		return
	}

	response.NoContent(w)
}
