// Package service exposes the core operations over JSON HTTP. Handlers
// only parse and validate requests and shape responses; all behavior
// lives in the auth, trading and portfolio packages.
package service

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/paperbroker/paperbroker/internal/auth"
)

// AuthService handles registration, login and logout.
type AuthService struct {
	authenticator *auth.PasswordAuthenticator
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// NewAuthService creates the account/session handlers.
func NewAuthService(authenticator *auth.PasswordAuthenticator, jwtManager *auth.JWTManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

type registerRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	Confirmation string `json:"confirmation"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Cash     string `json:"cash"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// Register creates a new account and starts a session for it.
func (s *AuthService) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	user, err := s.authenticator.Register(r.Context(), req.Username, req.Password, req.Confirmation)
	if err != nil {
		if !errors.Is(err, auth.ErrUsernameTaken) {
			s.logger.Debug("Registration rejected", "username", req.Username, "error", err)
		}
		writeError(w, s.logger, err)
		return
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	s.logger.Info("User registered", "user_id", user.ID, "username", user.Username)
	writeJSON(w, http.StatusCreated, sessionResponse{
		Token: token,
		User:  userResponse{ID: user.ID, Username: user.Username, Cash: user.Cash.StringFixed(2)},
	})
}

// Login verifies credentials and starts a session.
func (s *AuthService) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	user, err := s.authenticator.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		s.logger.Warn("Login failed", "username", req.Username)
		writeError(w, s.logger, err)
		return
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	s.logger.Info("User logged in", "user_id", user.ID, "username", user.Username)
	writeJSON(w, http.StatusOK, sessionResponse{
		Token: token,
		User:  userResponse{ID: user.ID, Username: user.Username, Cash: user.Cash.StringFixed(2)},
	})
}

// Logout clears the session. Tokens are stateless, so this always
// succeeds and is idempotent: the client discards its token.
func (s *AuthService) Logout(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
