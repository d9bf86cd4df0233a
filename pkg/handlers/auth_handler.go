package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"time"

	"go.uber.org/zap"

	"github.com/critterdex/critterdex/pkg/apperrors"
	"github.com/critterdex/critterdex/pkg/auth"
	"github.com/critterdex/critterdex/pkg/models"
	"github.com/critterdex/critterdex/pkg/repositories"
)

// RegisterRequest for POST /api/auth/register
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest for POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// AuthHandler handles registration and login HTTP requests.
type AuthHandler struct {
	authService auth.AuthService
	users       repositories.UserRepository
	logger      *zap.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(
	authService auth.AuthService,
	users repositories.UserRepository,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		users:       users,
		logger:      logger,
	}
}

// RegisterRoutes registers the auth handler's routes on the given mux.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/register", h.Register)
	mux.HandleFunc("POST /api/auth/login", h.Login)
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid JSON payload")
		return
	}

	if msg, ok := validateRegistration(req); !ok {
		h.writeError(w, http.StatusBadRequest, "validation_failed", msg)
		return
	}

	hash, err := h.authService.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("Failed to hash password", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "registration_failed", "Internal server error")
		return
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := h.users.Create(r.Context(), user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			h.writeError(w, http.StatusConflict, "user_exists", "User already exists")
			return
		}
		h.logger.Error("Failed to create user", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "registration_failed", "Internal server error")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, map[string]string{"message": "User registered successfully"}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid JSON payload")
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Same response as a wrong password: no account enumeration.
			h.writeError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid credentials")
			return
		}
		h.logger.Error("Failed to look up user", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "login_failed", "Internal server error")
		return
	}

	if err := h.authService.CheckPassword(user, req.Password); err != nil {
		h.writeError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid credentials")
		return
	}

	token, expiresAt, err := h.authService.IssueToken(user)
	if err != nil {
		h.logger.Error("Failed to issue token", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "login_failed", "Internal server error")
		return
	}

	if err := WriteJSON(w, http.StatusOK, LoginResponse{AccessToken: token, ExpiresAt: expiresAt}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func validateRegistration(req RegisterRequest) (string, bool) {
	if len(req.Name) < 2 {
		return "Name must be at least 2 characters", false
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return "Invalid email address", false
	}
	if len(req.Password) < 6 {
		return "Password must be at least 6 characters", false
	}
	return "", true
}

func (h *AuthHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	if err := ErrorResponse(w, status, code, message); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}
