package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/critterdex/critterdex/pkg/models"
)

// Common authentication errors.
var (
	ErrMissingAuthorization = errors.New("missing authorization")
	ErrInvalidAuthFormat    = errors.New("invalid authorization header format")
	ErrInvalidToken         = errors.New("invalid token")
)

// AuthService defines the interface for authentication operations. This
// abstraction separates HTTP handling from token and password logic, making
// both easier to test.
type AuthService interface {
	// HashPassword returns a bcrypt digest of the plaintext password.
	HashPassword(password string) (string, error)

	// CheckPassword compares a plaintext password against the user's stored
	// bcrypt digest.
	CheckPassword(user *models.User, password string) error

	// IssueToken signs a new access token for the user.
	IssueToken(user *models.User) (token string, expiresAt time.Time, err error)

	// ValidateRequest extracts and validates a JWT from the request's
	// Authorization header ("Bearer" scheme). Returns the validated claims.
	ValidateRequest(r *http.Request) (*Claims, error)
}

// Config holds the knobs for token issuance and password hashing.
type Config struct {
	// Secret signs issued tokens (HMAC-SHA256). Must not be empty.
	Secret string
	// TokenTTL is how long issued tokens stay valid.
	TokenTTL time.Duration
	// BcryptCost is the bcrypt work factor; bcrypt.DefaultCost if zero.
	BcryptCost int
}

// authService implements AuthService.
type authService struct {
	cfg    Config
	logger *zap.Logger
}

// NewAuthService creates a new AuthService with the given config and logger.
func NewAuthService(cfg Config, logger *zap.Logger) AuthService {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &authService{
		cfg:    cfg,
		logger: logger,
	}
}

var _ AuthService = (*authService)(nil)

func (s *authService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (s *authService) CheckPassword(user *models.User, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
}

func (s *authService) IssueToken(user *models.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.cfg.TokenTTL)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    "critterdex",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Name: user.Name,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, expiresAt, nil
}

// ValidateRequest extracts and validates a JWT from the request.
func (s *authService) ValidateRequest(r *http.Request) (*Claims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		s.logger.Debug("No JWT found in request",
			zap.String("path", r.URL.Path),
			zap.String("method", r.Method))
		return nil, ErrMissingAuthorization
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		s.logger.Debug("Invalid Authorization header format",
			zap.String("path", r.URL.Path))
		return nil, ErrInvalidAuthFormat
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil {
		s.logger.Debug("JWT validation failed",
			zap.Error(err),
			zap.String("path", r.URL.Path))
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
