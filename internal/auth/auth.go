// Package auth resolves the identity provider's token into an opaque user
// id on the request context. Login and session management live with the
// identity provider, not here; this package only parses.
package auth

import (
	"time"

	"github.com/fitquest/fitquest-api/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

const TokenDuration = 24 * time.Hour

type AuthHandler struct {
	cfg *config.Config
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// GenerateToken issues a token carrying the subject id. Used by tests and
// local tooling; production tokens come from the identity provider signed
// with the shared secret.
func (h *AuthHandler) GenerateToken(subject string) (string, error) {
	claims := jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(TokenDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}
