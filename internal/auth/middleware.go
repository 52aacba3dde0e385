package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const UserIDKey contextKey = "user_id"

// SubjectFromContext returns the authenticated user id, empty if absent.
func SubjectFromContext(ctx context.Context) string {
	subject, _ := ctx.Value(UserIDKey).(string)
	return subject
}

// Middleware returns an operation middleware that accepts the token as a
// Bearer header or the auth_token cookie and puts the subject on the request
// context. Operations without a security requirement pass through untouched.
func (h *AuthHandler) Middleware(api huma.API) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if len(ctx.Operation().Security) == 0 {
			next(ctx)
			return
		}

		tokenString := ""
		if header := ctx.Header("Authorization"); strings.HasPrefix(header, "Bearer ") {
			tokenString = strings.TrimPrefix(header, "Bearer ")
		} else if cookie, err := huma.ReadCookie(ctx, "auth_token"); err == nil {
			tokenString = cookie.Value
		}

		if tokenString == "" {
			huma.WriteErr(api, ctx, http.StatusUnauthorized, "Unauthorized: No token found")
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(h.cfg.JWTSecret), nil
		})

		if err != nil || !token.Valid {
			huma.WriteErr(api, ctx, http.StatusUnauthorized, "Unauthorized: Invalid token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			huma.WriteErr(api, ctx, http.StatusUnauthorized, "Unauthorized")
			return
		}
		subject, ok := claims["sub"].(string)
		if !ok || subject == "" {
			huma.WriteErr(api, ctx, http.StatusUnauthorized, "Unauthorized: Invalid token claims")
			return
		}

		next(huma.WithValue(ctx, UserIDKey, subject))
	}
}
