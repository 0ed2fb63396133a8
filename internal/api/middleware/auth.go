package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/api/handlers"
)

// RoleAdmin роль администратора сервиса
const RoleAdmin = "admin"

var (
	// ErrInvalidToken возвращается для неподписанного, просроченного или чужого токена
	ErrInvalidToken = errors.New("invalid token")

	// ErrForbidden возвращается, когда у токена нет роли администратора
	ErrForbidden = errors.New("admin role required")
)

type subjectKey struct{}

// Claims содержимое токена администратора
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken выпускает токен администратора (HS256)
func IssueToken(secret []byte, subject string, ttl time.Duration, now time.Time) (string, error) {
	claims := Claims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken проверяет подпись, срок действия и роль
func ParseToken(secret []byte, raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Role != RoleAdmin {
		return nil, ErrForbidden
	}
	return claims, nil
}

// Auth пропускает только запросы с действующим токеном администратора
// в заголовке Authorization: Bearer <token>
func Auth(secret []byte, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || raw == "" {
				logger.Warn("Auth: missing bearer token for %s %s", r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w)
				return
			}

			claims, err := ParseToken(secret, raw)
			if err != nil {
				logger.Warn("Auth: rejected token for %s %s: %v", r.Method, r.URL.Path, err)
				if errors.Is(err, ErrForbidden) {
					handlers.RespondError(w, http.StatusForbidden, "Нямате достъп")
					return
				}
				handlers.RespondUnauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), subjectKey{}, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSubject возвращает идентификатор администратора из контекста
func GetSubject(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(subjectKey{}).(string)
	return subject, ok
}
