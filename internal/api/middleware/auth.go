package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v4"

	"github.com/m04kA/consult-booking/internal/api/handlers"
	"github.com/m04kA/consult-booking/internal/domain"
)

const (
	msgMissingToken = "missing bearer token"
	msgInvalidToken = "invalid or expired token"
)

var errInvalidClaims = errors.New("middleware.auth: invalid claims")

type identityKey struct{}

// Claims токена провайдера идентификации: sub - id пользователя, role - роль
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator проверяет HS256 токены провайдера идентификации
type Authenticator struct {
	secret []byte
	logger Logger
}

// NewAuthenticator создает проверку токенов
func NewAuthenticator(secret string, logger Logger) *Authenticator {
	return &Authenticator{secret: []byte(secret), logger: logger}
}

// Required пропускает только запросы с валидным токеном
func (a *Authenticator) Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			handlers.RespondUnauthorized(w, r, msgMissingToken)
			return
		}

		identity, err := a.Parse(raw)
		if err != nil {
			a.logger.Warn("Auth: %s %s rejected: %v", r.Method, r.URL.Path, err)
			handlers.RespondUnauthorized(w, r, msgInvalidToken)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

// Optional добавляет identity, если передан валидный токен; иначе запрос анонимный
func (a *Authenticator) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if raw, ok := bearerToken(r); ok {
			identity, err := a.Parse(raw)
			if err != nil {
				a.logger.Warn("Auth: %s %s rejected: %v", r.Method, r.URL.Path, err)
				handlers.RespondUnauthorized(w, r, msgInvalidToken)
				return
			}
			r = r.WithContext(WithIdentity(r.Context(), identity))
		}
		next.ServeHTTP(w, r)
	})
}

// Parse проверяет подпись и срок токена и извлекает identity
func (a *Authenticator) Parse(raw string) (domain.Identity, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return domain.Identity{}, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return domain.Identity{}, errInvalidClaims
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return domain.Identity{}, fmt.Errorf("%w: subject %q", errInvalidClaims, claims.Subject)
	}
	role := domain.Role(claims.Role)
	if !role.Valid() {
		return domain.Identity{}, fmt.Errorf("%w: role %q", errInvalidClaims, claims.Role)
	}

	return domain.Identity{UserID: userID, Role: role}, nil
}

// WithIdentity кладет identity в контекст
func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// GetIdentity извлекает identity из контекста
func GetIdentity(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(domain.Identity)
	return identity, ok
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(header[7:])
	return token, token != ""
}
