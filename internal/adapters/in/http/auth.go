package http

import (
	"fmt"
	"net/http"
	"strings"

	"shop/internal/core/domain/model/identity"
	"shop/internal/core/domain/model/kernel"
	"shop/internal/core/ports"

	jwt "github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

// identityContextKey is where the middleware stores the resolved caller
// identity on the echo context.
const identityContextKey = "shop.identity"

// AuthMiddleware authenticates requests with a bearer JWT and resolves the
// caller to a domain identity. The token's subject is the user ID; the role
// comes from the user store, never from the token, so a forged admin claim
// buys nothing.
type AuthMiddleware struct {
	secret []byte
	users  ports.UserRepository
}

// NewAuthMiddleware creates the middleware with the HMAC signing secret and
// the user store used for role resolution.
func NewAuthMiddleware(secret string, users ports.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		secret: []byte(secret),
		users:  users,
	}
}

// Authenticate validates the Authorization header and puts the caller's
// identity on the request context. Requests without a valid token get 401.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		header := ctx.Request().Header.Get(echo.HeaderAuthorization)
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			return unauthorized(ctx, "missing bearer token")
		}

		claims := jwt.RegisteredClaims{}
		_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return m.secret, nil
		})
		if err != nil {
			return unauthorized(ctx, "invalid token")
		}

		actor, err := m.resolveIdentity(ctx, claims.Subject)
		if err != nil {
			return unauthorized(ctx, "unknown user")
		}

		ctx.Set(identityContextKey, actor)
		return next(ctx)
	}
}

func (m *AuthMiddleware) resolveIdentity(ctx echo.Context, subject string) (identity.Identity, error) {
	userID, err := kernel.UUIDFromString(subject)
	if err != nil {
		return identity.Identity{}, err
	}

	account, err := m.users.Get(ctx.Request().Context(), userID)
	if err != nil {
		return identity.Identity{}, err
	}

	return account.Identity()
}

// IdentityFromContext retrieves the caller identity stored by Authenticate.
func IdentityFromContext(ctx echo.Context) (identity.Identity, bool) {
	actor, ok := ctx.Get(identityContextKey).(identity.Identity)
	return actor, ok
}

func unauthorized(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusUnauthorized, envelope{
		Success: false,
		Message: message,
	})
}
