package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/book-catalog/internal/domain"
	"github.com/spec-kit/book-catalog/internal/repository"
	apperrors "github.com/spec-kit/book-catalog/pkg/util"
)

const (
	claimsKey    = "auth_claims"
	principalKey = "auth_principal"
)

// Principal represents the authenticated caller on access-guarded routes.
type Principal struct {
	User   *domain.User
	Claims *Claims
}

// Middleware validates bearer tokens, checks the denylist and resolves
// principals. Constructed once at startup with its dependencies injected.
type Middleware struct {
	codec    *Codec
	denylist Denylist
	users    repository.UserRepository
}

// NewMiddleware constructs the auth middleware.
func NewMiddleware(codec *Codec, denylist Denylist, users repository.UserRepository) *Middleware {
	return &Middleware{codec: codec, denylist: denylist, users: users}
}

// RequireAccessToken guards routes that need a valid, unrevoked access
// token. On success the resolved principal is stored on the request.
func (m *Middleware) RequireAccessToken() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := m.verifyRequest(c, domain.TokenKindAccess)
		if err != nil {
			return err
		}

		user, err := m.users.GetByEmail(c.Context(), claims.User.Email)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewUserNotFound()
			}
			return apperrors.MapError(err)
		}

		c.Locals(claimsKey, claims)
		c.Locals(principalKey, &Principal{User: user, Claims: claims})
		return c.Next()
	}
}

// RequireRefreshToken guards the token-refresh route. Only the claims are
// stored; the refresh flow re-resolves the account itself.
func (m *Middleware) RequireRefreshToken() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := m.verifyRequest(c, domain.TokenKindRefresh)
		if err != nil {
			return err
		}
		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// verifyRequest runs the shared gate: bearer extraction, signature and
// expiry verification, denylist check, then the expected-kind check. One
// path parameterized by kind rather than a variant per gate.
func (m *Middleware) verifyRequest(c *fiber.Ctx, expected domain.TokenKind) (*Claims, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return nil, apperrors.NewMalformedToken("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, apperrors.NewMalformedToken("invalid authorization header")
	}

	claims, err := m.codec.Verify(parts[1])
	if err != nil {
		switch {
		case errors.Is(err, ErrExpiredToken):
			return nil, apperrors.NewExpiredToken()
		case errors.Is(err, ErrInvalidSignature):
			return nil, apperrors.NewInvalidSignature()
		default:
			return nil, apperrors.NewMalformedToken("invalid token")
		}
	}

	revoked, err := m.denylist.IsRevoked(c.Context(), claims.TokenID())
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	if revoked {
		return nil, apperrors.NewRevokedToken()
	}

	if claims.Kind() != expected {
		if expected == domain.TokenKindAccess {
			return nil, apperrors.NewWrongTokenType("access token required, refresh token provided")
		}
		return nil, apperrors.NewWrongTokenType("refresh token required, access token provided")
	}

	return claims, nil
}

// ClaimsFromContext retrieves verified token claims.
func ClaimsFromContext(c *fiber.Ctx) (*Claims, bool) {
	claims, ok := c.Locals(claimsKey).(*Claims)
	return claims, ok
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	principal, ok := c.Locals(principalKey).(*Principal)
	return principal, ok
}
