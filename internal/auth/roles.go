package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/book-catalog/internal/domain"
	apperrors "github.com/spec-kit/book-catalog/pkg/util"
)

// RequireRole allows the request through only when the resolved principal
// carries one of the allowed roles. Composes after RequireAccessToken.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.User == nil {
			return apperrors.NewMalformedToken("missing authorization header")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.User.Role]; !exists {
			return apperrors.NewForbidden("FORBIDDEN", "insufficient role")
		}
		return c.Next()
	}
}
