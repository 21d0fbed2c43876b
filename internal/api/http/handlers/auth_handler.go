package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/book-catalog/internal/api/dto"
	"github.com/spec-kit/book-catalog/internal/auth"
	"github.com/spec-kit/book-catalog/internal/domain"
	"github.com/spec-kit/book-catalog/internal/service"
	apperrors "github.com/spec-kit/book-catalog/pkg/util"
)

// AuthHandler exposes signup, login, refresh and logout endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("username, email, password required", nil)
	}

	user, err := h.auth.Register(c.Context(), service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"message": "user created successfully",
			"user":    dto.NewUserSummary(user),
		},
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	user, pair, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": tokenPairResponse(user, pair)})
}

// Refresh handles GET /auth/refresh_token. The refresh guard has already
// verified the token; claims carry the identity to re-resolve.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewMalformedToken("missing token claims")
	}

	user, pair, err := h.auth.Refresh(c.Context(), claims)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": tokenPairResponse(user, pair)})
}

// Logout handles GET /auth/logout. Revokes the presented access token's id;
// repeat calls with the same id are not an error.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewMalformedToken("missing token claims")
	}

	if err := h.auth.Logout(c.Context(), principal.Claims); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": fiber.Map{"message": "logged out successfully"}})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewMalformedToken("missing token claims")
	}
	return c.JSON(fiber.Map{"data": dto.NewUserDetail(principal.User)})
}

// ListUsers handles GET /auth/all_users (admin only).
func (h *AuthHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.auth.ListUsers(c.Context())
	if err != nil {
		return err
	}

	out := make([]dto.UserDetail, 0, len(users))
	for _, user := range users {
		out = append(out, dto.NewUserDetail(user))
	}
	return c.JSON(fiber.Map{"data": out})
}

func tokenPairResponse(user *domain.User, pair *service.TokenPair) dto.TokenPairResponse {
	return dto.TokenPairResponse{
		AccessToken:      pair.AccessToken,
		AccessExpiresAt:  pair.AccessExpiresAt,
		RefreshToken:     pair.RefreshToken,
		RefreshExpiresAt: pair.RefreshExpiresAt,
		User:             dto.NewUserSummary(user),
	}
}
