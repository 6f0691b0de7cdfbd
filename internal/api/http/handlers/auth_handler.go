package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sejin/dispatch-platform/internal/api/dto"
	"github.com/sejin/dispatch-platform/internal/api/response"
	"github.com/sejin/dispatch-platform/internal/auth"
	"github.com/sejin/dispatch-platform/internal/service"
	apperrors "github.com/sejin/dispatch-platform/pkg/util"
)

// AuthHandler exposes login, refresh and identity endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBindError(nil, err)
	}
	if err := apperrors.ValidateStruct(req); err != nil {
		return err
	}

	account, pair, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return response.OK(c, "login succeeded", dto.LoginResponse{
		Account: dto.AccountSummaryFrom(account),
		Tokens: dto.TokenResponse{
			AccessToken:      pair.AccessToken,
			AccessExpiresAt:  pair.AccessExpiresAt,
			RefreshToken:     pair.RefreshToken,
			RefreshExpiresAt: &pair.RefreshExpiresAt,
		},
	})
}

// Refresh handles POST /api/auth/refresh.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBindError(nil, err)
	}
	if err := apperrors.ValidateStruct(req); err != nil {
		return err
	}

	accessToken, expiresAt, err := h.auth.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return err
	}

	return response.OK(c, "token refreshed", dto.TokenResponse{
		AccessToken:     accessToken,
		AccessExpiresAt: expiresAt,
	})
}

// Logout handles POST /api/auth/logout. Stateless tokens have nothing to
// revoke server-side.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.auth.Logout(c.UserContext()); err != nil {
		return err
	}
	return response.OKEmpty(c, "logged out")
}

// Me handles GET /api/me, echoing the resolved identity.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	id, ok := auth.CurrentIdentity(c)
	if !ok {
		// The policy gate guarantees an identity here; treat absence as a fault.
		return apperrors.NewAuthenticationRequired(c.Path())
	}
	return response.OK(c, "current identity", dto.IdentityResponse{
		SubjectID:   id.SubjectID,
		Role:        id.Role,
		Authorities: id.Authorities,
	})
}
