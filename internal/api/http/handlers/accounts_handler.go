package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sejin/dispatch-platform/internal/api/dto"
	"github.com/sejin/dispatch-platform/internal/api/response"
	"github.com/sejin/dispatch-platform/internal/domain"
	"github.com/sejin/dispatch-platform/internal/service"
	apperrors "github.com/sejin/dispatch-platform/pkg/util"
)

// AccountsHandler exposes admin account management endpoints.
type AccountsHandler struct {
	auth *service.AuthService
}

// NewAccountsHandler constructs the handler.
func NewAccountsHandler(authService *service.AuthService) *AccountsHandler {
	return &AccountsHandler{auth: authService}
}

// Create handles POST /api/admin/accounts.
func (h *AccountsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBindError(nil, err)
	}
	if err := apperrors.ValidateStruct(req); err != nil {
		return err
	}

	role, _ := domain.ParseRole(req.Role)
	account, err := h.auth.CreateAccount(c.UserContext(), req.Username, req.Name, req.Password, role)
	if err != nil {
		return err
	}
	return response.Created(c, "account created", dto.AccountSummaryFrom(account))
}

// List handles GET /api/admin/accounts.
func (h *AccountsHandler) List(c *fiber.Ctx) error {
	accounts, err := h.auth.ListAccounts(c.UserContext())
	if err != nil {
		return err
	}

	summaries := make([]dto.AccountSummary, 0, len(accounts))
	for _, account := range accounts {
		summaries = append(summaries, dto.AccountSummaryFrom(account))
	}
	return response.OK(c, "accounts", summaries)
}
