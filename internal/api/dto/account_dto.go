package dto

import (
	"time"

	"github.com/sejin/dispatch-platform/internal/domain"
)

// CreateAccountRequest payload for POST /api/admin/accounts.
type CreateAccountRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=ADMIN DRIVER PLANT"`
}

// AccountSummary response shape for a platform account.
type AccountSummary struct {
	ID        int64       `json:"id"`
	Username  string      `json:"username"`
	Name      string      `json:"name"`
	Role      domain.Role `json:"role"`
	Active    bool        `json:"active"`
	CreatedAt time.Time   `json:"created_at"`
}

// AccountSummaryFrom maps a domain account to its response shape.
func AccountSummaryFrom(account *domain.Account) AccountSummary {
	return AccountSummary{
		ID:        account.ID,
		Username:  account.Username,
		Name:      account.Name,
		Role:      account.Role,
		Active:    account.Active,
		CreatedAt: account.CreatedAt,
	}
}
