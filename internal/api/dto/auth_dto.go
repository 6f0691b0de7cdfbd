package dto

import (
	"time"

	"github.com/sejin/dispatch-platform/internal/domain"
)

// LoginRequest payload for POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest payload for POST /api/auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// TokenResponse carries issued tokens back to the client. The refresh
// fields are absent on refresh responses, which issue only a new access token.
type TokenResponse struct {
	AccessToken      string     `json:"access_token"`
	AccessExpiresAt  time.Time  `json:"access_expires_at"`
	RefreshToken     string     `json:"refresh_token,omitempty"`
	RefreshExpiresAt *time.Time `json:"refresh_expires_at,omitempty"`
}

// LoginResponse bundles the account summary with its tokens.
type LoginResponse struct {
	Account AccountSummary `json:"account"`
	Tokens  TokenResponse  `json:"tokens"`
}

// IdentityResponse echoes the resolved request identity.
type IdentityResponse struct {
	SubjectID   int64       `json:"subject_id"`
	Role        domain.Role `json:"role"`
	Authorities []string    `json:"authorities"`
}
