package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/sejin/dispatch-platform/internal/auth"
	"github.com/sejin/dispatch-platform/internal/config"
	"github.com/sejin/dispatch-platform/internal/domain"
	"github.com/sejin/dispatch-platform/internal/events"
	"github.com/sejin/dispatch-platform/internal/persistence"
	"github.com/sejin/dispatch-platform/internal/repository"
	apperrors "github.com/sejin/dispatch-platform/pkg/util"
)

// TokenPair carries a freshly issued access/refresh token set.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// AuthService coordinates login, token refresh and account management.
type AuthService struct {
	accounts   repository.AccountRepository
	tokens     *auth.TokenManager
	dispatcher events.Dispatcher
	redis      *persistence.Redis
	logger     *zap.Logger
	bcryptCost int
	rateLimit  int
	rateWindow int
}

// AuthDependencies encapsulates collaborator requirements.
type AuthDependencies struct {
	AccountRepo repository.AccountRepository
	Tokens      *auth.TokenManager
	Dispatcher  events.Dispatcher
	Redis       *persistence.Redis
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies, logger *zap.Logger) *AuthService {
	return &AuthService{
		accounts:   deps.AccountRepo,
		tokens:     deps.Tokens,
		dispatcher: deps.Dispatcher,
		redis:      deps.Redis,
		logger:     logger,
		bcryptCost: cfg.Auth.BcryptCost,
		rateLimit:  cfg.Auth.LoginRateLimit,
		rateWindow: cfg.Auth.LoginRateWindowSec,
	}
}

// Login authenticates an account and issues an access/refresh token pair.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.Account, *TokenPair, error) {
	if err := s.checkLoginRate(ctx, username); err != nil {
		return nil, nil, err
	}

	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewError("LOGIN_FAILED", "invalid credentials", http.StatusUnauthorized)
		}
		return nil, nil, err
	}
	if !account.Active {
		return nil, nil, apperrors.NewError("LOGIN_FAILED", "invalid credentials", http.StatusUnauthorized)
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, nil, apperrors.NewError("LOGIN_FAILED", "invalid credentials", http.StatusUnauthorized)
	}

	pair, err := s.issuePair(account)
	if err != nil {
		return nil, nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.AccountLoggedIn(account.ID, account.Role))
	}
	return account, pair, nil
}

// Refresh verifies a refresh token and issues a new access token. The role
// is re-read from the account record, not trusted from the old token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, time.Time, error) {
	claims, err := s.tokens.Verify(refreshToken)
	if err != nil {
		return "", time.Time{}, apperrors.NewError("LOGIN_FAILED", "invalid refresh token", http.StatusUnauthorized)
	}
	// Access tokens carry a role claim; refresh tokens never do. An access
	// token must not double as a refresh credential.
	if claims.Role != "" {
		return "", time.Time{}, apperrors.NewError("LOGIN_FAILED", "invalid refresh token", http.StatusUnauthorized)
	}
	subjectID, err := claims.SubjectID()
	if err != nil {
		return "", time.Time{}, apperrors.NewError("LOGIN_FAILED", "invalid refresh token", http.StatusUnauthorized)
	}

	account, err := s.accounts.GetByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", time.Time{}, apperrors.NewError("LOGIN_FAILED", "invalid refresh token", http.StatusUnauthorized)
		}
		return "", time.Time{}, err
	}
	if !account.Active {
		return "", time.Time{}, apperrors.NewError("LOGIN_FAILED", "invalid refresh token", http.StatusUnauthorized)
	}

	return s.tokens.IssueAccessToken(account.ID, account.Role)
}

// Logout is a no-op: tokens are bearer credentials with no server-side
// record, so there is nothing to revoke.
func (s *AuthService) Logout(_ context.Context) error {
	return nil
}

// CreateAccount provisions a new platform account (admin operation).
func (s *AuthService) CreateAccount(ctx context.Context, username, name, password string, role domain.Role) (*domain.Account, error) {
	if _, err := s.accounts.GetByUsername(ctx, username); err == nil {
		return nil, apperrors.NewError("CONFLICT", "username already taken", http.StatusConflict)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		Username:     username,
		Name:         name,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// ListAccounts returns all platform accounts (admin operation).
func (s *AuthService) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	return s.accounts.List(ctx)
}

func (s *AuthService) issuePair(account *domain.Account) (*TokenPair, error) {
	accessToken, accessExp, err := s.tokens.IssueAccessToken(account.ID, account.Role)
	if err != nil {
		return nil, err
	}
	refreshToken, refreshExp, err := s.tokens.IssueRefreshToken(account.ID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// checkLoginRate applies a per-username attempt ceiling. Redis failure
// degrades open.
func (s *AuthService) checkLoginRate(ctx context.Context, username string) error {
	if s.redis == nil || s.rateLimit <= 0 {
		return nil
	}
	key := fmt.Sprintf("dispatch:login_attempts:%s", username)
	count, err := s.redis.CountInWindow(ctx, key, s.rateWindow)
	if err != nil {
		s.logger.Warn("login rate limiter unavailable", zap.Error(err))
		return nil
	}
	if count > int64(s.rateLimit) {
		return apperrors.NewError("RATE_LIMITED", "too many login attempts", http.StatusTooManyRequests)
	}
	return nil
}
