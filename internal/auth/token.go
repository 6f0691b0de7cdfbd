package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/sejin/dispatch-platform/internal/domain"
)

// minSecretBytes is the minimum HS256 key length accepted at startup.
const minSecretBytes = 32

// ErrInvalidToken covers every verification failure: forged signature,
// malformed structure and expiry all collapse into this one error. The
// underlying cause stays wrapped for internal logging only.
var ErrInvalidToken = errors.New("invalid token")

// TokenManager owns the signing key and algorithm for issuing and
// verifying JWT tokens. It is the single place a key rotation or an
// algorithm swap would touch.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenManager builds a manager, rejecting weak key material eagerly so
// misconfiguration surfaces at startup rather than on the first request.
func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) (*TokenManager, error) {
	if len(secret) == 0 {
		return nil, errors.New("auth: signing secret is empty")
	}
	if len(secret) < minSecretBytes {
		return nil, fmt.Errorf("auth: signing secret must be at least %d bytes, got %d", minSecretBytes, len(secret))
	}
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// Claims describes the JWT payload. Refresh tokens omit the role claim.
type Claims struct {
	Role domain.Role `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// SubjectID parses the numeric subject out of the claims.
func (c *Claims) SubjectID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("non-numeric token subject %q: %w", c.Subject, err)
	}
	return id, nil
}

// IssueAccessToken signs a short-lived token carrying the subject's role.
func (tm *TokenManager) IssueAccessToken(subjectID int64, role domain.Role) (string, time.Time, error) {
	return tm.sign(subjectID, role, tm.accessTTL)
}

// IssueRefreshToken signs a longer-lived token carrying only the subject.
func (tm *TokenManager) IssueRefreshToken(subjectID int64) (string, time.Time, error) {
	return tm.sign(subjectID, "", tm.refreshTTL)
}

func (tm *TokenManager) sign(subjectID int64, role domain.Role, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(subjectID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Verify parses and validates a token string. Every failure mode maps to
// ErrInvalidToken; callers must not branch on why verification failed.
func (tm *TokenManager) Verify(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("%w: unexpected claims type", ErrInvalidToken)
	}
	return claims, nil
}

// IsValid reports whether the token verifies; the invalid cause is
// swallowed on purpose.
func (tm *TokenManager) IsValid(tokenStr string) bool {
	_, err := tm.Verify(tokenStr)
	return err == nil
}
