package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sejin/dispatch-platform/internal/events"
)

const bearerPrefix = "Bearer "

// Authenticator resolves bearer tokens into request-scoped identities. It
// never rejects a request: an absent, malformed or invalid token simply
// leaves the request anonymous, and the policy gate decides what that means.
type Authenticator struct {
	tokens     *TokenManager
	logger     *zap.Logger
	dispatcher events.Dispatcher
}

// NewAuthenticator constructs the middleware.
func NewAuthenticator(tokens *TokenManager, logger *zap.Logger, dispatcher events.Dispatcher) *Authenticator {
	return &Authenticator{tokens: tokens, logger: logger, dispatcher: dispatcher}
}

// Handle extracts and verifies the bearer token and, on success, binds the
// derived Identity to the request. Runs on every route.
func (a *Authenticator) Handle(c *fiber.Ctx) error {
	token := resolveBearer(c.Get(fiber.HeaderAuthorization))
	if token == "" {
		return c.Next()
	}

	claims, err := a.tokens.Verify(token)
	if err != nil {
		// The reason stays internal: the client only ever observes the
		// absence of an identity.
		a.logger.Debug("bearer token rejected", zap.String("path", c.Path()), zap.Error(err))
		if a.dispatcher != nil {
			_ = a.dispatcher.Publish(c.UserContext(), events.TokenRejected(c.Path(), err))
		}
		return c.Next()
	}

	subjectID, err := claims.SubjectID()
	if err != nil {
		a.logger.Debug("bearer token rejected", zap.String("path", c.Path()), zap.Error(err))
		return c.Next()
	}

	bindIdentity(c, NewIdentity(subjectID, claims.Role))
	return c.Next()
}

// resolveBearer extracts the token from an "Authorization: Bearer <token>"
// header. Any other shape yields the empty string.
func resolveBearer(header string) string {
	if !strings.HasPrefix(header, bearerPrefix) {
		return ""
	}
	return header[len(bearerPrefix):]
}
