package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sejin/dispatch-platform/internal/domain"
)

const identityKey = "auth_identity"

// Identity is the resolved principal for one request: subject id, role and
// the derived authority set. It is built once by the authenticator, lives
// in the request's local storage and is discarded when the request ends.
type Identity struct {
	SubjectID   int64
	Role        domain.Role
	Authorities []string
}

// NewIdentity derives an Identity from verified claims.
func NewIdentity(subjectID int64, role domain.Role) *Identity {
	return &Identity{
		SubjectID:   subjectID,
		Role:        role,
		Authorities: []string{role.Authority()},
	}
}

// HasAuthority reports whether the identity carries the given authority.
func (id *Identity) HasAuthority(authority string) bool {
	for _, a := range id.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}

func bindIdentity(c *fiber.Ctx, id *Identity) {
	c.Locals(identityKey, id)
}

// CurrentIdentity returns the identity bound to this request, if any.
// Handlers use this to learn who is calling without touching tokens.
func CurrentIdentity(c *fiber.Ctx) (*Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	id, ok := val.(*Identity)
	return id, ok
}
