package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/sejin/dispatch-platform/internal/domain"
	apperrors "github.com/sejin/dispatch-platform/pkg/util"
)

// requirementKind discriminates what a rule demands of the caller.
type requirementKind int

const (
	kindPublic requirementKind = iota
	kindAuthenticated
	kindRole
)

// Requirement is what a matched rule demands: nothing, any identity, or a
// specific role.
type Requirement struct {
	kind requirementKind
	role domain.Role
}

// Public allows every request regardless of identity.
func Public() Requirement { return Requirement{kind: kindPublic} }

// Authenticated allows any request that carries an identity.
func Authenticated() Requirement { return Requirement{kind: kindAuthenticated} }

// RequireRole allows only identities holding the given role.
func RequireRole(role domain.Role) Requirement {
	return Requirement{kind: kindRole, role: role}
}

// Rule binds a path pattern to a requirement. A pattern ending in "/**"
// matches the prefix before it; any other pattern matches exactly.
type Rule struct {
	Pattern string
	Require Requirement
}

func (r Rule) matches(path string) bool {
	if prefix, ok := strings.CutSuffix(r.Pattern, "/**"); ok {
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}
	return path == r.Pattern
}

// Policy is the static, ordered route policy table. First match wins;
// when nothing matches the request falls back to Authenticated.
type Policy struct {
	rules []Rule
}

// NewPolicy builds a policy from ordered rules. Loaded once at startup and
// immutable afterwards.
func NewPolicy(rules ...Rule) *Policy {
	return &Policy{rules: rules}
}

// Evaluate checks the path against the rule table and the ambient
// identity. A nil return means the request may proceed.
func (p *Policy) Evaluate(path string, id *Identity) error {
	req := Requirement{kind: kindAuthenticated}
	for _, rule := range p.rules {
		if rule.matches(path) {
			req = rule.Require
			break
		}
	}

	switch req.kind {
	case kindPublic:
		return nil
	case kindAuthenticated:
		if id == nil {
			return apperrors.NewAuthenticationRequired(path)
		}
		return nil
	default:
		if id == nil {
			return apperrors.NewAuthenticationRequired(path)
		}
		if id.Role == req.role || id.HasAuthority(req.role.Authority()) {
			return nil
		}
		return apperrors.NewAccessDenied(path)
	}
}

// Enforce gates every request against the policy table before any handler
// runs. Business code never sees a request the policy rejected.
func Enforce(policy *Policy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, _ := CurrentIdentity(c)
		if err := policy.Evaluate(c.Path(), id); err != nil {
			return err
		}
		return c.Next()
	}
}
