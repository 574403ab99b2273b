package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/rajeshmondalofficial/rentmate-backend/internal/auth"
)

const claimsKey = "claims"

// Public route prefixes: requests under these skip the gate. Matching is
// anchored at segment boundaries so a parameter value like "author-house"
// can never slip through.
var publicPrefixes = []string{"/auth", "/documentation"}

// Gate authenticates every non-public request from its bearer token.
type Gate struct {
	tokens *auth.TokenManager
}

func NewGate(tokens *auth.TokenManager) *Gate {
	return &Gate{tokens: tokens}
}

// Handler verifies the bearer token and stores the claims on the request.
// On failure the verification error text is the response body.
func (g *Gate) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		for _, prefix := range publicPrefixes {
			if path == prefix || strings.HasPrefix(path, prefix+"/") {
				return c.Next()
			}
		}
		claims, err := g.Authenticate(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
		}
		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// Authenticate resolves claims from a raw Authorization header value.
func (g *Gate) Authenticate(header string) (*auth.IdentityClaims, error) {
	if header == "" {
		return nil, auth.ErrInvalidToken
	}
	parts := strings.SplitN(header, " ", 2)
	token := parts[len(parts)-1]
	return g.tokens.Verify(token)
}

// RequireRole gates a route on a role claim. Must run after Handler, or on
// public-prefixed routes after the handler has stored claims itself.
func (g *Gate) RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := Claims(c)
		if claims == nil || claims.Role != role {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "You don't have permission to access this api resources",
			})
		}
		return c.Next()
	}
}

// Claims returns the authenticated caller's claims, or nil on public routes.
func Claims(c *fiber.Ctx) *auth.IdentityClaims {
	claims, _ := c.Locals(claimsKey).(*auth.IdentityClaims)
	return claims
}
