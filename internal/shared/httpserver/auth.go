package httpserver

import (
	"strings"

	"github.com/cristianortiz/auctionLedger/internal/shared/auth"
	"github.com/cristianortiz/auctionLedger/internal/shared/identity"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PrincipalLocal is the fiber.Ctx Locals key holding the caller, websocket
// handlers read it from there because they have no user context.
const PrincipalLocal = "principal"

// Authenticate resolves the caller from "Authorization: Bearer <jwt>" or the
// "token" query parameter. Requests without a token continue as anonymous,
// requests with an invalid token are rejected with 401.
func Authenticate(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			token = c.Query("token")
		}

		p := identity.Anonymous
		if token != "" {
			var err error
			p, err = auth.ParseToken(token, secret)
			if err != nil {
				log.Warn("Rejected request with invalid token",
					zap.String("path", c.Path()),
					zap.String("remote_addr", c.IP()),
					zap.Error(err),
				)
				return fiber.NewError(fiber.StatusUnauthorized, err.Error())
			}
		}

		c.Locals(PrincipalLocal, p)
		c.SetUserContext(identity.WithPrincipal(c.UserContext(), p))
		return c.Next()
	}
}

// Principal returns the caller resolved by Authenticate
func Principal(c *fiber.Ctx) identity.Principal {
	return identity.FromContext(c.UserContext())
}

func bearerToken(header string) string {
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
