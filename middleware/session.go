package middleware

import (
	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
	"github.com/sirupsen/logrus"

	"reelarchitect/internal/session"
	"reelarchitect/utils"
)

// SessionKey is the fiber.Locals key holding the bound *session.Session.
const SessionKey = "reelsession"

// SessionBinder resolves the browser's session cookie to its Session and
// stores it in Locals. A browser without a cookie gets a fresh session.
func SessionBinder(store *fibersession.Store, registry *session.Registry, log *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			log.WithError(err).Error("Failed to load browser session")
			return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not load session")
		}
		// Save releases sess, so read the id first.
		id := sess.ID()
		if sess.Fresh() {
			if err := sess.Save(); err != nil {
				log.WithError(err).Error("Failed to save browser session")
				return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not create session")
			}
		}
		c.Locals(SessionKey, registry.GetOrCreate(id))
		return c.Next()
	}
}

// CurrentSession returns the session bound by SessionBinder, or nil.
func CurrentSession(c *fiber.Ctx) *session.Session {
	s, _ := c.Locals(SessionKey).(*session.Session)
	return s
}
