package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"reelarchitect/internal/auth"
	"reelarchitect/internal/presentation"
	"reelarchitect/internal/session"
	"reelarchitect/middleware"
	"reelarchitect/utils"
)

func sessionInfo(s *session.Session) SessionInfo {
	info := SessionInfo{State: s.AuthState().String(), Loading: s.Loading()}
	if id, err := s.Identity(); err == nil {
		info.UserID = id.UserID
	}
	if err := s.AuthError(); err != nil {
		info.AuthError = err.Error()
	}
	return info
}

// SignIn godoc
// @Summary Sign in anonymously
// @Description Establishes an anonymous identity for this browser session. Safe to call again after a failure; a signed-in session is left as is.
// @Tags session
// @Produce  json
// @Success 200 {object} SessionSuccessResponse
// @Failure 409 {object} ErrorResponse "Sign-in already running"
// @Failure 502 {object} ErrorResponse "The auth provider rejected or failed the sign-in"
// @Router /session/signin [post]
func (h *ApplicationHandler) SignIn(c *fiber.Ctx) error {
	s := middleware.CurrentSession(c)
	_, err := s.SignIn(c.UserContext(), h.Provider, h.OpenStore)
	switch {
	case errors.Is(err, auth.ErrSignInInProgress):
		return utils.RespondWithError(c, fiber.StatusConflict, err.Error())
	case err != nil:
		h.Logger.WithError(err).WithField("session", s.ID()).Error("Anonymous sign-in failed")
		return utils.RespondWithError(c, fiber.StatusBadGateway, "Sign-in failed: "+err.Error())
	}
	h.Logger.WithField("session", s.ID()).Info("Session signed in")
	return c.Status(fiber.StatusOK).JSON(SessionSuccessResponse{Status: "success", Data: sessionInfo(s)})
}

// GetSession godoc
// @Summary Session state
// @Tags session
// @Produce  json
// @Success 200 {object} SessionSuccessResponse
// @Router /session [get]
func (h *ApplicationHandler) GetSession(c *fiber.Ctx) error {
	s := middleware.CurrentSession(c)
	return c.Status(fiber.StatusOK).JSON(SessionSuccessResponse{Status: "success", Data: sessionInfo(s)})
}

// MarkCopied godoc
// @Summary Record a copy action
// @Description Starts the 2-second "copied" indicator for one copy button. Keys are independent.
// @Tags copy
// @Produce  json
// @Param   key path string true "Copy key: insta, yt, vis-N or aud-N"
// @Success 200 {object} CopySuccessResponse
// @Failure 400 {object} ErrorResponse "Unknown copy key"
// @Router /copy/{key} [post]
func (h *ApplicationHandler) MarkCopied(c *fiber.Ctx) error {
	key := c.Params("key")
	if !presentation.ValidCopyKey(key) {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Unknown copy key: "+key)
	}
	copies := middleware.CurrentSession(c).Copies()
	until := copies.Mark(key)
	return c.Status(fiber.StatusOK).JSON(CopySuccessResponse{
		Status: "success",
		Data:   CopyState{Key: key, Until: &until, Active: copies.Active()},
	})
}

// GetCopied godoc
// @Summary Copy indicators
// @Tags copy
// @Produce  json
// @Success 200 {object} CopySuccessResponse
// @Router /copy [get]
func (h *ApplicationHandler) GetCopied(c *fiber.Ctx) error {
	active := middleware.CurrentSession(c).Copies().Active()
	return c.Status(fiber.StatusOK).JSON(CopySuccessResponse{Status: "success", Data: CopyState{Active: active}})
}

// Reset godoc
// @Summary Start over
// @Description Clears the active title, description and result ("Create Another Script"). History is untouched.
// @Tags generate
// @Produce  json
// @Success 200 {object} ErrorResponse "status success"
// @Router /reset [post]
func (h *ApplicationHandler) Reset(c *fiber.Ctx) error {
	middleware.CurrentSession(c).Reset()
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "success"})
}
