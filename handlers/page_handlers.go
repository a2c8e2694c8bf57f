package handlers

import (
	"github.com/gofiber/fiber/v2"

	"reelarchitect/internal/history"
	"reelarchitect/internal/presentation"
	"reelarchitect/middleware"
	"reelarchitect/models"
)

// Page renders the single-page UI for the caller's session.
func (h *ApplicationHandler) Page(c *fiber.Ctx) error {
	s := middleware.CurrentSession(c)

	var entries []models.HistoryEntry
	if store, scope, err := s.Handle(); err == nil {
		list, err := store.List(c.UserContext(), scope)
		if err != nil {
			// The live stream will fill the sidebar once the store recovers.
			h.Logger.WithError(err).WithField("collection", scope.CollectionPath()).Warn("Could not list history for page")
		}
		history.SortNewestFirst(list)
		entries = list
	}

	page, err := presentation.RenderBytes(presentation.Build(s.State(entries)))
	if err != nil {
		h.Logger.WithError(err).Error("Failed to render page")
		return fiber.ErrInternalServerError
	}
	c.Type("html", "utf-8")
	return c.Status(fiber.StatusOK).Send(page)
}

// Health godoc
// @Summary Health check
// @Tags system
// @Produce  json
// @Success 200 {object} map[string]string
// @Router /health [get]
func Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "ok",
		"message": "Reel Architect is healthy",
	})
}
