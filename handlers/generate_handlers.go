package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"reelarchitect/internal/aiclient"
	"reelarchitect/internal/auth"
	"reelarchitect/internal/history"
	"reelarchitect/internal/metrics"
	"reelarchitect/internal/presentation"
	"reelarchitect/middleware"
	"reelarchitect/models"
	"reelarchitect/utils"
)

// Generate godoc
// @Summary Generate a reel script
// @Description Sends the title and description to the generative API and returns the structured script. On success the result is saved to history in the background.
// @Tags generate
// @Accept  json
// @Produce  json
// @Param   request body models.GenerationRequest true "Video title and description"
// @Success 200 {object} GenerateSuccessResponse "Generated script"
// @Failure 400 {object} ErrorResponse "Title or description missing"
// @Failure 401 {object} ErrorResponse "Waiting for authentication"
// @Failure 409 {object} ErrorResponse "A generation is already running for this session"
// @Failure 502 {object} ErrorResponse "The generative API failed or returned an unusable response"
// @Router /generate [post]
func (h *ApplicationHandler) Generate(c *fiber.Ctx) error {
	s := middleware.CurrentSession(c)

	req := new(models.GenerationRequest)
	if err := c.BodyParser(req); err != nil {
		h.Metrics.ObserveGeneration(metrics.OutcomeInvalidRequest, 0)
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
	}
	if msg := utils.ValidateStruct(req); msg != "" || !req.Ready() {
		if msg == "" {
			msg = aiclient.ErrEmptyRequest.Error()
		}
		h.Metrics.ObserveGeneration(metrics.OutcomeInvalidRequest, 0)
		return utils.RespondWithError(c, fiber.StatusBadRequest, msg)
	}

	store, scope, err := s.Handle()
	if err != nil {
		s.Fail(auth.ErrAuthPending)
		h.Metrics.ObserveGeneration(metrics.OutcomeAuthPending, 0)
		return utils.RespondWithError(c, fiber.StatusUnauthorized, auth.ErrAuthPending.Error())
	}

	if err := s.BeginGeneration(*req); err != nil {
		h.Metrics.ObserveGeneration(metrics.OutcomeBusy, 0)
		return utils.RespondWithError(c, fiber.StatusConflict, err.Error())
	}

	log := h.Logger.WithField("session", s.ID()).WithField("title", req.Title)
	start := time.Now()
	result, err := h.Generator.Generate(c.UserContext(), *req)
	took := time.Since(start)
	s.FinishGeneration(result, err)

	if err != nil {
		kind := aiclient.KindOf(err)
		outcome := string(kind)
		if outcome == "" {
			outcome = "error"
		}
		h.Metrics.ObserveGeneration(outcome, took)
		log.WithError(err).WithField("kind", outcome).Error("Generation failed")
		return utils.RespondWithError(c, fiber.StatusBadGateway, userMessage(err))
	}

	h.Metrics.ObserveGeneration(metrics.OutcomeSuccess, took)
	log.WithField("segments", len(result.Segments)).WithField("latency_ms", took.Milliseconds()).Info("Generation succeeded")

	// Saving is best effort and never delays or fails this response.
	h.Appender.Append(store, scope, *req, *result, func(history.AppendOutcome) {
		s.NotifyWatchers()
	})

	return c.Status(fiber.StatusOK).JSON(GenerateSuccessResponse{Status: "success", Data: *result})
}

// userMessage is the single message shown for any generation failure.
func userMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return presentation.DefaultErrorMessage
}
