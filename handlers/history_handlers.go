package handlers

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"reelarchitect/internal/auth"
	"reelarchitect/internal/history"
	"reelarchitect/internal/presentation"
	"reelarchitect/middleware"
	"reelarchitect/models"
	"reelarchitect/utils"
)

// streamHeartbeat is how often an idle stream writes a comment line, which is
// also how a closed browser connection gets noticed.
const streamHeartbeat = 15 * time.Second

// ListHistory godoc
// @Summary List saved scripts
// @Description Returns the caller's history, newest first. Entries without a timestamp sort last.
// @Tags history
// @Produce  json
// @Success 200 {object} HistoryListSuccessResponse
// @Failure 401 {object} ErrorResponse "Waiting for authentication"
// @Failure 503 {object} ErrorResponse "History store unavailable"
// @Router /history [get]
func (h *ApplicationHandler) ListHistory(c *fiber.Ctx) error {
	store, scope, err := middleware.CurrentSession(c).Handle()
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusUnauthorized, auth.ErrAuthPending.Error())
	}
	entries, err := store.List(c.UserContext(), scope)
	if err != nil {
		h.Logger.WithError(err).WithField("collection", scope.CollectionPath()).Warn("Could not list history")
		return utils.RespondWithError(c, fiber.StatusServiceUnavailable, "History is temporarily unavailable")
	}
	history.SortNewestFirst(entries)
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	return c.Status(fiber.StatusOK).JSON(HistoryListSuccessResponse{Status: "success", Data: entries})
}

// StreamHistory godoc
// @Summary Live history
// @Description Server-Sent Events stream, sent on connect and after every change. Each "history" event carries the full newest-first list as JSON and is followed by a "history-html" event with the rendered sidebar rows.
// @Tags history
// @Produce  text/event-stream
// @Success 200 {string} string "event stream"
// @Failure 401 {object} ErrorResponse "Waiting for authentication"
// @Router /history/stream [get]
func (h *ApplicationHandler) StreamHistory(c *fiber.Ctx) error {
	s := middleware.CurrentSession(c)
	// The stream outlives the handler, so it cannot use the request context.
	ctx, cancel := context.WithCancel(context.Background())
	sub, err := s.Watch(ctx, h.Subscription)
	if err != nil {
		cancel()
		return utils.RespondWithError(c, fiber.StatusUnauthorized, auth.ErrAuthPending.Error())
	}

	log := h.Logger.WithField("session", s.ID())
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()
		defer sub.Close()

		heartbeat := time.NewTicker(streamHeartbeat)
		defer heartbeat.Stop()

		for {
			select {
			case entries, ok := <-sub.Updates():
				if !ok {
					return
				}
				if err := writeSnapshot(w, entries, s.ActiveID()); err != nil {
					log.WithError(err).Debug("History stream closed")
					return
				}
			case <-heartbeat.C:
				// A lapsed sign-in ends the stream; the page signs in and reconnects.
				if _, _, err := s.Handle(); err != nil {
					return
				}
				if _, err := w.WriteString(": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	})
	return nil
}

func writeSnapshot(w *bufio.Writer, entries []models.HistoryEntry, activeID string) error {
	payload, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	rows, err := presentation.RenderHistory(presentation.BuildHistory(entries, activeID))
	if err != nil {
		return err
	}
	if err := writeEvent(w, "history", payload); err != nil {
		return err
	}
	if err := writeEvent(w, "history-html", rows); err != nil {
		return err
	}
	return w.Flush()
}

// writeEvent frames data as one SSE event, one data line per line of input.
func writeEvent(w *bufio.Writer, event string, data []byte) error {
	if _, err := fmt.Fprintf(w, "event: %s\n", event); err != nil {
		return err
	}
	for _, line := range bytes.Split(data, []byte("\n")) {
		if _, err := fmt.Fprintf(w, "data: %s\n", line); err != nil {
			return err
		}
	}
	_, err := w.WriteString("\n")
	return err
}

// LoadHistoryEntry godoc
// @Summary Load a saved script
// @Description Makes a saved entry the active title, description and result. Does not generate or write history.
// @Tags history
// @Produce  json
// @Param   id path string true "History entry ID"
// @Success 200 {object} HistoryEntrySuccessResponse
// @Failure 401 {object} ErrorResponse "Waiting for authentication"
// @Failure 404 {object} ErrorResponse "No such entry"
// @Failure 503 {object} ErrorResponse "History store unavailable"
// @Router /history/{id}/load [post]
func (h *ApplicationHandler) LoadHistoryEntry(c *fiber.Ctx) error {
	s := middleware.CurrentSession(c)
	store, scope, err := s.Handle()
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusUnauthorized, auth.ErrAuthPending.Error())
	}

	id := c.Params("id")
	entries, err := store.List(c.UserContext(), scope)
	if err != nil {
		h.Logger.WithError(err).WithField("collection", scope.CollectionPath()).Warn("Could not read history for load")
		return utils.RespondWithError(c, fiber.StatusServiceUnavailable, "History is temporarily unavailable")
	}
	for _, e := range entries {
		if e.ID == id {
			s.LoadEntry(e)
			return c.Status(fiber.StatusOK).JSON(HistoryEntrySuccessResponse{Status: "success", Data: e})
		}
	}
	return utils.RespondWithError(c, fiber.StatusNotFound, fmt.Sprintf("History entry %s not found", id))
}

// DeleteHistoryEntry godoc
// @Summary Delete a saved script
// @Description Removes the entry. Unknown ids and store failures still answer 200; failures are only logged.
// @Tags history
// @Produce  json
// @Param   id path string true "History entry ID"
// @Success 200 {object} ErrorResponse "status success"
// @Failure 401 {object} ErrorResponse "Waiting for authentication"
// @Router /history/{id} [delete]
func (h *ApplicationHandler) DeleteHistoryEntry(c *fiber.Ctx) error {
	s := middleware.CurrentSession(c)
	store, scope, err := s.Handle()
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusUnauthorized, auth.ErrAuthPending.Error())
	}
	history.DeleteQuietly(c.UserContext(), store, scope, c.Params("id"), h.Diagnostics)
	s.NotifyWatchers()
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "success"})
}
