package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type titled struct {
	Title       string `validate:"required"`
	Description string `validate:"required"`
}

func TestValidateStruct(t *testing.T) {
	assert.Empty(t, ValidateStruct(titled{Title: "a", Description: "b"}))
	assert.Equal(t,
		"Field 'Title' failed on the 'required' tag, Field 'Description' failed on the 'required' tag",
		ValidateStruct(titled{}))
}

func TestFormatValidationErrors_NotValidation(t *testing.T) {
	assert.Nil(t, FormatValidationErrors(errors.New("plain")))
	assert.Nil(t, FormatValidationErrors(nil))
}

func TestResponders(t *testing.T) {
	app := fiber.New()
	app.Get("/err", func(c *fiber.Ctx) error { return RespondWithError(c, fiber.StatusTeapot, "nope") })
	app.Get("/ok", func(c *fiber.Ctx) error { return RespondWithJSON(c, fiber.StatusOK, fiber.Map{"n": 1}) })

	resp, err := app.Test(httptest.NewRequest("GET", "/err", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"status":"error","message":"nope"}`, string(body))

	resp, err = app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "success", got["status"])
}
