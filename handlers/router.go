package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	_ "reelarchitect/docs" // registers the swagger spec
	"reelarchitect/internal/session"
	"reelarchitect/middleware"
)

// SessionCookie is the cookie that ties a browser to its session.
const SessionCookie = "reel_session"

// RouterConfig holds the HTTP options that are not handler dependencies.
type RouterConfig struct {
	AllowOrigins string
	SessionTTL   time.Duration
	// ConsoleAccessLog adds fiber's plain access log next to the structured one.
	ConsoleAccessLog bool
}

// NewApp builds the fiber app with every route registered.
func NewApp(h *ApplicationHandler, registry *session.Registry, cfg RouterConfig) *fiber.App {
	if cfg.AllowOrigins == "" {
		cfg.AllowOrigins = "*"
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}

	app := fiber.New(fiber.Config{
		AppName:      "Reel Architect",
		ErrorHandler: h.errorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	if cfg.ConsoleAccessLog {
		app.Use(logger.New())
	}
	app.Use(middleware.RequestLogger(h.Logger))

	app.Get("/health", Health)
	app.Get("/metrics", adaptor.HTTPHandler(h.Metrics.Handler()))
	app.Get("/swagger/*", fiberSwagger.WrapHandler)

	sessions := fibersession.New(fibersession.Config{
		Expiration:     cfg.SessionTTL,
		KeyLookup:      "cookie:" + SessionCookie,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})
	bind := middleware.SessionBinder(sessions, registry, h.Logger)

	app.Get("/", bind, h.Page)

	apiV1 := app.Group("/api/v1", bind)

	apiV1.Post("/session/signin", h.SignIn)
	apiV1.Get("/session", h.GetSession)

	apiV1.Post("/generate", h.Generate)
	apiV1.Post("/reset", h.Reset)

	apiV1.Get("/history", h.ListHistory)
	apiV1.Get("/history/stream", h.StreamHistory)
	apiV1.Post("/history/:id/load", h.LoadHistoryEntry)
	apiV1.Delete("/history/:id", h.DeleteHistoryEntry)

	apiV1.Post("/copy/:key", h.MarkCopied)
	apiV1.Get("/copy", h.GetCopied)

	return app
}

func (h *ApplicationHandler) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if fe, ok := err.(*fiber.Error); ok {
		code = fe.Code
	}
	return c.Status(code).JSON(ErrorResponse{Status: "error", Message: err.Error()})
}
