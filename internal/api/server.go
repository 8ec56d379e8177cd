package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/insightdelivered/bank-statement-processor/internal/logger"
)

// Options configures the fiber app.
type Options struct {
	// BodyLimit is the maximum request body in bytes. Zero keeps fiber's default.
	BodyLimit int
	// ReadTimeout bounds reading a full request. Zero means no timeout.
	ReadTimeout time.Duration
	// AllowOrigins is the CORS origin list, "*" for any.
	AllowOrigins string
	// Metrics, when set, is served at /metrics.
	Metrics http.Handler
	Logger  zerolog.Logger
}

// NewApp builds the fiber app with middleware and routes registered.
func NewApp(h *Handler, opts Options) *fiber.App {
	if opts.AllowOrigins == "" {
		opts.AllowOrigins = "*"
	}

	app := fiber.New(fiber.Config{
		AppName:               "bank-statement-processor",
		BodyLimit:             opts.BodyLimit,
		ReadTimeout:           opts.ReadTimeout,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(requestLogger(opts.Logger))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: opts.AllowOrigins,
		AllowMethods: "POST, OPTIONS",
		AllowHeaders: "Content-Type",
	}))

	RegisterRoutes(app, h)
	if opts.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(opts.Metrics))
	}
	return app
}

// RegisterRoutes sets up the API routes. Methods a route does not serve
// are answered with 405.
func RegisterRoutes(app *fiber.App, h *Handler) {
	api := app.Group("/api")

	api.Post("/process-pdf", h.HandleProcessPDF)
	api.Post("/convert", h.HandleConvert)
	api.Get("/health", h.HandleHealth)

	for _, path := range []string{"/process-pdf", "/convert", "/health"} {
		api.All(path, methodNotAllowed)
	}
}

// requestLogger logs every request with its id, status and latency, and
// stores a request-scoped logger in the user context.
func requestLogger(base zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		id, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)

		log := base.With().Str("request_id", id).Logger()
		c.SetUserContext(logger.WithContext(c.UserContext(), log))

		err := c.Next()

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}

		event := log.Info()
		if status >= fiber.StatusInternalServerError {
			event = log.Error().Err(err)
		}
		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
		return err
	}
}

// errorHandler writes errors returned by handlers and recovered panics in
// the API error envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return writeError(c, code, err.Error())
}
