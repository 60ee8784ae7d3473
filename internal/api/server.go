// Package api serves the tracker over HTTP. Every /api route needs an HS256
// bearer token whose "sub" claim is the user ID.
package api

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/sojournii/sojournii/internal/metrics"
	"github.com/sojournii/sojournii/internal/storage"
	"github.com/sojournii/sojournii/internal/tracker"
)

// Config configures the HTTP server.
type Config struct {
	JWTSecret string
	// AllowOrigins is passed to the CORS middleware. Empty allows all.
	AllowOrigins string
}

// Server is the HTTP API.
type Server struct {
	app     *fiber.App
	tracker *tracker.Tracker
	logger  *slog.Logger
}

// New builds the fiber app and its routes.
func New(tr *tracker.Tracker, cfg Config, logger *slog.Logger) (*Server, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("a JWT secret is required to serve the API")
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{tracker: tr, logger: logger}
	s.app = fiber.New(fiber.Config{
		AppName:               "sojournii",
		DisableStartupMessage: true,
		// Path and query values end up in stored records.
		Immutable:    true,
		ErrorHandler: s.handleError,
	})

	origins := cfg.AllowOrigins
	if origins == "" {
		origins = "*"
	}
	s.app.Use(recover.New())
	s.app.Use(cors.New(cors.Config{AllowOrigins: origins}))
	s.app.Use(s.logRequests)

	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	api := s.app.Group("/api", s.protected([]byte(cfg.JWTSecret)))
	api.Get("/week", s.getWeek)
	api.Get("/days", s.listDays)
	api.Get("/days/:date", s.getDay)
	api.Put("/days/:date", s.putDay)
	api.Delete("/days/:date", s.deleteDay)
	api.Get("/settings", s.getSettings)
	api.Put("/settings", s.putSettings)
	api.Get("/retro", s.getRetro)
	api.Put("/retro", s.putRetro)
	return s, nil
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.logger.Info("api listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.logger.Debug("request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start),
	)
	return err
}

// handleError maps service errors to JSON responses.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "internal error"
	var fe *fiber.Error
	switch {
	case errors.Is(err, tracker.ErrInvalidInput):
		code, msg = fiber.StatusBadRequest, err.Error()
	case errors.Is(err, storage.ErrNotFound):
		code, msg = fiber.StatusNotFound, "not found"
	case errors.As(err, &fe):
		code, msg = fe.Code, fe.Message
	default:
		s.logger.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	}
	return c.Status(code).JSON(fiber.Map{"error": msg})
}
