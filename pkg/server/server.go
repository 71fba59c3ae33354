// Package server exposes username checks over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codeGROOVE-dev/handlecheck/pkg/handlecheck"
	"github.com/codeGROOVE-dev/handlecheck/pkg/profile"
)

// Checker answers username queries. *handlecheck.Checker satisfies it.
type Checker interface {
	Check(ctx context.Context, platform, username string) (profile.Result, error)
	CheckAll(ctx context.Context, username string) (map[string]profile.Result, error)
	Platforms() []profile.Platform
}

// Server is the HTTP front end for a Checker.
type Server struct {
	app            *fiber.App
	checker        Checker
	logger         *slog.Logger
	requestTimeout time.Duration
}

// Option configures a Server.
type Option func(*config)

type config struct {
	logger          *slog.Logger
	requestTimeout  time.Duration
	rateLimitMax    int
	rateLimitWindow time.Duration
	corsOrigins     string
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithRequestTimeout bounds the time spent answering one request.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *config) { c.requestTimeout = d }
}

// WithRateLimit allows max API requests per client address in each window.
func WithRateLimit(maxRequests int, window time.Duration) Option {
	return func(c *config) {
		c.rateLimitMax = maxRequests
		c.rateLimitWindow = window
	}
}

// WithCORSOrigins sets the comma-separated list of allowed origins.
func WithCORSOrigins(origins string) Option {
	return func(c *config) { c.corsOrigins = origins }
}

// New builds a Server with its middleware and routes.
func New(checker Checker, opts ...Option) *Server {
	cfg := &config{
		logger:          slog.Default(),
		requestTimeout:  20 * time.Second,
		rateLimitMax:    100,
		rateLimitWindow: 15 * time.Minute,
		corsOrigins:     "*",
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	s := &Server{
		checker:        checker,
		logger:         cfg.logger,
		requestTimeout: cfg.requestTimeout,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "handlecheck",
		DisableStartupMessage: true,
		UnescapePath:          true,
		ErrorHandler:          s.errorHandler,
	})

	s.app.Use(requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		Generator:  uuid.NewString,
		ContextKey: requestIDKey,
	}))
	s.app.Use(s.requestLogger())
	s.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e any) {
			s.logger.ErrorContext(c.UserContext(), "panic recovered",
				"path", c.Path(), "panic", e, "request_id", requestID(c))
		},
	}))
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.corsOrigins,
		AllowMethods: "GET,HEAD,OPTIONS",
	}))

	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := s.app.Group("/api", limiter.New(limiter.Config{
		Max:        cfg.rateLimitMax,
		Expiration: cfg.rateLimitWindow,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many requests"})
		},
	}))
	api.Get("/platforms", s.platforms)
	api.Get("/all/:username", s.checkAll)
	api.Get("/:platform/:username", s.check)

	return s
}

// App returns the underlying Fiber application.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves HTTP on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.logger.Info("listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

type platformView struct {
	Name     string           `json:"name"`
	Strategy profile.Strategy `json:"strategy"`
}

func (s *Server) platforms(c *fiber.Ctx) error {
	out := make([]platformView, 0, len(s.checker.Platforms()))
	for _, p := range s.checker.Platforms() {
		out = append(out, platformView{Name: p.Name(), Strategy: p.Strategy()})
	}
	return c.JSON(out)
}

func (s *Server) check(c *fiber.Ctx) error {
	platform := strings.Clone(c.Params("platform"))
	username := strings.Clone(c.Params("username"))

	ctx, cancel := context.WithTimeout(c.UserContext(), s.requestTimeout)
	defer cancel()

	res, err := s.checker.Check(ctx, platform, username)
	if errors.Is(err, handlecheck.ErrUnknownPlatform) {
		return fiber.NewError(fiber.StatusNotFound, "unknown platform: "+platform)
	}
	if err != nil {
		return err
	}
	return c.JSON(res)
}

type allView struct {
	Username string                    `json:"username"`
	Results  map[string]profile.Result `json:"results"`
}

func (s *Server) checkAll(c *fiber.Ctx) error {
	username := strings.Clone(c.Params("username"))

	ctx, cancel := context.WithTimeout(c.UserContext(), s.requestTimeout)
	defer cancel()

	results, err := s.checker.CheckAll(ctx, username)
	if err != nil {
		return err
	}
	return c.JSON(allView{Username: username, Results: results})
}

// errorHandler reports Fiber errors with their own status and hides every other error behind a 500.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	msg := "request failed"
	if errors.Is(err, handlecheck.ErrInternal) {
		msg = "internal fault"
	}
	s.logger.ErrorContext(c.UserContext(), msg,
		"method", c.Method(), "path", c.Path(), "error", err, "request_id", requestID(c))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}
