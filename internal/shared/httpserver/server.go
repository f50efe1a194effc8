package httpserver

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cristianortiz/auctionLedger/internal/shared/logger"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Server struct {
	app *fiber.App
}

var log = logger.GetLogger() // Instancia logger para el pakg

// NewServer builds the fiber app with request logging, health check and the
// authentication middleware, modules register their routes on App()
func NewServer(jwtSecret []byte) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "auction-ledger",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Info("HTTP request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("remote_addr", c.IP()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
		)
		return err
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	app.Use(Authenticate(jwtSecret))

	return &Server{app: app}
}

func (s *Server) App() *fiber.App { return s.app }

// Start listens on addr until SIGINT/SIGTERM or ctx cancellation, then shuts down.
// It returns once in-flight requests have finished or the shutdown timed out.
func (s *Server) Start(ctx context.Context, addr string) error {
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(quit)
		select {
		case <-quit:
		case <-ctx.Done():
		}

		log.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Warn("HTTP server shutdown incomplete", zap.Error(err))
		}
	}()

	log.Info("HTTP server started", zap.String("addr", addr))
	if err := s.app.Listen(addr); err != nil {
		return err
	}
	<-shutdownDone
	return nil
}

// errorHandler renders every unhandled error with the same body as module handlers
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		log.Error("Unhandled HTTP error", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error(), "code": codeFor(code)})
}

func codeFor(status int) string {
	switch {
	case status == fiber.StatusNotFound:
		return "not_found"
	case status == fiber.StatusUnauthorized:
		return "unauthenticated"
	case status >= fiber.StatusBadRequest && status < fiber.StatusInternalServerError:
		return "bad_request"
	default:
		return "internal"
	}
}
