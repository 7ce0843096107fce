package api

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/sahilchouksey/online-courses-api/utils/response"
)

type APIServer struct {
	app           *fiber.App
	listenAddress string
	log           zerolog.Logger
}

func NewAPIServer(listenAddress string, log zerolog.Logger) *APIServer {
	return &APIServer{
		app: fiber.New(fiber.Config{
			AppName:      "online-courses-api",
			ErrorHandler: ErrorHandler(log),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		}),
		listenAddress: listenAddress,
		log:           log,
	}
}

func (s *APIServer) GetEngine() *fiber.App {
	return s.app
}

// Run serves until ctx is cancelled, then drains in-flight requests
func (s *APIServer) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("address", s.listenAddress).Msg("starting API server")
		errCh <- s.app.Listen(s.listenAddress)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down API server")
	return s.app.ShutdownWithTimeout(10 * time.Second)
}

// ErrorHandler renders errors that escape handlers in the response envelope
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return response.Error(c, fiberErr.Code, fiberErr.Message)
		}

		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("unhandled error")
		return response.InternalServerError(c, "")
	}
}
