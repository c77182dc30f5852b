package server

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/loan-mgt/hf-lora-loader/internal/ensure"
)

// AppOptions controls how the Fiber application should behave. The listen
// address is chosen by the caller when it invokes Listen.
type AppOptions struct {
	Logger *logrus.Logger
	Ensure *ensure.Service
}

const contextKeyRequestID = "_hfll_request_id"

// NewApp builds a Fiber application with request-id middleware and panic
// recovery. Routes are registered separately by the routes sub-package.
func NewApp(opts AppOptions) (*fiber.App, error) {
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if opts.Ensure == nil {
		return nil, errors.New("ensure service is required")
	}

	app := fiber.New(fiber.Config{
		CaseSensitive: true,
	})

	app.Use(recover.New())
	app.Use(requestIDMiddleware())

	return app, nil
}

// requestIDMiddleware 为每个请求生成 uuid，并回写 X-Request-ID 头。
func requestIDMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		reqID := uuid.NewString()
		c.Locals(contextKeyRequestID, reqID)
		c.Set("X-Request-ID", reqID)
		return c.Next()
	}
}

// RequestID returns the request identifier stored by the middleware.
func RequestID(c fiber.Ctx) string {
	if value := c.Locals(contextKeyRequestID); value != nil {
		if reqID, ok := value.(string); ok {
			return reqID
		}
	}
	return ""
}
