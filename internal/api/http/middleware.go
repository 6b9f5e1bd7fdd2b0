package http

import (
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type Middleware struct {
	appName string
	fiber   *fiber.App
	logger  *logrus.Logger
}

func NewMiddleware(fiber *fiber.App, appName string, logger *logrus.Logger) *Middleware {
	return &Middleware{
		appName: appName,
		fiber:   fiber,
		logger:  logger,
	}
}

// Use installs request logging and /metrics. It must run before routes are
// registered and only once per process, the collectors go to the default
// prometheus registry.
func (m *Middleware) Use() {
	m.useLogger()
	m.useMetrics()
}

func (m *Middleware) useMetrics() {
	prometheus := fiberprometheus.New(m.appName)
	prometheus.RegisterAt(m.fiber, "/metrics")
	m.fiber.Use(prometheus.Middleware)
}

func (m *Middleware) useLogger() {
	m.fiber.Use(func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		m.logger.
			WithField("method", c.Method()).
			WithField("path", c.Path()).
			WithField("status", c.Response().StatusCode()).
			WithField("latency", time.Since(start).String()).
			Debug("request")

		return err
	})
}
