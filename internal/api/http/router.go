package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

func RegisterHTTPEndpoints(f *fiber.App, h *Handler) {
	router := f.Group("api")
	router.Get("/healthcheck", h.HealthCheck)
	router.Post("/ticks", h.SubmitTick)

	users := router.Group("/users/:userId")

	users.Post("/portfolio", h.CreatePortfolio)
	users.Get("/portfolio", h.GetPortfolio)
	users.Post("/portfolio/deposit", h.Deposit)
	users.Post("/portfolio/update", h.UpdatePortfolio)

	users.Get("/orders", h.GetOrders)
	users.Post("/orders", h.PlaceOrder)
	users.Get("/orders/:orderId", h.GetOrder)
	users.Delete("/orders/:orderId", h.CancelOrder)

	users.Get("/executions", h.GetExecutions)
}

func NewApp(l *logrus.Logger) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:               "trading-hub",
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			l.WithField("method", c.Method()+" "+c.Path()).WithError(err).Debug("fiber error")

			return c.Status(code).JSON(ErrStruct{Code: "HTTP_ERROR", Msg: err.Error()})
		},
	})
}
