package http

import (
	"strconv"

	"github.com/onjuly19th/trading-hub-sub001/internal/usecasees"
	"github.com/onjuly19th/trading-hub-sub001/models"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	orders     OrderUseCase
	portfolios PortfolioUseCase
	executions ExecutionUseCase
	ticks      TickSubmitter
	logger     *logrus.Logger
}

func NewHandler(
	orders OrderUseCase,
	portfolios PortfolioUseCase,
	executions ExecutionUseCase,
	ticks TickSubmitter,
	l *logrus.Logger,
) *Handler {
	return &Handler{
		orders:     orders,
		portfolios: portfolios,
		executions: executions,
		ticks:      ticks,
		logger:     l,
	}
}

type ErrStruct struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

type placeOrderRequest struct {
	Symbol string           `json:"symbol"`
	Type   models.OrderType `json:"type"`
	Side   models.OrderSide `json:"side"`
	Price  decimal.Decimal  `json:"price"`
	Amount decimal.Decimal  `json:"amount"`
}

type depositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type portfolioUpdateRequest struct {
	Symbol string           `json:"symbol"`
	Amount decimal.Decimal  `json:"amount"`
	Price  decimal.Decimal  `json:"price"`
	Side   models.OrderSide `json:"side"`
}

type tickRequest struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	body := struct {
		Status bool `json:"status"`
	}{
		Status: true,
	}

	return c.JSON(body)
}

func (h *Handler) PlaceOrder(c *fiber.Ctx) error {
	var req placeOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return h.badRequest(c, err)
	}

	order, err := h.orders.PlaceOrder(c.UserContext(), usecasees.PlaceOrder{
		UserID: c.Params("userId"),
		Symbol: req.Symbol,
		Type:   req.Type,
		Side:   req.Side,
		Price:  req.Price,
		Amount: req.Amount,
	})
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(order)
}

func (h *Handler) CancelOrder(c *fiber.Ctx) error {
	order, err := h.orders.CancelOrder(c.UserContext(), c.Params("userId"), c.Params("orderId"))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(order)
}

func (h *Handler) GetOrders(c *fiber.Ctx) error {
	orders, err := h.orders.GetOrders(c.UserContext(), c.Params("userId"))
	if err != nil {
		return h.fail(c, err)
	}
	if orders == nil {
		orders = []models.Order{}
	}

	return c.JSON(orders)
}

// GetExecutions lists the journaled fills of a user, newest first. The
// optional limit query is clamped by the use case.
func (h *Handler) GetExecutions(c *fiber.Ctx) error {
	var limit int64
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return h.badRequest(c, errors.Wrap(err, "limit"))
		}
		limit = n
	}

	executions, err := h.executions.GetExecutions(c.UserContext(), c.Params("userId"), limit)
	if err != nil {
		return h.fail(c, err)
	}
	if executions == nil {
		executions = []models.OrderExecutedEvent{}
	}

	return c.JSON(executions)
}

func (h *Handler) GetOrder(c *fiber.Ctx) error {
	order, err := h.orders.GetOrder(c.UserContext(), c.Params("userId"), c.Params("orderId"))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(order)
}

func (h *Handler) CreatePortfolio(c *fiber.Ctx) error {
	p, err := h.portfolios.CreatePortfolio(c.UserContext(), c.Params("userId"))
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *Handler) GetPortfolio(c *fiber.Ctx) error {
	p, err := h.portfolios.GetPortfolio(c.UserContext(), c.Params("userId"))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(p)
}

func (h *Handler) Deposit(c *fiber.Ctx) error {
	var req depositRequest
	if err := c.BodyParser(&req); err != nil {
		return h.badRequest(c, err)
	}

	p, err := h.portfolios.Deposit(c.UserContext(), c.Params("userId"), req.Amount)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(p)
}

func (h *Handler) UpdatePortfolio(c *fiber.Ctx) error {
	var req portfolioUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return h.badRequest(c, err)
	}

	p, err := h.portfolios.UpdatePortfolio(c.UserContext(), c.Params("userId"), usecasees.PortfolioUpdate{
		Symbol: req.Symbol,
		Amount: req.Amount,
		Price:  req.Price,
		Side:   req.Side,
	})
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(p)
}

// SubmitTick accepts a tick for asynchronous processing.
func (h *Handler) SubmitTick(c *fiber.Ctx) error {
	var req tickRequest
	if err := c.BodyParser(&req); err != nil {
		return h.badRequest(c, err)
	}
	if req.Symbol == "" || req.Price == "" {
		return h.badRequest(c, errors.New("symbol and price are required"))
	}

	if !h.ticks.Submit(req.Symbol, req.Price) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrStruct{Code: "TICK_DROPPED", Msg: "tick dropped"})
	}

	return c.SendStatus(fiber.StatusAccepted)
}

func (h *Handler) badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrStruct{Code: "BAD_REQUEST", Msg: err.Error()})
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	code := models.ErrorCode(err)

	status := fiber.StatusInternalServerError
	switch {
	case models.IsValidation(err):
		status = fiber.StatusBadRequest
	case models.IsConflict(err), errors.Is(err, models.ErrPortfolioExists):
		status = fiber.StatusConflict
	case errors.Is(err, models.ErrOrderNotFound),
		errors.Is(err, models.ErrPortfolioNotFound),
		errors.Is(err, models.ErrPriceNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, models.ErrJournalDisabled):
		status = fiber.StatusServiceUnavailable
	}

	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		h.logger.
			WithField("method", c.Method()+" "+c.Path()).
			WithError(err).
			Error("request failed")
		msg = "internal error"
	}

	return c.Status(status).JSON(ErrStruct{Code: code, Msg: msg})
}
