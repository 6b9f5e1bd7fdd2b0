package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	api "github.com/onjuly19th/trading-hub-sub001/internal/api/http"
	"github.com/onjuly19th/trading-hub-sub001/internal/repository/memory"
	mongoRepo "github.com/onjuly19th/trading-hub-sub001/internal/repository/mongo"
	mongoMocks "github.com/onjuly19th/trading-hub-sub001/internal/repository/mongo/mocks"
	"github.com/onjuly19th/trading-hub-sub001/internal/usecasees"
	"github.com/onjuly19th/trading-hub-sub001/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type nopNotifier struct{}

func (nopNotifier) NotifyNewOrder(*models.Order)                          {}
func (nopNotifier) NotifyOrderUpdate(*models.Order)                       {}
func (nopNotifier) NotifyPortfolioUpdate(string, models.PortfolioSnapshot) {}
func (nopNotifier) PublishOrderExecuted(models.OrderExecutedEvent)         {}

type tickSubmitter struct {
	accept bool
	ticks  []string
}

func (s *tickSubmitter) Submit(symbol, rawPrice string) bool {
	s.ticks = append(s.ticks, symbol+"@"+rawPrice)
	return s.accept
}

type httpTest struct {
	app   *fiber.App
	ticks *tickSubmitter
}

func initHTTPTest() *httpTest {
	return initHTTPTestWithJournal(nil)
}

func initHTTPTestWithJournal(executionRepo mongoRepo.ExecutionRepo) *httpTest {
	logger := logrus.New()
	store := memory.NewStore()
	txManager := memory.NewTxManager(store)
	validator := usecasees.NewPortfolioValidator()

	orders := usecasees.NewOrderUseCase(
		txManager,
		memory.NewOrderRepository(store),
		memory.NewPriceRepository(store),
		validator,
		nopNotifier{},
		nopNotifier{},
		nil,
		logger,
	)
	portfolios := usecasees.NewPortfolioUseCase(
		txManager,
		memory.NewPortfolioRepository(store),
		validator,
		nopNotifier{},
		decimal.NewFromInt(1000),
		logger,
	)

	ticks := &tickSubmitter{accept: true}

	app := api.NewApp(logger)
	api.RegisterHTTPEndpoints(app, api.NewHandler(
		orders,
		portfolios,
		usecasees.NewExecutionUseCase(executionRepo),
		ticks,
		logger,
	))

	return &httpTest{app: app, ticks: ticks}
}

func (h *httpTest) do(t *testing.T, method, path string, body interface{}) (int, []byte) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, out
}

func decodeErr(t *testing.T, body []byte) api.ErrStruct {
	var e api.ErrStruct
	require.NoError(t, json.Unmarshal(body, &e))
	return e
}

func TestHandler(t *testing.T) {
	h := initHTTPTest()

	status, _ := h.do(t, http.MethodGet, "/api/healthcheck", nil)
	assert.Equal(t, http.StatusOK, status)

	status, body := h.do(t, http.MethodGet, "/api/users/u1/portfolio", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, models.CodePortfolioNotFound, decodeErr(t, body).Code)

	status, _ = h.do(t, http.MethodPost, "/api/users/u1/portfolio", nil)
	assert.Equal(t, http.StatusCreated, status)

	status, body = h.do(t, http.MethodPost, "/api/users/u1/portfolio", nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, models.CodePortfolioExists, decodeErr(t, body).Code)

	status, body = h.do(t, http.MethodPost, "/api/users/u1/orders", map[string]string{
		"symbol": "BTCUSDT",
		"type":   "LIMIT",
		"side":   "BUY",
		"price":  "30000",
		"amount": "0.01",
	})
	require.Equal(t, http.StatusCreated, status, string(body))

	var order models.Order
	require.NoError(t, json.Unmarshal(body, &order))
	assert.Equal(t, models.StatusPending, order.Status)
	assert.True(t, order.Price.Equal(decimal.NewFromInt(30000)))

	status, body = h.do(t, http.MethodGet, "/api/users/u1/portfolio", nil)
	require.Equal(t, http.StatusOK, status)

	var snapshot models.PortfolioSnapshot
	require.NoError(t, json.Unmarshal(body, &snapshot))
	assert.True(t, snapshot.AvailableBalance.Equal(decimal.NewFromInt(700)))

	status, body = h.do(t, http.MethodPost, "/api/users/u1/orders", map[string]string{
		"symbol": "BTCUSDT",
		"type":   "LIMIT",
		"side":   "BUY",
		"price":  "1000",
		"amount": "1",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, models.CodeInsufficientBalance, decodeErr(t, body).Code)

	status, body = h.do(t, http.MethodGet, "/api/users/u1/orders", nil)
	require.Equal(t, http.StatusOK, status)

	var orders []models.Order
	require.NoError(t, json.Unmarshal(body, &orders))
	assert.Len(t, orders, 1)

	status, _ = h.do(t, http.MethodGet, "/api/users/u1/orders/"+order.ID, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = h.do(t, http.MethodGet, "/api/users/u2/orders/"+order.ID, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = h.do(t, http.MethodDelete, "/api/users/u1/orders/"+order.ID, nil)
	assert.Equal(t, http.StatusOK, status)

	status, body = h.do(t, http.MethodDelete, "/api/users/u1/orders/"+order.ID, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, models.CodeOrderAlreadyCancelled, decodeErr(t, body).Code)

	status, body = h.do(t, http.MethodPost, "/api/users/u1/portfolio/deposit", map[string]string{"amount": "50"})
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &snapshot))
	assert.True(t, snapshot.Balance.Equal(decimal.NewFromInt(1050)))

	status, body = h.do(t, http.MethodPost, "/api/users/u1/portfolio/update", map[string]string{
		"symbol": "ETHUSDT",
		"amount": "1",
		"price":  "10",
		"side":   "SELL",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, models.CodeAssetNotFound, decodeErr(t, body).Code)
}

func TestHandler_SubmitTick(t *testing.T) {
	h := initHTTPTest()

	status, _ := h.do(t, http.MethodPost, "/api/ticks", map[string]string{"symbol": "BTCUSDT", "price": "29500"})
	assert.Equal(t, http.StatusAccepted, status)
	assert.Equal(t, []string{"BTCUSDT@29500"}, h.ticks.ticks)

	status, _ = h.do(t, http.MethodPost, "/api/ticks", map[string]string{"symbol": "BTCUSDT"})
	assert.Equal(t, http.StatusBadRequest, status)

	h.ticks.accept = false
	status, body := h.do(t, http.MethodPost, "/api/ticks", map[string]string{"symbol": "BTCUSDT", "price": "1"})
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "TICK_DROPPED", decodeErr(t, body).Code)

	status, _ = h.do(t, http.MethodPost, "/api/ticks", "not an object")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestHandler_GetExecutions(t *testing.T) {
	t.Run("journal disabled", func(t *testing.T) {
		h := initHTTPTest()

		status, body := h.do(t, http.MethodGet, "/api/users/u1/executions", nil)
		assert.Equal(t, http.StatusServiceUnavailable, status)
		assert.Equal(t, models.CodeJournalDisabled, decodeErr(t, body).Code)
	})

	t.Run("journal enabled", func(t *testing.T) {
		repo := mongoMocks.NewExecutionRepo(t)
		repo.On("GetByUserID", mock.Anything, "u1", int64(5)).Return([]models.OrderExecutedEvent{
			{OrderID: "o1", UserID: "u1", Symbol: "BTCUSDT", Side: models.SideBuy, Amount: decimal.RequireFromString("0.01"), FillPrice: decimal.NewFromInt(29500)},
		}, nil).Once()
		repo.On("GetByUserID", mock.Anything, "u2", int64(50)).Return(nil, nil).Once()

		h := initHTTPTestWithJournal(repo)

		status, body := h.do(t, http.MethodGet, "/api/users/u1/executions?limit=5", nil)
		require.Equal(t, http.StatusOK, status)

		var executions []models.OrderExecutedEvent
		require.NoError(t, json.Unmarshal(body, &executions))
		require.Len(t, executions, 1)
		assert.Equal(t, "o1", executions[0].OrderID)
		assert.True(t, executions[0].FillPrice.Equal(decimal.NewFromInt(29500)))

		status, body = h.do(t, http.MethodGet, "/api/users/u2/executions", nil)
		require.Equal(t, http.StatusOK, status)
		assert.JSONEq(t, "[]", string(body))

		status, _ = h.do(t, http.MethodGet, "/api/users/u1/executions?limit=many", nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})
}
