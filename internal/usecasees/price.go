package usecasees

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"runtime/debug"
	"strings"
	"time"

	"github.com/onjuly19th/trading-hub-sub001/internal/controllers"
	"github.com/onjuly19th/trading-hub-sub001/internal/repository"
	"github.com/onjuly19th/trading-hub-sub001/internal/usecasees/structs"
	"github.com/onjuly19th/trading-hub-sub001/models"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const priceUrlPath = "/api/v3/ticker/price"

type OrderExecutor interface {
	CheckAndExecuteOrders(ctx context.Context, symbol string, price decimal.Decimal) error
}

type TickSubmitter interface {
	Submit(symbol, rawPrice string) bool
}

// priceUseCase is the boundary between the price feed and the engine. No
// tick, however broken, escapes it as an error or a panic.
type priceUseCase struct {
	clientController controllers.ClientCtrl

	priceRepo repository.PriceRepo
	executor  OrderExecutor

	url string

	metrics *Metrics
	logger  *logrus.Logger
}

func NewPriceUseCase(
	client controllers.ClientCtrl,
	priceRepo repository.PriceRepo,
	executor OrderExecutor,
	url string,
	metrics *Metrics,
	logger *logrus.Logger,
) *priceUseCase {
	return &priceUseCase{
		clientController: client,
		priceRepo:        priceRepo,
		executor:         executor,
		url:              url,
		metrics:          metrics,
		logger:           logger,
	}
}

// ProcessTick parses rawPrice, records it as the last price of symbol and
// runs the matching pass. Failures are logged and discarded.
func (u *priceUseCase) ProcessTick(ctx context.Context, symbol, rawPrice string) {
	log := u.logger.
		WithField("method", "ProcessTick").
		WithField("symbol", symbol)

	defer func() {
		if r := recover(); r != nil {
			u.metrics.Inc(structs.MetricTickFailed)
			log.
				WithField("panic", r).
				Error(string(debug.Stack()))
		}
	}()

	if err := u.processTick(ctx, symbol, rawPrice); err != nil {
		u.metrics.Inc(structs.MetricTickFailed)
		log.WithError(err).Warn("tick discarded")
		return
	}

	u.metrics.Inc(structs.MetricTickProcessed)
}

func (u *priceUseCase) processTick(ctx context.Context, symbol, rawPrice string) error {
	symbol = normalizeSymbol(symbol)
	if symbol == "" {
		return errors.New("empty symbol")
	}

	price, err := ParsePrice(rawPrice)
	if err != nil {
		return err
	}

	if err := u.priceRepo.Store(ctx, &models.Price{
		Symbol:    symbol,
		Price:     price,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		u.logger.
			WithField("method", "ProcessTick").
			WithField("symbol", symbol).
			WithError(err).
			Debug("price not stored")
	}

	return u.executor.CheckAndExecuteOrders(ctx, symbol, price)
}

func ParsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "parse price %q", raw)
	}
	if !price.IsPositive() {
		return decimal.Zero, errors.Errorf("price %s is not positive", price)
	}

	return price, nil
}

// Monitoring polls the ticker endpoint for symbol every interval and hands
// each price to submitter until ctx is done.
func (u *priceUseCase) Monitoring(ctx context.Context, symbol string, interval time.Duration, submitter TickSubmitter) error {
	baseURL, err := url.Parse(u.url)
	if err != nil {
		return err
	}

	baseURL.Path = path.Join(priceUrlPath)

	q := baseURL.Query()
	q.Set("symbol", symbol)

	baseURL.RawQuery = q.Encode()

	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				price, err := u.GetPrice(ctx, baseURL)
				if err != nil {
					u.logger.
						WithField("method", "Monitoring").
						WithField("symbol", symbol).
						Debug(err)
					continue
				}

				submitter.Submit(price.Symbol, price.Price)
			}
		}
	}()

	return nil
}

func (u *priceUseCase) GetPrice(ctx context.Context, tickerURL *url.URL) (*structs.TickerPrice, error) {
	body, err := u.clientController.Send(ctx, http.MethodGet, tickerURL, nil, nil)
	if err != nil {
		return nil, err
	}

	var out structs.TickerPrice
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, errors.Wrap(err, "decode ticker price")
	}
	if out.Symbol == "" {
		return nil, fmt.Errorf("empty ticker response: %s", body)
	}

	return &out, nil
}
