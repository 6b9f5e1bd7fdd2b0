package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "github.com/onjuly19th/trading-hub-sub001/internal/api/http"
	"github.com/onjuly19th/trading-hub-sub001/internal/controllers"
	"github.com/onjuly19th/trading-hub-sub001/internal/repository/mongo"
	"github.com/onjuly19th/trading-hub-sub001/internal/usecasees"
	"github.com/onjuly19th/trading-hub-sub001/models"
)

func main() {
	var app App
	var confFileName string

	flag.StringVar(&confFileName, "config", ".env", "")
	flag.Parse()

	app.Name = "trading-hub"
	app.initLogger()

	if err := app.loadConfig(confFileName); err != nil {
		app.Logger.Fatal(err)
	}
	app.setLogLevel()

	if err := app.initLoki(); err != nil {
		app.Logger.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app.initHTTPClient()
	metrics := app.initMetrics()

	repos, err := app.initRepositories(ctx)
	if err != nil {
		app.Logger.Fatal(err)
	}

	if err := app.initTgBot(); err != nil {
		app.Logger.Fatal(err)
	}

	clientController := controllers.NewClientController(app.HTTPClient, app.Logger)
	wsController := controllers.NewWSController(app.Logger)
	metrics.Gauge("ws_clients", "connected websocket clients", func() float64 {
		return float64(wsController.Clients())
	})

	sinks := []usecasees.NotificationSink{wsController}

	var tgmController *controllers.TgmController
	if app.TGM != nil {
		tgmController = controllers.NewTgmController(
			app.TGM,
			app.Config.TelegramChatID,
			models.EventOrderUpdate,
		)
		sinks = append(sinks, tgmController)
	}

	if app.Config.WebhookUrl != "" {
		webhookController, err := controllers.NewWebhookController(
			clientController,
			controllers.NewCryptoController(app.Config.WebhookSecret),
			app.Config.WebhookUrl,
		)
		if err != nil {
			app.Logger.Fatal(err)
		}
		sinks = append(sinks, webhookController)
	}

	notificationUseCase := usecasees.NewNotificationUseCase(
		usecasees.NotificationConfig{
			QueueSize: app.Config.NotifyQueueSize,
			Workers:   app.Config.NotifyWorkers,
		},
		sinks,
		metrics,
		app.Logger,
	)
	notificationUseCase.Start()

	events := usecasees.NewEventPublisher(notificationUseCase, metrics, app.Logger)

	var executionRepo mongo.ExecutionRepo
	if app.Config.Mongo != nil {
		if err := app.initMongo(ctx); err != nil {
			app.Logger.Fatal(err)
		}

		journal := mongo.NewExecutionRepository(app.Mongo, app.Config.Mongo.DBName)
		if err := journal.EnsureIndexes(ctx); err != nil {
			app.Logger.Fatal(err)
		}
		events.Subscribe("journal", usecasees.JournalHandler(journal))
		executionRepo = journal
	}
	executionUseCase := usecasees.NewExecutionUseCase(executionRepo)

	validator := usecasees.NewPortfolioValidator()

	orderUseCase := usecasees.NewOrderUseCase(
		repos.tx,
		repos.orders,
		repos.prices,
		validator,
		notificationUseCase,
		events,
		metrics,
		app.Logger,
	)

	portfolioUseCase := usecasees.NewPortfolioUseCase(
		repos.tx,
		repos.portfolios,
		validator,
		notificationUseCase,
		app.Config.InitialBalance,
		app.Logger,
	)

	priceUseCase := usecasees.NewPriceUseCase(
		clientController,
		repos.prices,
		orderUseCase,
		app.Config.BinanceUrl,
		metrics,
		app.Logger,
	)

	dispatcher := usecasees.NewTickDispatcher(
		ctx,
		priceUseCase,
		usecasees.DispatcherConfig{
			LaneSize:    app.Config.TickLaneSize,
			MaxLanes:    app.Config.TickMaxLanes,
			IdleTimeout: app.Config.TickLaneIdle,
			Pinned:      app.Config.FeedSymbols,
		},
		metrics,
		app.Logger,
	)

	for _, symbol := range app.Config.FeedSymbols {
		if err := priceUseCase.Monitoring(ctx, symbol, app.Config.FeedInterval, dispatcher); err != nil {
			app.Logger.Error(err)
		}
	}

	if tgmController != nil {
		events.Subscribe("telegram", usecasees.TgmHandler(tgmController))

		tgmUseCase := usecasees.NewTgmUseCase(
			repos.orders,
			executionUseCase,
			tgmController,
			app.Config.Location,
			app.Logger,
		)
		go tgmUseCase.CommandProcessor(ctx)

		if err := app.initCron(ctx, tgmUseCase); err != nil {
			app.Logger.Fatal(err)
		}
		app.Cron.Start()
	}

	f := api.NewApp(app.Logger)
	api.NewMiddleware(f, app.Name, app.Logger).Use()
	api.RegisterHTTPEndpoints(f, api.NewHandler(
		orderUseCase,
		portfolioUseCase,
		executionUseCase,
		dispatcher,
		app.Logger,
	))

	go func() {
		if err := f.Listen(app.Config.HTTPAddr); err != nil {
			app.Logger.WithField("method", "main").Error(err)
			stop()
		}
	}()

	mux := http.NewServeMux()
	mux.Handle("/ws", wsController)
	wsServer := &http.Server{
		Addr:              app.Config.WSAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := wsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Logger.WithField("method", "main").Error(err)
			stop()
		}
	}()

	app.Logger.
		WithField("http", app.Config.HTTPAddr).
		WithField("ws", app.Config.WSAddr).
		WithField("storage", app.Config.Storage).
		Info("trading hub started")

	<-ctx.Done()

	app.shutdown(f.Shutdown, wsServer, dispatcher, notificationUseCase)
}

type stopper interface {
	Stop()
}

// shutdown stops intake first, then drains ticks, then notifications.
func (a *App) shutdown(httpShutdown func() error, wsServer *http.Server, dispatcher, notifications stopper) {
	log := a.Logger.WithField("method", "shutdown")

	if err := httpShutdown(); err != nil {
		log.WithError(err).Warn("http shutdown")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := wsServer.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("ws shutdown")
	}

	if a.Cron != nil {
		<-a.Cron.Stop().Done()
	}

	dispatcher.Stop()
	notifications.Stop()

	if a.Mongo != nil {
		if err := a.Mongo.Disconnect(ctx); err != nil {
			log.WithError(err).Warn("mongo disconnect")
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			log.WithError(err).Warn("db close")
		}
	}

	log.Info("bye")
}
