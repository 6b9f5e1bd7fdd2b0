package main

import (
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

type App struct {
	Name string

	Config     *Config
	Logger     *logrus.Logger
	HTTPClient *http.Client
	Registerer prometheus.Registerer
	TGM        *tgbotapi.BotAPI
	DB         *sqlx.DB
	Mongo      *mongo.Client
	Cron       *cron.Cron
}
