package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	HTTPAddr string
	WSAddr   string
	Storage  string

	LogLevel string
	LokiAddr string

	TelegramApiToken string
	TelegramChatID   int64

	WebhookUrl    string
	WebhookSecret string

	BinanceUrl    string
	FeedSymbols   []string
	FeedInterval  time.Duration
	ClientTimeout time.Duration

	NotifyQueueSize int
	NotifyWorkers   int
	TickLaneSize    int
	TickMaxLanes    int
	TickLaneIdle    time.Duration

	InitialBalance decimal.Decimal
	StatCron       string
	Location       *time.Location

	DB    *DB
	Mongo *Mongo
}

type DB struct {
	Host        string
	User        string
	Password    string
	DBName      string
	SSLMode     string
	AutoMigrate bool
}

type Mongo struct {
	Host     string
	User     string
	Password string
	DBName   string
}

var ErrEnvNotFound = errors.New("err env not found")

func (a *App) loadConfig(confFileName string) error {
	if err := godotenv.Load(confFileName); err != nil && !os.IsNotExist(errors.Cause(err)) {
		return err
	}

	var (
		cfg Config
		err error
	)

	cfg.HTTPAddr = cfg.get("HTTP_ADDR", ":8080")
	cfg.WSAddr = cfg.get("WS_ADDR", ":8081")
	cfg.Storage = strings.ToLower(cfg.get("STORAGE", StorageMemory))
	cfg.LogLevel = cfg.get("LOG_LEVEL", "INFO")
	cfg.LokiAddr = cfg.get("LOKI_ADDR", "")

	if cfg.NotifyQueueSize, err = cfg.getInt("NOTIFY_QUEUE_SIZE", 1024); err != nil {
		return err
	}
	if cfg.NotifyWorkers, err = cfg.getInt("NOTIFY_WORKERS", 4); err != nil {
		return err
	}
	if cfg.TickLaneSize, err = cfg.getInt("TICK_LANE_SIZE", 256); err != nil {
		return err
	}
	if cfg.TickMaxLanes, err = cfg.getInt("TICK_MAX_LANES", 256); err != nil {
		return err
	}
	if cfg.TickLaneIdle, err = time.ParseDuration(cfg.get("TICK_LANE_IDLE", "10m")); err != nil {
		return errors.Wrap(err, "TICK_LANE_IDLE")
	}

	if cfg.InitialBalance, err = decimal.NewFromString(cfg.get("INITIAL_BALANCE", "10000")); err != nil {
		return errors.Wrap(err, "INITIAL_BALANCE")
	}

	if cfg.Location, err = time.LoadLocation(cfg.get("TZ_LOCATION", "UTC")); err != nil {
		return errors.Wrap(err, "TZ_LOCATION")
	}
	cfg.StatCron = cfg.get("STAT_CRON", "")

	if token := cfg.get("TELEGRAM_API_TOKEN", ""); token != "" {
		cfg.TelegramApiToken = token

		chatID, err := cfg.set("TELEGRAM_CHAT_ID")
		if err != nil {
			return errors.Wrap(err, "TELEGRAM_CHAT_ID")
		}
		if cfg.TelegramChatID, err = strconv.ParseInt(chatID, 10, 64); err != nil {
			return errors.Wrap(err, "TELEGRAM_CHAT_ID")
		}
	}

	cfg.WebhookUrl = cfg.get("WEBHOOK_URL", "")
	cfg.WebhookSecret = cfg.get("WEBHOOK_SECRET", "")

	cfg.BinanceUrl = cfg.get("BINANCE_URL", "https://api.binance.com")
	for _, s := range strings.Split(cfg.get("FEED_SYMBOLS", ""), ",") {
		if s = strings.TrimSpace(s); s != "" {
			cfg.FeedSymbols = append(cfg.FeedSymbols, strings.ToUpper(s))
		}
	}
	if cfg.FeedInterval, err = time.ParseDuration(cfg.get("FEED_INTERVAL", "1s")); err != nil {
		return errors.Wrap(err, "FEED_INTERVAL")
	}
	if cfg.ClientTimeout, err = time.ParseDuration(cfg.get("CLIENT_TIMEOUT", "5s")); err != nil {
		return errors.Wrap(err, "CLIENT_TIMEOUT")
	}

	switch cfg.Storage {
	case StorageMemory:
	case StoragePostgres:
		if cfg.DB, err = cfg.loadDB(); err != nil {
			return err
		}
	default:
		return errors.Errorf("unknown STORAGE %q", cfg.Storage)
	}

	if host := cfg.get("MONGO_HOST", ""); host != "" {
		cfg.Mongo = &Mongo{
			Host:     host,
			User:     cfg.get("MONGO_USER", ""),
			Password: cfg.get("MONGO_PASSWORD", ""),
			DBName:   cfg.get("MONGO_DBNAME", "trading_hub"),
		}
	}

	a.Config = &cfg

	return nil
}

func (c *Config) loadDB() (*DB, error) {
	var (
		db  DB
		err error
	)

	if db.Host, err = c.set("PG_HOST"); err != nil {
		return nil, errors.Wrap(err, "PG_HOST")
	}

	if db.User, err = c.set("PG_USER"); err != nil {
		return nil, errors.Wrap(err, "PG_USER")
	}

	if db.Password, err = c.set("PG_PASSWORD"); err != nil {
		return nil, errors.Wrap(err, "PG_PASSWORD")
	}

	if db.DBName, err = c.set("PG_DBNAME"); err != nil {
		return nil, errors.Wrap(err, "PG_DBNAME")
	}

	db.SSLMode = c.get("PG_SSL_MODE", "disable")
	db.AutoMigrate = c.get("PG_AUTO_MIGRATE", "") != ""

	return &db, nil
}

func (d *DB) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.User,
		d.Password,
		d.DBName,
		d.SSLMode)
}

func (m *Mongo) DSN() string {
	return fmt.Sprintf("mongodb://%s", m.Host)
}

func (c *Config) set(key string) (string, error) {
	if os.Getenv(key) == "" {
		return "", ErrEnvNotFound
	}

	return os.Getenv(key), nil
}

func (c *Config) get(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

func (c *Config) getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Wrap(err, key)
	}

	return n, nil
}
