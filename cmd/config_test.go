package main

import (
	"fmt"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		var app App
		require.NoError(t, app.loadConfig("testdata/missing.env"))

		assert.Equal(t, StorageMemory, app.Config.Storage)
		assert.Equal(t, ":8080", app.Config.HTTPAddr)
		assert.Equal(t, time.Second, app.Config.FeedInterval)
		assert.Equal(t, 5*time.Second, app.Config.ClientTimeout)
		assert.Equal(t, 256, app.Config.TickMaxLanes)
		assert.Equal(t, 10*time.Minute, app.Config.TickLaneIdle)
		assert.True(t, app.Config.InitialBalance.IsPositive())
		assert.Nil(t, app.Config.DB)
		assert.Nil(t, app.Config.Mongo)
	})

	t.Run("postgres needs credentials", func(t *testing.T) {
		t.Setenv("STORAGE", "postgres")

		var app App
		err := app.loadConfig("testdata/missing.env")
		assert.True(t, errors.Is(err, ErrEnvNotFound))
	})

	t.Run("postgres", func(t *testing.T) {
		t.Setenv("STORAGE", "POSTGRES")
		t.Setenv("PG_HOST", "localhost")
		t.Setenv("PG_USER", "hub")
		t.Setenv("PG_PASSWORD", "hub")
		t.Setenv("PG_DBNAME", "hub")
		t.Setenv("FEED_SYMBOLS", "btcusdt, ETHUSDT,,")

		var app App
		require.NoError(t, app.loadConfig("testdata/missing.env"))

		assert.Equal(t, "host=localhost user=hub password=hub dbname=hub sslmode=disable", app.Config.DB.DSN())
		assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, app.Config.FeedSymbols)
	})

	t.Run("telegram needs a chat", func(t *testing.T) {
		t.Setenv("TELEGRAM_API_TOKEN", "token")

		var app App
		assert.True(t, errors.Is(app.loadConfig("testdata/missing.env"), ErrEnvNotFound))

		t.Setenv("TELEGRAM_CHAT_ID", "-100123")
		require.NoError(t, app.loadConfig("testdata/missing.env"))
		assert.Equal(t, int64(-100123), app.Config.TelegramChatID)
	})

	t.Run("bad values", func(t *testing.T) {
		for key, value := range map[string]string{
			"STORAGE":           "sqlite",
			"NOTIFY_QUEUE_SIZE": "many",
			"INITIAL_BALANCE":   "lots",
			"FEED_INTERVAL":     "often",
		} {
			t.Run(key, func(t *testing.T) {
				t.Setenv(key, value)

				var app App
				assert.Error(t, app.loadConfig("testdata/missing.env"))
			})
		}
	})
}

type lokiRecorder struct {
	lines []string
}

func (r *lokiRecorder) record(level, format string, args ...interface{}) {
	r.lines = append(r.lines, level+" "+fmt.Sprintf(format, args...))
}

func (r *lokiRecorder) Debugf(format string, args ...interface{}) { r.record("debug", format, args...) }
func (r *lokiRecorder) Infof(format string, args ...interface{})  { r.record("info", format, args...) }
func (r *lokiRecorder) Warnf(format string, args ...interface{})  { r.record("warn", format, args...) }
func (r *lokiRecorder) Errorf(format string, args ...interface{}) { r.record("error", format, args...) }

func TestLokiHook(t *testing.T) {
	recorder := &lokiRecorder{}

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)
	logger.AddHook(&lokiHook{client: recorder})

	logger.WithField("method", "test").Info("hello")
	logger.Warn("careful")

	require.Len(t, recorder.lines, 2)
	assert.Contains(t, recorder.lines[0], "info ")
	assert.Contains(t, recorder.lines[0], "method=test")
	assert.Contains(t, recorder.lines[1], "warn ")
}
