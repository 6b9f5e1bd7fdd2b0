package main

import (
	"github.com/ic2hrmk/promtail"
	"github.com/sirupsen/logrus"
)

func (a *App) initLogger() {
	a.Logger = logrus.New()
	a.Logger.SetLevel(logrus.DebugLevel)
}

func (a *App) setLogLevel() {
	switch a.Config.LogLevel {
	case "DEBUG":
		a.Logger.SetLevel(logrus.DebugLevel)
	case "WARN":
		a.Logger.SetLevel(logrus.WarnLevel)
	case "ERROR":
		a.Logger.SetLevel(logrus.ErrorLevel)
	default:
		a.Logger.SetLevel(logrus.InfoLevel)
	}
}

// initLoki ships log entries to loki when LOKI_ADDR is set.
func (a *App) initLoki() error {
	if a.Config.LokiAddr == "" {
		return nil
	}

	identifiers := map[string]string{
		"instanceId": a.Name,
	}

	promTail, err := promtail.NewJSONv1Client(a.Config.LokiAddr, identifiers)
	if err != nil {
		return err
	}

	a.Logger.AddHook(&lokiHook{client: promTail})

	return nil
}

type lokiClient interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type lokiHook struct {
	client lokiClient
}

func (h *lokiHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *lokiHook) Fire(e *logrus.Entry) error {
	line, err := e.String()
	if err != nil {
		return err
	}

	switch e.Level {
	case logrus.DebugLevel, logrus.TraceLevel:
		h.client.Debugf("%s", line)
	case logrus.InfoLevel:
		h.client.Infof("%s", line)
	case logrus.WarnLevel:
		h.client.Warnf("%s", line)
	default:
		h.client.Errorf("%s", line)
	}

	return nil
}
