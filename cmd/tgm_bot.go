package main

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// initTgBot is a no-op without TELEGRAM_API_TOKEN; the telegram sink and
// commands are then disabled.
func (a *App) initTgBot() error {
	if a.Config.TelegramApiToken == "" {
		return nil
	}

	bot, err := tgbotapi.NewBotAPI(a.Config.TelegramApiToken)
	if err != nil {
		return err
	}
	bot.Debug = false

	a.Logger.
		WithField("method", "initTgBot").
		Infof("authorized as %s", bot.Self.UserName)

	a.TGM = bot

	return nil
}
