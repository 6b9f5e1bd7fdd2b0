package controllers

import (
	"context"
	"net/url"

	tgmBotAPI "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

//go:generate mockery --case=snake --name=ClientCtrl
//go:generate mockery --case=snake --name=CryptoCtrl
//go:generate mockery --case=snake --name=TgmCtrl

type ClientCtrl interface {
	Send(ctx context.Context, method string, url *url.URL, body []byte, headers map[string]string) ([]byte, error)
}

type CryptoCtrl interface {
	GetSignature(payload []byte) string
}

type TgmCtrl interface {
	Send(text string) error
	CheckChatID(chatID int64) bool
	GetUpdates() tgmBotAPI.UpdatesChannel
}
