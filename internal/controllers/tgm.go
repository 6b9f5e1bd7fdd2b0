package controllers

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/onjuly19th/trading-hub-sub001/models"
)

type TgmController struct {
	tgmBot *tgbotapi.BotAPI
	chatID int64
	// kinds limits which notifications reach the chat; empty means all.
	kinds map[models.EventKind]bool
}

func NewTgmController(
	tgmBot *tgbotapi.BotAPI,
	chatID int64,
	kinds ...models.EventKind,
) *TgmController {
	c := &TgmController{
		tgmBot: tgmBot,
		chatID: chatID,
		kinds:  map[models.EventKind]bool{},
	}
	for _, k := range kinds {
		c.kinds[k] = true
	}

	return c
}

func (c *TgmController) Send(text string) error {
	msg := tgbotapi.NewMessage(c.chatID, text)

	if _, err := c.tgmBot.Send(msg); err != nil {
		return err
	}

	return nil
}

func (c *TgmController) CheckChatID(chatID int64) bool {
	return c.chatID == chatID
}

func (c *TgmController) GetUpdates() tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	return c.tgmBot.GetUpdatesChan(u)
}

func (c *TgmController) Name() string {
	return "telegram"
}

func (c *TgmController) Publish(_ context.Context, n models.Notification) error {
	if len(c.kinds) > 0 && !c.kinds[n.Kind] {
		return nil
	}

	return c.Send(FormatNotification(n))
}

func FormatNotification(n models.Notification) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[ %s ]\n", n.Channel)
	fmt.Fprintf(&b, "user:\t%s\n", n.UserID)

	switch p := n.Payload.(type) {
	case *models.Order:
		fmt.Fprintf(&b, "order:\t%s\n", p.ID)
		fmt.Fprintf(&b, "side:\t%s %s\n", p.Type, p.Side)
		fmt.Fprintf(&b, "amount:\t%s\n", p.Amount)
		fmt.Fprintf(&b, "price:\t%s\n", p.Price)
		fmt.Fprintf(&b, "status:\t%s\n", p.Status)
		if p.FilledPrice.Valid {
			fmt.Fprintf(&b, "filled:\t%s\n", p.FilledPrice.Decimal)
		}
	case models.PortfolioSnapshot:
		fmt.Fprintf(&b, "balance:\t%s\n", p.Balance)
		fmt.Fprintf(&b, "available:\t%s\n", p.AvailableBalance)
		for _, a := range p.Assets {
			fmt.Fprintf(&b, "%s:\t%s @ %s\n", a.Symbol, a.Amount, a.AveragePrice)
		}
	}

	b.WriteString(n.Timestamp.Format(time.RFC822))

	return b.String()
}
