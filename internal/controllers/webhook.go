package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/onjuly19th/trading-hub-sub001/models"

	"github.com/pkg/errors"
)

const SignatureHeader = "X-Signature"

// WebhookController posts notifications as JSON to a fixed URL, signed with
// HMAC-SHA256 in the X-Signature header.
type WebhookController struct {
	client ClientCtrl
	crypto CryptoCtrl
	url    *url.URL
}

func NewWebhookController(client ClientCtrl, crypto CryptoCtrl, rawURL string) (*WebhookController, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrap(err, "webhook url")
	}

	return &WebhookController{
		client: client,
		crypto: crypto,
		url:    u,
	}, nil
}

func (c *WebhookController) Name() string {
	return "webhook"
}

func (c *WebhookController) Publish(ctx context.Context, n models.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return errors.Wrap(err, "marshal notification")
	}

	headers := map[string]string{
		SignatureHeader: c.crypto.GetSignature(body),
	}
	if _, err := c.client.Send(ctx, http.MethodPost, c.url, body, headers); err != nil {
		return errors.Wrapf(err, "post %s", n.Channel)
	}

	return nil
}
