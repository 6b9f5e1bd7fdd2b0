package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type ClientController struct {
	client *http.Client
	logger *logrus.Logger
}

func NewClientController(
	client *http.Client,
	logger *logrus.Logger,
) *ClientController {
	return &ClientController{
		client: client,
		logger: logger,
	}
}

var ErrUnexpectedStatus = errors.New("unexpected status code")

// ErrStruct is the error body returned by the exchange API.
type ErrStruct struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (c *ClientController) Send(ctx context.Context, method string, url *url.URL, body []byte, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Add("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var errMsg ErrStruct
		if resp.StatusCode == http.StatusBadRequest && json.Unmarshal(out, &errMsg) == nil && errMsg.Msg != "" {
			return nil, errors.Wrapf(ErrUnexpectedStatus, "%s %s: %d code %d: %s", method, url.Path, resp.StatusCode, errMsg.Code, errMsg.Msg)
		}

		return nil, errors.Wrapf(ErrUnexpectedStatus, "%s %s: %d resp %s", method, url.Path, resp.StatusCode, out)
	}

	return out, nil
}
