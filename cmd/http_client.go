package main

import (
	"net/http"
	"time"
)

// initHTTPClient builds the client shared by the price feed and the webhook
// sink.
func (a *App) initHTTPClient() {
	a.HTTPClient = &http.Client{
		Timeout: a.Config.ClientTimeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConnsPerHost: 8,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}
