package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

type CryptoController struct {
	secretKey string
}

func NewCryptoController(secretKey string) *CryptoController {
	return &CryptoController{
		secretKey: secretKey,
	}
}

// GetSignature returns the hex HMAC-SHA256 of payload.
func (c *CryptoController) GetSignature(payload []byte) string {
	h := hmac.New(sha256.New, []byte(c.secretKey))
	h.Write(payload)

	return hex.EncodeToString(h.Sum(nil))
}
