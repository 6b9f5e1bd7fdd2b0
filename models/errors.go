package models

import (
	"github.com/pkg/errors"
)

var (
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAsset     = errors.New("insufficient asset")
	ErrAssetNotFound         = errors.New("asset not found")
	ErrInvalidOrder          = errors.New("invalid order")
	ErrOrderAlreadyFilled    = errors.New("order already filled")
	ErrOrderAlreadyCancelled = errors.New("order already cancelled")
	ErrOrderNotFound         = errors.New("order not found")
	ErrPortfolioNotFound     = errors.New("portfolio not found")
	ErrPortfolioExists       = errors.New("portfolio already exists")
	ErrPriceNotFound         = errors.New("price not found")
	ErrJournalDisabled       = errors.New("execution journal disabled")
)

const (
	CodeInsufficientBalance   = "INSUFFICIENT_BALANCE"
	CodeInsufficientAsset     = "INSUFFICIENT_ASSET"
	CodeAssetNotFound         = "ASSET_NOT_FOUND"
	CodeInvalidOrder          = "INVALID_ORDER"
	CodeOrderAlreadyFilled    = "ORDER_ALREADY_FILLED"
	CodeOrderAlreadyCancelled = "ORDER_ALREADY_CANCELLED"
	CodeOrderNotFound         = "ORDER_NOT_FOUND"
	CodePortfolioNotFound     = "PORTFOLIO_NOT_FOUND"
	CodePortfolioExists       = "PORTFOLIO_EXISTS"
	CodePriceNotFound         = "PRICE_NOT_FOUND"
	CodeJournalDisabled       = "JOURNAL_DISABLED"
	CodeInternal              = "INTERNAL"
)

var errCodes = []struct {
	err  error
	code string
}{
	{ErrInsufficientBalance, CodeInsufficientBalance},
	{ErrInsufficientAsset, CodeInsufficientAsset},
	{ErrAssetNotFound, CodeAssetNotFound},
	{ErrInvalidOrder, CodeInvalidOrder},
	{ErrOrderAlreadyFilled, CodeOrderAlreadyFilled},
	{ErrOrderAlreadyCancelled, CodeOrderAlreadyCancelled},
	{ErrOrderNotFound, CodeOrderNotFound},
	{ErrPortfolioNotFound, CodePortfolioNotFound},
	{ErrPortfolioExists, CodePortfolioExists},
	{ErrPriceNotFound, CodePriceNotFound},
	{ErrJournalDisabled, CodeJournalDisabled},
}

// ErrorCode maps an error chain to its wire code.
func ErrorCode(err error) string {
	for _, e := range errCodes {
		if errors.Is(err, e.err) {
			return e.code
		}
	}
	return CodeInternal
}

// IsValidation reports business-rule violations detected before any mutation.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrInsufficientAsset) ||
		errors.Is(err, ErrAssetNotFound) ||
		errors.Is(err, ErrInvalidOrder)
}

// IsConflict reports a lost compare-and-set on order status.
func IsConflict(err error) bool {
	return errors.Is(err, ErrOrderAlreadyFilled) || errors.Is(err, ErrOrderAlreadyCancelled)
}
