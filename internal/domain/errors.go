package domain

import "errors"

// Sentinel errors for configuration problems. Callers wrap them with the
// offending value so errors.Is keeps working upstream.
var (
	ErrUnknownMonth      = errors.New("unknown month")
	ErrUnknownProduct    = errors.New("unknown product")
	ErrUnknownLocation   = errors.New("unknown location")
	ErrUnknownSellOption = errors.New("unknown sell option")
	ErrInvalidCalendar   = errors.New("invalid calendar")
	ErrInvalidMarketData = errors.New("invalid market data")
	ErrBackwardRoute     = errors.New("sell month precedes buy month")
)
