package models

import "errors"

// Domain error kinds. Every contract operation detects these synchronously
// before any mutation; callers map them onto transport status codes.
var (
	ErrInsufficientData   = errors.New("insufficient historical data for forecasting")
	ErrForecastNotFound   = errors.New("forecast not found")
	ErrRuleNotFound       = errors.New("reorder rule not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrNotPendingApproval = errors.New("order is not pending approval")
	ErrInvalidTransition  = errors.New("invalid order status transition")
	ErrInvalidDate        = errors.New("invalid date, want YYYY-MM-DD")
)
