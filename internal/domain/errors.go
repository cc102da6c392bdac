package domain

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrProductNotFound       = errors.New("product not found")
	ErrOrderNotFound         = errors.New("order not found")
	ErrReviewNotFound        = errors.New("review not found")
	ErrDuplicateReview       = errors.New("product already reviewed for this order")
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrInvalidStatusChange   = errors.New("invalid order status transition")
	ErrSpeechUnavailable     = errors.New("speech recognition is not configured")
	ErrUnsupportedAudio      = errors.New("unsupported audio payload")
	ErrNotASortFilterCommand = errors.New("action is not a sort_and_filter directive")
)
