package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrMalformedUpstream     = errors.New("malformed upstream data")
	ErrSourceUnavailable     = errors.New("source unavailable")
	ErrPredictionUnavailable = errors.New("prediction unavailable")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
