package domain

import "errors"

var (
	ErrValidation      = errors.New("validation failed")
	ErrImageRequired   = errors.New("missing image upload")
	ErrProviderFailure = errors.New("provider failure")
	ErrMissingAPIKey   = errors.New("provider api key is not configured")
)
