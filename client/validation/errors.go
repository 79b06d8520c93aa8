package validation

import "errors"

var (
	ErrInvalidForm    = errors.New("invalid form")
	ErrMissingURL     = errors.New("video URL is required")
	ErrInvalidURL     = errors.New("video URL must be an http(s) URL")
	ErrInvalidQuality = errors.New("unsupported quality")
)
