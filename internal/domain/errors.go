package domain

import "errors"

var (
	ErrInvalidPayload = errors.New("invalid payload")
	ErrNoCredentials  = errors.New("provider credentials not configured")
	ErrUpstream       = errors.New("provider request failed")
)
