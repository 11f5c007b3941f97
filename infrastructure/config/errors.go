package config

import "errors"

// ErrInvalidClaims indicates a claims file could not be decoded.
var ErrInvalidClaims = errors.New("invalid claims file")
