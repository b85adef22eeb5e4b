package model

import "errors"

// Sentinel kinds for model errors.
var (
	ErrInvalidGame = errors.New("invalid game")
)
