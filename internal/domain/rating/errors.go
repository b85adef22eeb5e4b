package rating

import "errors"

// Sentinel kinds for rating errors.
var (
	ErrInvalidScore = errors.New("invalid score")
)
