package service

import "errors"

var (
	// ErrNotStarted is returned when the service is used before Start.
	ErrNotStarted = errors.New("service not started")
	// ErrWrongView is returned when an action does not fit the session's current page.
	ErrWrongView = errors.New("action not available on the current view")
)
