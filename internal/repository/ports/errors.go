package ports

import "errors"

var (
	// ErrUpstreamParse means the model answered but nothing usable could be
	// decoded from the response text.
	ErrUpstreamParse = errors.New("could not parse scout response")
	// ErrUpstreamEmpty means every enabled scout came back empty after all
	// retries.
	ErrUpstreamEmpty = errors.New("no recommendations could be generated")
	// ErrSessionNotFound means the review session is gone from both the
	// store and the database.
	ErrSessionNotFound = errors.New("session not found")
)
