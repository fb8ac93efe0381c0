package relay

import "errors"

var (
	ErrClientQueueFull = errors.New("client event queue is full")
	ErrInvalidEvent    = errors.New("invalid event format")
	ErrNotInChannel    = errors.New("client has not joined this channel")
)
