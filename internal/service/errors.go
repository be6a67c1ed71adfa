package service

import "errors"

var (
	ErrGameNotFound    = errors.New("game not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrNotOwner        = errors.New("caller does not own this game")
	ErrInvalidCapacity = errors.New("capacity must be at least 1")
)
