package service

import "errors"

// Argument errors raised before any request is sent. Backend failures are
// returned as is from the API client.
var (
	ErrInvalidID           = errors.New("invalid id")
	ErrEmptyRefreshToken   = errors.New("refresh token is empty")
	ErrInvalidUserListRole = errors.New("invalid role filter")
)
