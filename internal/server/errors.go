package server

import "errors"

var (
	ErrUnknownAction = errors.New("server: unknown control action")
	ErrBadRequest    = errors.New("server: malformed request")
)
