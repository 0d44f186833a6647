package storage

import "errors"

var (
	ErrRunNotFound = errors.New("storage: run not found")
	ErrExists      = errors.New("storage: database file already exists")
	ErrNoFrameDB   = errors.New("storage: frame database not found")
	ErrReadOnly    = errors.New("storage: frame database opened read-only")
)
