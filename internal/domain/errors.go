package domain

import "errors"

var (
	ErrInvalidCoordinate   = errors.New("invalid coordinate")
	ErrUnknownDistanceKind = errors.New("unknown distance kind")
	ErrNilGraph            = errors.New("graph is nil")
	ErrGraphNotFound       = errors.New("graph not found")
	ErrInvalidName         = errors.New("invalid name")
	ErrNoRoute             = errors.New("no route")
	ErrNotFound            = errors.New("not found")
	ErrEmptyInput          = errors.New("empty input")
)
