package core

import (
	"errors"
)

var (
	ErrPhaseOrder      = errors.New("render pass phase called out of order")
	ErrLumpNotFound    = errors.New("lump not found")
	ErrInvalidWad      = errors.New("invalid wad container")
	ErrBackendClosed   = errors.New("renderer backend already shut down")
	ErrInvalidResource = errors.New("invalid renderer resource")
	ErrStoreClosed     = errors.New("lump store already closed")
	ErrInvalidConfig   = errors.New("invalid application configuration")
	ErrUnknown         = errors.New("unknown")
)
