package apperror

import "errors"

var (
	ErrInvalidBoardSize   = errors.New("invalid board size")
	ErrInvalidMineCount   = errors.New("mine count must be positive")
	ErrTooManyMines       = errors.New("mine count leaves no safe cell")
	ErrMinesAlreadyPlaced = errors.New("mines are already placed")
	ErrUnknownDifficulty  = errors.New("unknown difficulty")
	ErrSessionNotFound    = errors.New("session not found")
	ErrConcurrentUpdate   = errors.New("session was modified concurrently")
)
