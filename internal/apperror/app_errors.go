package apperror

import "errors"

var (
	ErrGameFinished      = errors.New("game is already finished")
	ErrGameIsNotStarted  = errors.New("game is not started")
	ErrNotYourTurn       = errors.New("it's not your turn")
	ErrNoActiveGames     = errors.New("no active games")
	ErrGameAlreadyExists = errors.New("game already exists")

	ErrInvalidMove     = errors.New("move is not legal")
	ErrOutOfBounds     = errors.New("coordinates are off the board")
	ErrPassNotForced   = errors.New("a legal move exists, pass is not allowed")
	ErrNoMoveAvailable = errors.New("no move available")
)
