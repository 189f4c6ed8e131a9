// internal/game/errors.go
package game

import "errors"

// Recoverable failures surfaced to the caller. The room state is unchanged
// whenever one of these is returned.
var (
	ErrRoomFull          = errors.New("room is full")
	ErrAlreadyJoined     = errors.New("player has already joined")
	ErrRoomClosed        = errors.New("room is closed")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrInvalidAction     = errors.New("invalid action")
	ErrInsufficientStack = errors.New("not enough chips")
	ErrNotEnoughPlayers  = errors.New("not enough players")
)

// Internal-consistency failures. These indicate a bug in the engine, not
// caller misuse, and abort the operation loudly.
var (
	ErrDeckExhausted = errors.New("deck exhausted")
	ErrPotMismatch   = errors.New("pot does not match player contributions")
)
