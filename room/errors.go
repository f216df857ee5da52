package room

import (
	"errors"

	"github.com/wfunc/drawguess/state"
)

var (
	ErrRoomFull      = errors.New("room is full")
	ErrUnknownRoom   = errors.New("room not found")
	ErrRoomClosed    = errors.New("room closed")
	ErrNotInRoom     = errors.New("player not in room")
	ErrAlreadyJoined = errors.New("player already in room")
	ErrNotDrawer     = errors.New("player is not the drawer")
	ErrInvalidWord   = errors.New("word was not offered")

	// ErrInvalidTransition is returned for commands that arrive in the wrong phase.
	ErrInvalidTransition = state.ErrTransitionNotAllowed
)
