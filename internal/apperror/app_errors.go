package apperror

import "errors"

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomFull        = errors.New("room is already full")
	ErrPlayerNotSeated = errors.New("player is not seated in this room")
	ErrNotYourTurn     = errors.New("it's not your turn")
	ErrIllegalMove     = errors.New("illegal move")
	ErrGameNotFinished = errors.New("game is not finished yet")
)
