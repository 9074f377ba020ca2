package model

import "errors"

var (
	ErrGameOver           = errors.New("game is over")
	ErrPaused             = errors.New("game is paused")
	ErrOutOfBounds        = errors.New("square out of bounds")
	ErrWrongPhase         = errors.New("action not available in current phase")
	ErrInvalidPieceType   = errors.New("invalid piece type")
	ErrUnknownTimeControl = errors.New("unknown time control")
)

// Status messages shown to the player after a rejected action.
const (
	StatusNotEnoughGold  = "Not enough gold for purchase."
	StatusNoPlacement    = "Purchase doesn't resolve check or can't place pawn on rank 1/8."
	StatusCollectInCheck = "Cannot collect gold while in check."
)
