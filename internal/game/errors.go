package game

import "errors"

var (
	ErrNotConnected     = errors.New("not connected")
	ErrNotInRoom        = errors.New("you are not in a room")
	ErrAlreadyInRoom    = errors.New("already in this room")
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomFull         = errors.New("room is full")
	ErrGameStarted      = errors.New("game already started")
	ErrNotEnoughPlayers = errors.New("not enough players to start")
	ErrNotHost          = errors.New("only the host can do that")
	ErrBadPhase         = errors.New("not allowed right now")
	ErrUnknownMode      = errors.New("unknown game mode")
	ErrNoQuestions      = errors.New("no questions available")
	ErrCodeSpace        = errors.New("could not allocate room code")
	ErrCreateInProgress = errors.New("room creation already in progress")
	ErrNoOpenQuestion   = errors.New("no question is open")
	ErrAlreadyAnswered  = errors.New("already answered")
	ErrInvalidChoice    = errors.New("invalid option")
	ErrTimeUp           = errors.New("time is up")
	ErrFrozen           = errors.New("you are frozen")
	ErrEliminated       = errors.New("you have been eliminated")
	ErrNotBettingRound  = errors.New("bets are closed")
	ErrPowerUpsDisabled = errors.New("power-ups are disabled in this room")
	ErrUnknownPowerUp   = errors.New("unknown power-up")
	ErrPowerUpNotHeld   = errors.New("you do not have that power-up")
)
