package model

import "errors"

// Common errors used across the application
var (
	// Validation errors
	ErrUsernameRequired      = errors.New("username is required")
	ErrElapsedRequired       = errors.New("elapsed time is required")
	ErrInvalidElapsed        = errors.New("invalid elapsed_seconds format")
	ErrNotTimedChallenge     = errors.New("invalid request for timed challenge")
	ErrInvalidTier           = errors.New("invalid difficulty tier")
	ErrInvalidTimeAttackTier = errors.New("time attack difficulty must be 1, 2 or 3")
	ErrNegativeScore         = errors.New("score must not be negative")
	ErrInvalidResult         = errors.New("result must be correct or incorrect")

	// Daily challenge errors
	ErrDailyChallengeNotFound = errors.New("daily challenge not found")
	ErrDailyResultNotFound    = errors.New("daily challenge result not found")

	// Session errors
	ErrInvalidStartTime = errors.New("invalid session start time")
	ErrSessionRejected  = errors.New("session rejected")
)
