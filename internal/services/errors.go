package services

import "errors"

var (
	// ErrValidation marks malformed input rejected before any write.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidTransition marks a booking lifecycle precondition failure.
	ErrInvalidTransition = errors.New("invalid booking transition")
	// ErrParse marks a statement file the parser could not recognize at all.
	ErrParse = errors.New("statement parse failed")
	// ErrConflict marks a confirmation that lost against concurrent state,
	// e.g. a payout item matched by another operator mid-flight.
	ErrConflict = errors.New("conflicting state")
)
