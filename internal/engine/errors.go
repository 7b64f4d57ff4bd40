package engine

import "errors"

var (
	// ErrUnknownBody indicates a body name that is not in the registry.
	ErrUnknownBody = errors.New("engine: unknown body")

	// ErrNegativeSpeed indicates a speed multiplier below zero or not a real number.
	ErrNegativeSpeed = errors.New("engine: speed multiplier must be a non-negative real")

	// ErrNegativeDelta indicates a frame advanced backwards in time.
	ErrNegativeDelta = errors.New("engine: frame delta must be non-negative")

	ErrAlreadyInitialized = errors.New("engine: already initialized")
	ErrNotInitialized     = errors.New("engine: not initialized")
	ErrDisposed           = errors.New("engine: disposed")
)
