package models

import "errors"

// Error kinds shared by the session managers, the store, and the
// persistence boundary. Callers classify with errors.Is; every operation
// failure wraps exactly one of these.
var (
	// ErrInvalidState means the operation is not valid in the current
	// lifecycle state, e.g. starting a battle that is already running.
	ErrInvalidState = errors.New("invalid state")

	// ErrInvalidArgument means malformed input: too few players, a negative
	// energy amount, an empty name.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound means the operation referenced a player id not present
	// in the current battle.
	ErrNotFound = errors.New("not found")

	// ErrPersistence means the load/save boundary failed. Persistence is
	// best-effort relative to in-memory state: this error never rolls back
	// an applied transition.
	ErrPersistence = errors.New("persistence error")
)
