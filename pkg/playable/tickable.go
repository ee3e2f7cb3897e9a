package playable

import "time"

// Tickable is an interface that allows a periodic tick to update the game state.
// Ticks are how stalled tables make progress: the engine itself never blocks
// or waits, so liveness depends on the room (or any caller) probing the table.
type Tickable interface {
	// Delay is how long the wait between each tick should be
	Delay() time.Duration

	// Tick will be called periodically
	// Return true if the room should broadcast updated state
	Tick() (bool, error)
}
