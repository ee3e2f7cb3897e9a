package room

import (
	"encoding/json"

	"cardroom-server/pkg/playable"
)

// Table is what the room requires of a game beyond the playable surface:
// seat lifecycle, lifecycle status, and a persistable state document.
// Both game variants satisfy it.
type Table interface {
	playable.Playable

	UUID() string
	Status() playable.Status
	AdminID() int64

	Join(playerID int64, buyIn int) error
	SeatedPlayers() []int64
	Leave(playerID int64) (int, error)
	TopUp(playerID int64, amount int) error
	Close()

	PersistentState() (json.RawMessage, error)
}
