package holdem

import (
	"encoding/json"
	"time"

	"cardroom-server/pkg/deck"
	"cardroom-server/pkg/playable"
)

// gameState is the public view of the table.
// Every card is globally readable; there is no per-player redaction.
type gameState struct {
	UUID         string          `json:"uuid"`
	Name         string          `json:"name"`
	Status       playable.Status `json:"status"`
	Phase        Phase           `json:"phase"`
	Paused       bool            `json:"paused"`
	AdminID      int64           `json:"adminId"`
	SmallBlind   int             `json:"smallBlind"`
	BigBlind     int             `json:"bigBlind"`
	MinBuyIn     int             `json:"minBuyIn"`
	MaxBuyIn     int             `json:"maxBuyIn"`
	Seats        playable.Seats  `json:"seats"`
	Community    deck.Hand       `json:"community"`
	Pot          int             `json:"pot"`
	CurrentBet   int             `json:"currentBet"`
	NextToAct    int64           `json:"nextToAct"`
	LastHand     *HandSnapshot   `json:"lastHand"`
	LastActivity time.Time       `json:"lastActivity"`
}

func (g *Game) getState() *gameState {
	return &gameState{
		UUID:         g.uuid,
		Name:         g.Name(),
		Status:       g.status,
		Phase:        g.phase,
		Paused:       g.paused,
		AdminID:      g.adminID,
		SmallBlind:   g.options.SmallBlind,
		BigBlind:     g.options.BigBlind,
		MinBuyIn:     g.options.MinBuyIn,
		MaxBuyIn:     g.options.MaxBuyIn,
		Seats:        g.seats,
		Community:    g.community,
		Pot:          g.pot,
		CurrentBet:   g.currentBet,
		NextToAct:    g.NextToAct(),
		LastHand:     g.lastHand,
		LastActivity: g.lastActivity,
	}
}

// GetPlayerState returns the current state of the game for the player
func (g *Game) GetPlayerState(playerID int64) (*playable.Response, error) {
	return &playable.Response{
		Key:   "game",
		Value: g.Name(),
		Data:  g.getState(),
	}, nil
}

// NextToAct returns the identity of the next seat to act, or 0
func (g *Game) NextToAct() int64 {
	if !g.inBettingRound() {
		return 0
	}

	if next := g.seats.NextToAct(); next != nil {
		return next.PlayerID
	}

	return 0
}

// persistentState is the full table record, including the deck and cursor
type persistentState struct {
	*gameState
	Deck *deck.Deck `json:"deck"`
}

// PersistentState returns the document the room stores after each mutation
func (g *Game) PersistentState() (json.RawMessage, error) {
	return json.Marshal(persistentState{
		gameState: g.getState(),
		Deck:      g.deck,
	})
}
