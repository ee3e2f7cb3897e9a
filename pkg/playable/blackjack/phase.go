package blackjack

import "encoding/json"

// Phase represents the stage of a blackjack hand
type Phase int

// constants for Phase
const (
	PhaseWaitingForPlayers Phase = iota
	PhaseDealing
	PhasePlayerTurns
	PhaseDealerTurn
	PhaseShowdown
)

func (p Phase) String() string {
	switch p {
	case PhaseWaitingForPlayers:
		return "waiting-for-players"
	case PhaseDealing:
		return "dealing"
	case PhasePlayerTurns:
		return "player-turns"
	case PhaseDealerTurn:
		return "dealer-turn"
	case PhaseShowdown:
		return "showdown"
	}

	return ""
}

// MarshalJSON encodes JSON
func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}{
		ID:   int(p),
		Name: p.String(),
	})
}
