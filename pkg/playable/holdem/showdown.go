package holdem

import (
	"time"

	"github.com/google/uuid"

	"cardroom-server/pkg/deck"
	"cardroom-server/pkg/playable"
	"cardroom-server/pkg/poker"
)

// SeatResult is one seat's line in a completed hand
type SeatResult struct {
	PlayerID  int64     `json:"playerId"`
	HoleCards deck.Hand `json:"holeCards"`
	Hand      string    `json:"hand,omitempty"`
	Winner    bool      `json:"winner"`
	Payout    int       `json:"payout"`
}

// HandSnapshot is the read-only record of the most recently completed hand,
// kept after table state resets
type HandSnapshot struct {
	UUID        string       `json:"uuid"`
	Community   deck.Hand    `json:"community"`
	Pot         int          `json:"pot"`
	Results     []SeatResult `json:"results"`
	CompletedAt time.Time    `json:"completedAt"`
}

// LastHand returns the snapshot of the previous hand, or nil
func (g *Game) LastHand() *HandSnapshot {
	return g.lastHand
}

// awardToLastStanding gives the pot to the only live seat without an
// evaluation. Runs when every other seat folded or left.
func (g *Game) awardToLastStanding() {
	live := g.seats.InHand()
	if len(live) != 1 {
		return
	}

	winner := live[0]
	g.pot += winner.Wager
	winner.Wager = 0
	winner.Chips += g.pot

	g.emit(playable.NewEvent(playable.EventWinner, winner.PlayerID, "wins %d uncontested", g.pot).
		WithAmount(g.pot))

	g.lastHand = &HandSnapshot{
		UUID:      uuid.New().String(),
		Community: g.community.Clone(),
		Pot:       g.pot,
		Results: []SeatResult{{
			PlayerID:  winner.PlayerID,
			HoleCards: winner.Cards.Clone(),
			Winner:    true,
			Payout:    g.pot,
		}},
		CompletedAt: time.Now(),
	}

	g.resetForNextHand()
	if len(g.seats) < 2 {
		g.status = playable.StatusWaiting
	}

	g.touch()
}

// settle evaluates every live seat's best five of seven, splits the pot
// evenly in whole chips among the exact ties for best hand, and gives the
// integer remainder to the earliest tied seat in seating order.
func (g *Game) settle() error {
	live := g.seats.InHand()

	best := poker.Strength{}
	strengths := make([]poker.Strength, len(live))
	for i, seat := range live {
		cards := make([]*deck.Card, 0, len(seat.Cards)+len(g.community))
		cards = append(cards, seat.Cards...)
		cards = append(cards, g.community...)

		strengths[i] = poker.BestOfSeven(cards)
		if i == 0 || strengths[i].Beats(best) {
			best = strengths[i]
		}
	}

	winners := make([]int, 0, len(live))
	for i := range live {
		if strengths[i].Ties(best) {
			winners = append(winners, i)
		}
	}

	share := g.pot / len(winners)
	remainder := g.pot % len(winners)

	results := make([]SeatResult, len(live))
	for i, seat := range live {
		results[i] = SeatResult{
			PlayerID:  seat.PlayerID,
			HoleCards: seat.Cards.Clone(),
			Hand:      strengths[i].String(),
		}
	}

	for n, i := range winners {
		payout := share
		if n == 0 {
			payout += remainder
		}

		live[i].Chips += payout
		results[i].Winner = true
		results[i].Payout = payout

		g.emit(playable.NewEvent(playable.EventWinner, live[i].PlayerID, "%s, paid %d", strengths[i], payout).
			WithAmount(payout))
	}

	g.lastHand = &HandSnapshot{
		UUID:        uuid.New().String(),
		Community:   g.community.Clone(),
		Pot:         g.pot,
		Results:     results,
		CompletedAt: time.Now(),
	}

	g.resetForNextHand()
	if len(g.seats) < 2 {
		g.status = playable.StatusWaiting
	}

	g.touch()
	return nil
}
