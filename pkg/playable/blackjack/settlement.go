package blackjack

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cardroom-server/pkg/deck"
	"cardroom-server/pkg/playable"
)

// Outcome is how a seat finished the hand
type Outcome string

// outcome constants
const (
	OutcomeBust    Outcome = "bust"
	OutcomeNatural Outcome = "natural"
	OutcomeWon     Outcome = "won"
	OutcomePush    Outcome = "push"
	OutcomeLost    Outcome = "lost"
)

// SeatResult is one seat's line in a completed hand
type SeatResult struct {
	PlayerID int64     `json:"playerId"`
	Cards    deck.Hand `json:"cards"`
	Value    int       `json:"value"`
	Natural  bool      `json:"natural"`
	Outcome  Outcome   `json:"outcome"`
	Wager    int       `json:"wager"`
	Payout   int       `json:"payout"`
}

// HandSnapshot is the read-only record of the most recently completed hand.
// It survives the state reset so the hand remains readable afterwards.
type HandSnapshot struct {
	UUID         string       `json:"uuid"`
	DealerCards  deck.Hand    `json:"dealerCards"`
	DealerValue  int          `json:"dealerValue"`
	Results      []SeatResult `json:"results"`
	TotalWagered int          `json:"totalWagered"`
	TotalPaid    int          `json:"totalPaid"`
	CompletedAt  time.Time    `json:"completedAt"`
}

// LastHand returns the snapshot of the most recently completed hand, or nil
func (g *Game) LastHand() *HandSnapshot {
	return g.lastHand
}

// naturalPayout is the total paid for a natural: the wager back plus 1.5x winnings
func naturalPayout(wager int) int {
	return wager + (wager*3)/2
}

// resolveSeat maps a seat against the dealer's hand to its outcome and total
// payout (payouts include the returned wager; losses pay nothing).
func resolveSeat(seat *playable.Seat, dealerValue int, dealerNatural, dealerBust bool) (Outcome, int) {
	if seat.Busted {
		return OutcomeBust, 0
	}

	value, _ := Value(seat.Cards)
	natural := IsNatural(seat.Cards)

	switch {
	case natural && dealerNatural:
		return OutcomePush, seat.Wager
	case natural:
		return OutcomeNatural, naturalPayout(seat.Wager)
	case dealerNatural:
		return OutcomeLost, 0
	case dealerBust:
		return OutcomeWon, seat.Wager * 2
	case value > dealerValue:
		return OutcomeWon, seat.Wager * 2
	case value == dealerValue:
		return OutcomePush, seat.Wager
	}

	return OutcomeLost, 0
}

// settle pays every live seat from the bank, persists the hand snapshot, and
// resets the table for the next hand. The payout is verified and deducted
// atomically: if the bank cannot cover it the whole settlement aborts with no
// partial disbursement, and the hand stays in showdown until retried.
func (g *Game) settle() error {
	if g.phase != PhaseShowdown {
		return errors.New("not in showdown")
	}

	dealerValue, _ := Value(g.dealerCards)
	dealerNatural := IsNatural(g.dealerCards)
	dealerBust := dealerValue > target

	inHand := g.seats.InHand()
	results := make([]SeatResult, 0, len(inHand))
	totalWagered := 0
	totalPaid := 0

	for _, seat := range inHand {
		outcome, payout := resolveSeat(seat, dealerValue, dealerNatural, dealerBust)
		value, _ := Value(seat.Cards)

		results = append(results, SeatResult{
			PlayerID: seat.PlayerID,
			Cards:    seat.Cards.Clone(),
			Value:    value,
			Natural:  IsNatural(seat.Cards),
			Outcome:  outcome,
			Wager:    seat.Wager,
			Payout:   payout,
		})

		totalWagered += seat.Wager
		totalPaid += payout
	}

	if err := g.bank.Pay(totalPaid); err != nil {
		g.log.WithError(err).WithField("payout", totalPaid).Error("settlement aborted")
		return fmt.Errorf("settlement aborted: %w", err)
	}

	for i, seat := range inHand {
		seat.Chips += results[i].Payout

		if results[i].Payout > 0 {
			g.emit(playable.NewEvent(playable.EventWinner, seat.PlayerID, "%s, paid %d", results[i].Outcome, results[i].Payout).
				WithAmount(results[i].Payout))
		}
	}

	g.lastHand = &HandSnapshot{
		UUID:         uuid.New().String(),
		DealerCards:  g.dealerCards.Clone(),
		DealerValue:  dealerValue,
		Results:      results,
		TotalWagered: totalWagered,
		TotalPaid:    totalPaid,
		CompletedAt:  time.Now(),
	}

	for _, seat := range g.seats {
		seat.ResetForNextHand()
	}

	g.dealerCards = nil
	g.dealerDone = false

	if len(g.seats) < 2 {
		g.status = playable.StatusWaiting
	}

	g.shuffleDeck()
	g.setPhase(PhaseWaitingForPlayers)
	g.touch()
	return nil
}
