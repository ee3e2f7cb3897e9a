package blackjack

import (
	"errors"
	"fmt"

	"cardroom-server/pkg/deck"
	"cardroom-server/pkg/playable"
)

// errNothingPending means there is no stalled seat or phase to advance
var errNothingPending = errors.New("nothing to advance")

// PlaceBet places the player's wager for the next hand.
// Betting is only open in the waiting-for-players phase on an active table.
func (g *Game) PlaceBet(playerID int64, amount int) error {
	if g.paused {
		return playable.ErrTablePaused
	}

	if g.phase != PhaseWaitingForPlayers {
		return playable.ErrHandInProgress
	}

	if g.status != playable.StatusActive {
		return playable.UserError("table needs at least two players")
	}

	seat := g.seats.Get(playerID)
	if seat == nil {
		return playable.ErrPlayerNotAtTable
	}

	if seat.Resolved {
		return playable.UserError("bet has already been placed")
	}

	if amount <= 0 {
		return playable.UserError("bet must be greater than zero")
	}

	if amount > seat.Chips {
		return playable.ErrInsufficientChips
	}

	seat.Chips -= amount
	seat.Wager = amount
	seat.InHand = true
	seat.Resolved = true
	g.emit(playable.NewEvent(playable.EventAction, playerID, "bet %d", amount).WithAmount(amount))

	g.touch()
	return g.maybeDeal()
}

// maybeDeal starts the hand once every seat has either bet or sat out
func (g *Game) maybeDeal() error {
	if g.phase != PhaseWaitingForPlayers || g.status != playable.StatusActive {
		return nil
	}

	for _, seat := range g.seats {
		if !seat.Resolved {
			return nil
		}
	}

	if g.seats.CountInHand() == 0 {
		// everyone sat out; reopen betting
		for _, seat := range g.seats {
			seat.Resolved = false
		}
		return nil
	}

	return g.deal()
}

// deal collects the wagers into the bank and deals the opening cards.
// The bank must be able to cover the worst case where every live seat holds
// a natural; otherwise the hand is refused and all wagers are returned.
func (g *Game) deal() error {
	wagers := 0
	worstPayout := 0
	for _, seat := range g.seats.InHand() {
		wagers += seat.Wager
		worstPayout += naturalPayout(seat.Wager)
	}

	if err := g.bank.StartHand(wagers, worstPayout); err != nil {
		for _, seat := range g.seats.InHand() {
			seat.Chips += seat.Wager
		}
		for _, seat := range g.seats {
			seat.ResetForNextHand()
		}

		g.log.WithError(err).Warn("hand refused: bank cannot cover worst-case payout")
		return fmt.Errorf("cannot deal: %w", err)
	}

	g.setPhase(PhaseDealing)
	g.emit(playable.NewEvent(playable.EventHandStarted, 0, "hand started").WithAmount(wagers))

	inHand := g.seats.InHand()
	g.deck.EnsureAvailable(initialDeal * (len(inHand) + 1))

	for round := 0; round < initialDeal; round++ {
		for _, seat := range inHand {
			if err := g.drawTo(&seat.Cards, seat.PlayerID); err != nil {
				return err
			}
		}

		if err := g.drawTo(&g.dealerCards, 0); err != nil {
			return err
		}
	}

	// naturals have nothing left to decide
	for _, seat := range inHand {
		seat.Resolved = IsNatural(seat.Cards)
	}

	g.setPhase(PhasePlayerTurns)
	g.touch()
	return g.advanceIfNeeded()
}

// drawTo deals the next card face up. The deck reshuffles itself when short
// so a hand can always progress.
func (g *Game) drawTo(hand *deck.Hand, playerID int64) error {
	g.deck.EnsureAvailable(1)

	card, err := g.deck.Draw()
	if err != nil {
		return err
	}

	hand.AddCard(card)
	g.emit(playable.NewEvent(playable.EventCardDealt, playerID, "dealt %s", card).WithCards(card))
	return nil
}

// requireTurn validates that the player is the single identity allowed to act.
// The next-to-act seat is re-derived from table state on every call.
func (g *Game) requireTurn(playerID int64) (*playable.Seat, error) {
	if g.paused {
		return nil, playable.ErrTablePaused
	}

	if g.phase != PhasePlayerTurns {
		return nil, playable.UserError("not in the player-turns phase")
	}

	seat := g.seats.Get(playerID)
	if seat == nil {
		return nil, playable.ErrPlayerNotAtTable
	}

	next := g.seats.NextToAct()
	if next == nil || next.PlayerID != playerID {
		return nil, playable.ErrNotYourTurn
	}

	return seat, nil
}

// Hit deals the player one more card
func (g *Game) Hit(playerID int64) error {
	seat, err := g.requireTurn(playerID)
	if err != nil {
		return err
	}

	if err := g.drawTo(&seat.Cards, playerID); err != nil {
		return err
	}

	if IsBust(seat.Cards) {
		seat.Busted = true
		seat.Resolved = true
		value, _ := Value(seat.Cards)
		g.emit(playable.NewEvent(playable.EventBust, playerID, "busted with %d", value))
	}

	g.touch()
	return g.advanceIfNeeded()
}

// Stand ends the player's turn
func (g *Game) Stand(playerID int64) error {
	seat, err := g.requireTurn(playerID)
	if err != nil {
		return err
	}

	seat.Resolved = true
	value, _ := Value(seat.Cards)
	g.emit(playable.NewEvent(playable.EventStand, playerID, "stands on %d", value))

	g.touch()
	return g.advanceIfNeeded()
}

// DoubleDown doubles the player's wager, deals exactly one card, and ends
// their turn. Only available on the first two cards.
func (g *Game) DoubleDown(playerID int64) error {
	seat, err := g.requireTurn(playerID)
	if err != nil {
		return err
	}

	if len(seat.Cards) != initialDeal {
		return playable.UserError("can only double down on the first two cards")
	}

	if seat.Chips < seat.Wager {
		return playable.ErrInsufficientChips
	}

	if err := g.bank.Collect(seat.Wager); err != nil {
		return err
	}

	seat.Chips -= seat.Wager
	seat.Wager *= 2
	g.emit(playable.NewEvent(playable.EventAction, playerID, "doubled down to %d", seat.Wager).WithAmount(seat.Wager))

	if err := g.drawTo(&seat.Cards, playerID); err != nil {
		return err
	}

	seat.Resolved = true
	if IsBust(seat.Cards) {
		seat.Busted = true
		value, _ := Value(seat.Cards)
		g.emit(playable.NewEvent(playable.EventBust, playerID, "busted with %d", value))
	}

	g.touch()
	return g.advanceIfNeeded()
}

// ForceAdvance resolves whichever seat or phase has stalled past the
// inactivity window. Any caller may invoke it; the engine never advances on
// its own clock.
func (g *Game) ForceAdvance(callerID int64) error {
	if g.paused {
		return playable.ErrTablePaused
	}

	switch g.phase {
	case PhaseWaitingForPlayers:
		pending := false
		for _, seat := range g.seats {
			if seat.Wager > 0 {
				pending = true
				break
			}
		}

		if !pending {
			return errNothingPending
		}

		if !g.timedOut() {
			return playable.UserError("the table has not been inactive long enough")
		}

		for _, seat := range g.seats {
			if !seat.Resolved {
				seat.Resolved = true
				g.emit(playable.NewEvent(playable.EventTimeout, seat.PlayerID, "timed out; sitting out this hand"))
			}
		}

		g.touch()
		return g.maybeDeal()

	case PhasePlayerTurns:
		if !g.timedOut() {
			return playable.UserError("the table has not been inactive long enough")
		}

		if next := g.seats.NextToAct(); next != nil {
			next.Resolved = true
			value, _ := Value(next.Cards)
			g.emit(playable.NewEvent(playable.EventTimeout, next.PlayerID, "timed out; standing on %d", value))
		}

		g.touch()
		return g.advanceIfNeeded()

	case PhaseShowdown:
		// a failed settlement left the hand here; retry now that the bank
		// may have been funded
		return g.settle()
	}

	return errNothingPending
}

// advanceIfNeeded closes the player-turns phase once nobody is left to act
func (g *Game) advanceIfNeeded() error {
	if g.phase != PhasePlayerTurns {
		return nil
	}

	if g.seats.NextToAct() != nil {
		return nil
	}

	return g.finishPlayerTurns()
}

// finishPlayerTurns plays out the dealer's hand and settles
func (g *Game) finishPlayerTurns() error {
	if g.phase != PhasePlayerTurns {
		return nil
	}

	g.setPhase(PhaseDealerTurn)
	g.playDealer()

	g.setPhase(PhaseShowdown)
	return g.settle()
}

// playDealer draws the dealer to 17. The dealer does not draw if every live
// seat already busted.
func (g *Game) playDealer() {
	defer func() {
		g.dealerDone = true
	}()

	anyStanding := false
	for _, seat := range g.seats.InHand() {
		if !seat.Busted {
			anyStanding = true
			break
		}
	}

	if !anyStanding {
		return
	}

	for {
		value, _ := Value(g.dealerCards)
		if value >= dealerStandsAt {
			break
		}

		if err := g.drawTo(&g.dealerCards, 0); err != nil {
			// EnsureAvailable makes this unreachable
			g.log.WithError(err).Error("dealer could not draw")
			return
		}
	}
}
