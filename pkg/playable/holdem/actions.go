package holdem

import (
	"errors"

	"cardroom-server/pkg/deck"
	"cardroom-server/pkg/playable"
)

var errNothingPending = errors.New("nothing to advance")

// DealHand starts the next hand. Any seated player may deal; the room's tick
// loop deals automatically once the table has been idle past the timeout.
func (g *Game) DealHand(playerID int64) error {
	if g.paused {
		return playable.ErrTablePaused
	}

	if g.seats.Get(playerID) == nil {
		return playable.ErrPlayerNotAtTable
	}

	return g.dealHand()
}

func (g *Game) dealHand() error {
	if g.phase != PhasePreDeal {
		return playable.ErrHandInProgress
	}

	if g.status != playable.StatusActive {
		return playable.UserError("table needs at least two players")
	}

	// seats that cannot cover the big blind sit the hand out
	live := make([]*playable.Seat, 0, len(g.seats))
	for _, seat := range g.seats {
		if seat.Chips >= g.options.BigBlind {
			seat.InHand = true
			seat.Resolved = false
			live = append(live, seat)
		} else {
			seat.InHand = false
			seat.Resolved = true
		}
	}

	if len(live) < 2 {
		for _, seat := range g.seats {
			seat.ResetForNextHand()
		}

		return playable.UserError("not enough players can cover the big blind")
	}

	// the two earliest live seats post the blinds
	g.postBlind(live[0], g.options.SmallBlind)
	g.postBlind(live[1], g.options.BigBlind)
	g.currentBet = g.options.BigBlind

	g.emit(playable.NewEvent(playable.EventHandStarted, 0, "hand started, blinds %d/%d",
		g.options.SmallBlind, g.options.BigBlind))

	g.deck.EnsureAvailable(holeCards*len(live) + 5)
	for round := 0; round < holeCards; round++ {
		for _, seat := range live {
			if err := g.drawTo(&seat.Cards, seat.PlayerID); err != nil {
				return err
			}
		}
	}

	g.setPhase(PhasePreFlop)
	g.touch()
	return nil
}

func (g *Game) postBlind(seat *playable.Seat, blind int) {
	seat.Chips -= blind
	seat.Wager = blind
	g.emit(playable.NewEvent(playable.EventAction, seat.PlayerID, "posted blind %d", blind).WithAmount(blind))
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

func (g *Game) inBettingRound() bool {
	switch g.phase {
	case PhasePreFlop, PhaseFlop, PhaseTurn, PhaseRiver:
		return true
	}

	return false
}

// requireTurn re-derives the next actor from the seat list so an out-of-turn
// submission is rejected even if it raced the legitimate one
func (g *Game) requireTurn(playerID int64) (*playable.Seat, error) {
	if g.paused {
		return nil, playable.ErrTablePaused
	}

	if !g.inBettingRound() {
		return nil, playable.UserError("not in a betting round")
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

// owed is how much the seat must add to stay in at the current bet
func (g *Game) owed(seat *playable.Seat) int {
	return g.currentBet - seat.Wager
}

// Fold gives up the hand. The seat's wager stays in the pot.
func (g *Game) Fold(playerID int64) error {
	seat, err := g.requireTurn(playerID)
	if err != nil {
		return err
	}

	g.pot += seat.Wager
	seat.Wager = 0
	seat.InHand = false
	seat.Resolved = true
	g.emit(playable.NewEvent(playable.EventAction, playerID, "folded"))

	g.touch()
	if g.seats.CountInHand() == 1 {
		g.awardToLastStanding()
		return nil
	}

	return g.advanceIfNeeded()
}

// Check passes the action without betting. Only legal when nothing is owed.
func (g *Game) Check(playerID int64) error {
	seat, err := g.requireTurn(playerID)
	if err != nil {
		return err
	}

	if g.owed(seat) > 0 {
		return playable.UserError("cannot check facing a bet")
	}

	seat.Resolved = true
	g.emit(playable.NewEvent(playable.EventAction, playerID, "checked"))

	g.touch()
	return g.advanceIfNeeded()
}

// Call matches the current bet. A seat that cannot fully cover it calls for
// its remaining chips (the pot is not split into sides; every wager lands in
// the one shared pot).
func (g *Game) Call(playerID int64) error {
	seat, err := g.requireTurn(playerID)
	if err != nil {
		return err
	}

	owed := g.owed(seat)
	if owed <= 0 {
		return g.Check(playerID)
	}

	pay := owed
	if pay > seat.Chips {
		pay = seat.Chips
	}

	seat.Chips -= pay
	seat.Wager += pay
	seat.Resolved = true
	g.emit(playable.NewEvent(playable.EventAction, playerID, "called %d", pay).WithAmount(pay))

	g.touch()
	return g.advanceIfNeeded()
}

// Raise increases the current bet to raiseTo. Raising re-opens the round for
// every other live seat. The minimum raise is one big blind over the current
// bet unless the raise puts the seat all in.
func (g *Game) Raise(playerID int64, raiseTo int) error {
	seat, err := g.requireTurn(playerID)
	if err != nil {
		return err
	}

	if raiseTo <= g.currentBet {
		return playable.UserError("raise must exceed the current bet")
	}

	additional := raiseTo - seat.Wager
	if additional > seat.Chips {
		return playable.ErrInsufficientChips
	}

	if raiseTo < g.currentBet+g.options.BigBlind && additional != seat.Chips {
		return playable.UserError("raise is below the minimum")
	}

	seat.Chips -= additional
	seat.Wager = raiseTo
	g.currentBet = raiseTo
	g.seats.ClearResolvedExcept(playerID)
	seat.Resolved = true
	g.emit(playable.NewEvent(playable.EventAction, playerID, "raised to %d", raiseTo).WithAmount(raiseTo))

	g.touch()
	return g.advanceIfNeeded()
}

// AllIn pushes the seat's whole stack in
func (g *Game) AllIn(playerID int64) error {
	seat, err := g.requireTurn(playerID)
	if err != nil {
		return err
	}

	if seat.Chips == 0 {
		return playable.UserError("no chips left to wager")
	}

	seat.Wager += seat.Chips
	seat.Chips = 0

	if seat.Wager > g.currentBet {
		// an all-in that increases the bet re-opens the round
		g.currentBet = seat.Wager
		g.seats.ClearResolvedExcept(playerID)
	}

	seat.Resolved = true
	g.emit(playable.NewEvent(playable.EventAction, playerID, "all in for %d", seat.Wager).WithAmount(seat.Wager))

	g.touch()
	return g.advanceIfNeeded()
}

// ForceAdvance resolves a stalled table. Any caller may invoke it once the
// inactivity window has lapsed: a pending seat is checked or folded on its
// behalf, and an idle table between hands is dealt in.
func (g *Game) ForceAdvance(callerID int64) error {
	if g.paused {
		return playable.ErrTablePaused
	}

	switch {
	case g.phase == PhasePreDeal:
		if g.status != playable.StatusActive {
			return errNothingPending
		}

		if !g.timedOut() {
			return playable.UserError("the table has not been inactive long enough")
		}

		return g.dealHand()

	case g.inBettingRound():
		if !g.timedOut() {
			return playable.UserError("the table has not been inactive long enough")
		}

		next := g.seats.NextToAct()
		if next == nil {
			return g.advanceIfNeeded()
		}

		if g.owed(next) > 0 {
			g.emit(playable.NewEvent(playable.EventTimeout, next.PlayerID, "timed out; folding"))
			return g.Fold(next.PlayerID)
		}

		g.emit(playable.NewEvent(playable.EventTimeout, next.PlayerID, "timed out; checking"))
		return g.Check(next.PlayerID)
	}

	return errNothingPending
}

// advanceIfNeeded closes the betting round once nobody is left to act
func (g *Game) advanceIfNeeded() error {
	for g.inBettingRound() && g.seats.NextToAct() == nil {
		if err := g.closeRound(); err != nil {
			return err
		}
	}

	return nil
}

// closeRound sweeps the round's wagers into the pot and advances the phase,
// dealing community cards as the phase requires. The new round re-opens only
// for live seats that still hold chips; when fewer than two can act the next
// round closes immediately and the board runs out.
func (g *Game) closeRound() error {
	for _, seat := range g.seats.InHand() {
		g.pot += seat.Wager
		seat.Wager = 0
	}
	g.currentBet = 0

	switch g.phase {
	case PhasePreFlop:
		g.setPhase(PhaseFlop)
	case PhaseFlop:
		g.setPhase(PhaseTurn)
	case PhaseTurn:
		g.setPhase(PhaseRiver)
	case PhaseRiver:
		g.setPhase(PhaseShowdown)
		return g.settle()
	default:
		return nil
	}

	for len(g.community) < communityCardsFor(g.phase) {
		if err := g.drawTo(&g.community, 0); err != nil {
			return err
		}
	}

	canAct := 0
	for _, seat := range g.seats.InHand() {
		if seat.Chips > 0 {
			canAct++
		}
	}

	if canAct >= 2 {
		for _, seat := range g.seats.InHand() {
			seat.Resolved = seat.Chips == 0
		}
	}

	return nil
}
