package holdem

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"cardroom-server/pkg/deck"
	"cardroom-server/pkg/playable"
)

func newTestGame(t *testing.T, opts Options) *Game {
	t.Helper()

	g, err := NewGame(logrus.StandardLogger(), "test-table", 1, opts)
	assert.NoError(t, err)

	return g
}

// stackDeck forces the exact deal order for the next hand
func stackDeck(g *Game, cards string) {
	g.deck.Cards = deck.CardsFromString(cards)
	g.deck.Cursor = 0
}

func TestNewGame(t *testing.T) {
	a := assert.New(t)

	g, err := NewGame(logrus.StandardLogger(), "uuid", 1, DefaultOptions())
	a.NoError(err)
	a.Equal(playable.StatusWaiting, g.Status())
	a.Equal(PhasePreDeal, g.phase)
	a.Equal("texas-hold-em", g.Name())

	_, err = NewGame(logrus.StandardLogger(), "uuid", 1, Options{SmallBlind: 0, BigBlind: 50, MinBuyIn: 1000, MaxBuyIn: 2000, TurnTimeout: time.Second})
	a.EqualError(err, "small blind must be greater than zero")

	_, err = NewGame(logrus.StandardLogger(), "uuid", 1, Options{SmallBlind: 50, BigBlind: 25, MinBuyIn: 1000, MaxBuyIn: 2000, TurnTimeout: time.Second})
	a.EqualError(err, "big blind must be at least the small blind")
}

func TestGame_DealHand(t *testing.T) {
	a := assert.New(t)
	g := newTestGame(t, DefaultOptions())

	a.NoError(g.Join(1, 1000))
	a.Equal(playable.ErrPlayerNotAtTable, g.DealHand(2))
	a.Equal(playable.UserError("table needs at least two players"), g.DealHand(1))

	a.NoError(g.Join(2, 1000))
	a.Equal(playable.StatusActive, g.Status())

	a.NoError(g.DealHand(1))
	a.Equal(PhasePreFlop, g.phase)
	a.Equal(playable.ErrHandInProgress, g.DealHand(1))

	// blinds posted by the two earliest seats
	a.Equal(25, g.seats.Get(1).Wager)
	a.Equal(975, g.seats.Get(1).Chips)
	a.Equal(50, g.seats.Get(2).Wager)
	a.Equal(950, g.seats.Get(2).Chips)
	a.Equal(50, g.currentBet)

	a.Equal(2, len(g.seats.Get(1).Cards))
	a.Equal(2, len(g.seats.Get(2).Cards))
	a.Equal(0, len(g.community))

	// small blind acts first
	a.Equal(int64(1), g.NextToAct())
}

func TestGame_TurnOrderAndActions(t *testing.T) {
	a := assert.New(t)
	g := newTestGame(t, DefaultOptions())

	a.NoError(g.Join(1, 1000))
	a.NoError(g.Join(2, 1000))
	a.NoError(g.Join(3, 1000))

	stackDeck(g, "2c,4h,6s,2d,4d,6d,10s,11s,12s,8c,9c")
	a.NoError(g.DealHand(1))

	a.Equal(playable.ErrNotYourTurn, g.Check(2))
	a.Equal(playable.ErrNotYourTurn, g.Fold(3))
	a.Equal(playable.ErrPlayerNotAtTable, g.Call(99))

	// seat 1 owes 25 on top of the small blind and cannot check
	a.Equal(playable.UserError("cannot check facing a bet"), g.Check(1))
	a.NoError(g.Call(1))

	a.Equal(int64(2), g.NextToAct())
	a.NoError(g.Check(2))

	a.NoError(g.Call(3))
	a.Equal(PhaseFlop, g.phase)
	a.Equal(150, g.Pot())
	a.Equal(3, len(g.community))

	// a raise re-opens the round for the other live seats
	a.NoError(g.Check(1))
	a.NoError(g.Raise(2, 100))
	a.Equal(playable.UserError("raise must exceed the current bet"), g.Raise(3, 100))
	a.Equal(playable.UserError("raise is below the minimum"), g.Raise(3, 120))
	a.NoError(g.Raise(3, 200))

	a.Equal(int64(1), g.NextToAct(), "the raise re-opened seat 1")
	a.NoError(g.Fold(1))
	a.NoError(g.Call(2))

	a.Equal(PhaseTurn, g.phase)
	a.Equal(550, g.Pot())
	a.Equal(4, len(g.community))
}

func TestGame_FoldToOne(t *testing.T) {
	a := assert.New(t)
	g := newTestGame(t, DefaultOptions())

	a.NoError(g.Join(1, 1000))
	a.NoError(g.Join(2, 1000))

	stackDeck(g, "2c,4h,6s,2d,10s,11s,12s,8c,9c")
	a.NoError(g.DealHand(1))

	a.NoError(g.Raise(1, 100))
	a.NoError(g.Fold(2))

	// seat 1 takes the 150 pot without a showdown
	a.Equal(PhasePreDeal, g.phase)
	a.Equal(1050, g.seats.Get(1).Chips)
	a.Equal(950, g.seats.Get(2).Chips)

	snapshot := g.LastHand()
	a.NotNil(snapshot)
	a.Equal(150, snapshot.Pot)
	a.Equal(1, len(snapshot.Results))
	a.True(snapshot.Results[0].Winner)
	a.Equal(150, snapshot.Results[0].Payout)
}

// a board that plays for both seats splits the pot evenly
func TestGame_SplitPot(t *testing.T) {
	a := assert.New(t)
	g := newTestGame(t, DefaultOptions())

	a.NoError(g.Join(1, 1000))
	a.NoError(g.Join(2, 1000))

	// both hole cards are dead; the board is a royal flush
	stackDeck(g, "2c,2h,3d,3s,10s,11s,12s,13s,14s")
	a.NoError(g.DealHand(1))

	a.NoError(g.Call(1))
	a.NoError(g.Check(2))

	a.NoError(g.Check(1))
	a.NoError(g.Check(2))

	a.NoError(g.Raise(1, 100))
	a.NoError(g.Call(2))

	a.NoError(g.Check(1))
	a.NoError(g.Check(2))

	// pot was 100 + 200; each seat takes 150 back
	a.Equal(PhasePreDeal, g.phase)
	a.Equal(1000, g.seats.Get(1).Chips)
	a.Equal(1000, g.seats.Get(2).Chips)

	snapshot := g.LastHand()
	a.Equal(300, snapshot.Pot)
	a.True(snapshot.Results[0].Winner)
	a.True(snapshot.Results[1].Winner)
	a.Equal(150, snapshot.Results[0].Payout)
	a.Equal(150, snapshot.Results[1].Payout)
	a.Equal("Royal flush", snapshot.Results[0].Hand)
}

// an odd pot's spare chip goes to the earliest tied seat
func TestGame_SplitPotRemainder(t *testing.T) {
	a := assert.New(t)
	g := newTestGame(t, Options{
		SmallBlind:  1,
		BigBlind:    2,
		MinBuyIn:    10,
		MaxBuyIn:    1000,
		TurnTimeout: time.Minute,
	})

	a.NoError(g.Join(1, 100))
	a.NoError(g.Join(2, 100))
	a.NoError(g.Join(3, 100))

	stackDeck(g, "9h,2h,2d,9d,3s,3c,10s,11s,12s,13s,14s")
	a.NoError(g.DealHand(1))

	a.NoError(g.Fold(1))
	a.NoError(g.Check(2))
	a.NoError(g.Call(3))

	for phase := 0; phase < 3; phase++ {
		a.NoError(g.Check(2))
		a.NoError(g.Check(3))
	}

	// the 5-chip pot splits 2/2 with the spare chip to seat 2
	a.Equal(PhasePreDeal, g.phase)
	a.Equal(99, g.seats.Get(1).Chips)
	a.Equal(101, g.seats.Get(2).Chips)
	a.Equal(100, g.seats.Get(3).Chips)

	snapshot := g.LastHand()
	a.Equal(5, snapshot.Pot)
	a.Equal(3, snapshot.Results[0].Payout)
	a.Equal(2, snapshot.Results[1].Payout)
}

// once every live seat is all in, the board runs out with no further betting
func TestGame_AllInRunout(t *testing.T) {
	a := assert.New(t)
	g := newTestGame(t, DefaultOptions())

	a.NoError(g.Join(1, 1000))
	a.NoError(g.Join(2, 1000))

	stackDeck(g, "14c,13c,14d,13d,2h,5s,7c,9d,11h")
	a.NoError(g.DealHand(1))

	a.NoError(g.AllIn(1))
	a.NoError(g.Call(2))

	// aces beat kings on a dry board
	a.Equal(PhasePreDeal, g.phase)
	a.Equal(2000, g.seats.Get(1).Chips)
	a.Equal(0, g.seats.Get(2).Chips)

	snapshot := g.LastHand()
	a.Equal(2000, snapshot.Pot)
	a.Equal(5, len(snapshot.Community))
	a.True(snapshot.Results[0].Winner)
	a.False(snapshot.Results[1].Winner)

	// the felted seat cannot cover the next big blind
	a.Equal(playable.UserError("not enough players can cover the big blind"), g.DealHand(1))
}

func TestGame_TimeoutChecksOrFolds(t *testing.T) {
	a := assert.New(t)
	g := newTestGame(t, DefaultOptions())

	a.NoError(g.Join(1, 1000))
	a.NoError(g.Join(2, 1000))

	stackDeck(g, "2c,4h,6s,2d,10s,11s,12s,8c,9c")
	a.NoError(g.DealHand(1))

	err := g.ForceAdvance(2)
	a.Equal(playable.UserError("the table has not been inactive long enough"), err)

	// seat 1 owes chips, so the timeout folds it and seat 2 wins uncontested
	g.lastActivity = time.Now().Add(-time.Hour)
	a.NoError(g.ForceAdvance(2))
	a.Equal(PhasePreDeal, g.phase)
	a.Equal(975, g.seats.Get(1).Chips)
	a.Equal(1025, g.seats.Get(2).Chips)
}

func TestGame_TimeoutDealsIdleTable(t *testing.T) {
	a := assert.New(t)
	g := newTestGame(t, DefaultOptions())

	a.Equal(errNothingPending, g.ForceAdvance(0))

	a.NoError(g.Join(1, 1000))
	a.NoError(g.Join(2, 1000))

	g.lastActivity = time.Now().Add(-time.Hour)
	changed, err := g.Tick()
	a.NoError(err)
	a.True(changed)
	a.Equal(PhasePreFlop, g.phase)
}

func TestGame_UnpauseRestartsActivityClock(t *testing.T) {
	a := assert.New(t)
	g := newTestGame(t, DefaultOptions())

	a.NoError(g.Join(1, 1000))
	a.NoError(g.Join(2, 1000))

	stackDeck(g, "2c,4h,6s,2d,10s,11s,12s,8c,9c")
	a.NoError(g.DealHand(1))

	a.NoError(g.Pause(1))
	g.lastActivity = time.Now().Add(-time.Hour)
	a.NoError(g.Unpause(1))

	// time spent paused must not count against the next actor's turn window
	err := g.ForceAdvance(2)
	a.Equal(playable.UserError("the table has not been inactive long enough"), err)
	a.Equal(PhasePreFlop, g.phase)
	a.Equal(int64(1), g.seats.NextToAct().PlayerID)
}

func TestGame_LeaveMidHand(t *testing.T) {
	a := assert.New(t)
	g := newTestGame(t, DefaultOptions())

	a.NoError(g.Join(1, 1000))
	a.NoError(g.Join(2, 1000))
	a.NoError(g.Join(3, 1000))

	stackDeck(g, "2c,4h,6s,2d,4d,6d,10s,11s,12s,8c,9c")
	a.NoError(g.DealHand(1))
	a.NoError(g.Call(1))

	// the blind is forfeited to the pot, the stack comes back
	refund, err := g.Leave(2)
	a.NoError(err)
	a.Equal(950, refund)
	a.Equal(50, g.Pot(), "the forfeited blind is already in the pot")

	// remaining order is preserved
	a.Equal(int64(1), g.seats[0].PlayerID)
	a.Equal(int64(3), g.seats[1].PlayerID)

	a.NoError(g.Call(3))
	a.Equal(PhaseFlop, g.phase, "the hand plays on for the remaining seats")
}

func TestGame_TopUpAndAdmin(t *testing.T) {
	a := assert.New(t)
	g := newTestGame(t, DefaultOptions())

	a.NoError(g.Join(1, 1000))
	a.NoError(g.Join(2, 1000))

	a.NoError(g.TopUp(1, 500))
	a.Equal(1500, g.seats.Get(1).Chips)
	a.Equal(playable.UserError("top-up exceeds the maximum buy-in"), g.TopUp(1, 20000))

	a.Equal(playable.ErrNotTableAdmin, g.Pause(2))
	a.NoError(g.Pause(1))
	a.Equal(playable.ErrTablePaused, g.DealHand(1))
	a.NoError(g.Unpause(1))

	a.NoError(g.DealHand(1))
	a.Equal(playable.ErrHandInProgress, g.TopUp(1, 100))
}

func TestGame_Action(t *testing.T) {
	a := assert.New(t)
	g := newTestGame(t, DefaultOptions())

	a.NoError(g.Join(1, 1000))
	a.NoError(g.Join(2, 1000))

	resp, update, err := g.Action(1, &playable.PayloadIn{Action: "deal"})
	a.NoError(err)
	a.True(update)
	a.Equal("OK", resp.Value)

	_, _, err = g.Action(1, &playable.PayloadIn{Action: "raise"})
	a.Equal(playable.UserError("raise requires an amount"), err)

	_, _, err = g.Action(1, &playable.PayloadIn{
		Action:         "raise",
		AdditionalData: playable.AdditionalData{"amount": float64(100)},
	})
	a.NoError(err)
	a.Equal(100, g.currentBet)

	_, _, err = g.Action(1, &playable.PayloadIn{Action: "pause"})
	a.NoError(err)

	_, _, err = g.Action(1, &playable.PayloadIn{Action: "unpause"})
	a.NoError(err)

	_, _, err = g.Action(1, &playable.PayloadIn{Action: "transfer-admin"})
	a.Equal(playable.UserError("transfer-admin requires a playerId"), err)

	_, _, err = g.Action(1, &playable.PayloadIn{
		Action:         "transfer-admin",
		AdditionalData: playable.AdditionalData{"playerId": float64(2)},
	})
	a.NoError(err)

	_, _, err = g.Action(1, &playable.PayloadIn{Action: "jump"})
	a.Equal(playable.UserError("unknown action: jump"), err)
}
